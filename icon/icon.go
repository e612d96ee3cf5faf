// Package icon renders the status symbols printed next to messages.
//
// The symbol set follows the icons.variant setting. Unknown variants fall
// back to plain ASCII so output never loses its markers.
package icon

import (
	"github.com/episodl/episodl/key"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants lists the accepted values of icons.variant.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

func (d *iconDef) variant(name string) string {
	switch name {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return d.plain
	}
}

// String renders i in the configured variant.
func (i Icon) String() string {
	d, ok := icons[i]
	if !ok {
		return ""
	}
	return d.variant(viper.GetString(key.IconsVariant))
}

// Get is shorthand for i.String().
func Get(i Icon) string {
	return i.String()
}
