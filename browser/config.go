// Package browser provisions a WebDriver-controlled Chrome session that is
// patched to look like an ordinary user browser.
package browser

import (
	"time"

	"github.com/episodl/episodl/key"
	"github.com/episodl/episodl/where"
	"github.com/spf13/viper"
)

// Config controls a single provisioning run.
type Config struct {
	// MajorVersion is the pinned browser and driver milestone.
	MajorVersion int
	Headless     bool
	// DataDir holds long-lived assets such as the ad-block extension.
	DataDir         string
	ChannelAttempts int
	ChannelBackoff  time.Duration
	// StealthStrict turns a failed anti-detection patch into a provisioning error.
	StealthStrict bool
}

// ConfigFromViper builds a Config from the loaded configuration.
func ConfigFromViper() Config {
	return Config{
		MajorVersion:    viper.GetInt(key.BrowserVersion),
		Headless:        viper.GetBool(key.BrowserHeadless),
		DataDir:         where.Data(),
		ChannelAttempts: viper.GetInt(key.BrowserChannelAttempts),
		ChannelBackoff:  time.Duration(viper.GetInt(key.BrowserChannelBackoff)) * time.Millisecond,
		StealthStrict:   viper.GetBool(key.BrowserStealthStrict),
	}
}

// State is a provisioning stage.
type State uint8

const (
	Idle State = iota
	LocatingOrDownloading
	Launching
	AwaitingChannel
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case LocatingOrDownloading:
		return "locating or downloading"
	case Launching:
		return "launching"
	case AwaitingChannel:
		return "awaiting channel"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
