// Package language enumerates the audio and subtitle languages episodes can be requested in.
package language

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Language is a closed enumeration. Unspecified means "no preference".
type Language uint8

const (
	Unspecified Language = iota
	English
	German
	Japanese
	Spanish
	French
	Italian
	Portuguese
	Russian
	Chinese
	Korean
)

type names struct {
	short, long string
}

// Declaration order is the matching order.
var table = []names{
	Unspecified: {"", "Unspecified"},
	English:     {"EN", "English"},
	German:      {"DE", "German"},
	Japanese:    {"JP", "Japanese"},
	Spanish:     {"ES", "Spanish"},
	French:      {"FR", "French"},
	Italian:     {"IT", "Italian"},
	Portuguese:  {"PT", "Portuguese"},
	Russian:     {"RU", "Russian"},
	Chinese:     {"ZH", "Chinese"},
	Korean:      {"KO", "Korean"},
}

// Short returns the two letter code, empty for Unspecified.
func (l Language) Short() string { return table[l].short }

// Long returns the English name.
func (l Language) Long() string { return table[l].long }

func (l Language) String() string { return l.Long() }

// All returns every language, Unspecified first, in declaration order.
func All() []Language {
	return lo.Times(len(table), func(i int) Language { return Language(i) })
}

// Concrete returns every language except Unspecified.
func Concrete() []Language {
	return All()[1:]
}

// ByShort finds a concrete language by its code, ignoring case.
func ByShort(code string) (Language, bool) {
	return lo.Find(Concrete(), func(l Language) bool { return strings.EqualFold(code, l.Short()) })
}

// ByLong finds a concrete language by its name, ignoring case.
func ByLong(name string) (Language, bool) {
	return lo.Find(Concrete(), func(l Language) bool { return strings.EqualFold(name, l.Long()) })
}

// Parse accepts "unspecified", a long name or a short code.
func Parse(input string) (Language, error) {
	if strings.EqualFold(input, Unspecified.Long()) {
		return Unspecified, nil
	}
	if l, ok := ByLong(input); ok {
		return l, nil
	}
	if l, ok := ByShort(input); ok {
		return l, nil
	}
	return Unspecified, fmt.Errorf("invalid language %q", input)
}

// Set implements pflag.Value.
func (l *Language) Set(value string) error {
	parsed, err := Parse(value)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Type implements pflag.Value.
func (l *Language) Type() string {
	return "LANG"
}

// MarshalText encodes the long name.
func (l Language) MarshalText() ([]byte, error) {
	return []byte(l.Long()), nil
}
