// Package limit parses counts that may be either a positive number or an "unbounded" sentinel.
package limit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/mo"
)

// Sentinels accepted in place of a number.
const (
	Inf   = "inf"
	Never = "never"
)

// Kind tags a Limit.
type Kind uint8

const (
	Invalid Kind = iota
	Unlimited
	Bounded
)

// Limit is {Unlimited, Bounded(n), Invalid(text)}. The zero value is Invalid.
type Limit struct {
	kind     Kind
	n        uint32
	text     string
	sentinel string
}

// Of returns Bounded(n). n must be positive.
func Of(n uint32) Limit {
	if n == 0 {
		return Limit{kind: Invalid, text: "0"}
	}
	return Limit{kind: Bounded, n: n}
}

// None returns Unlimited rendered with the given sentinel.
func None(sentinel string) Limit {
	return Limit{kind: Unlimited, sentinel: sentinel}
}

// Parse distinguishes the sentinel (case-insensitive), a positive integer and anything else.
func Parse(input, sentinel string) Limit {
	if strings.EqualFold(input, sentinel) {
		return None(sentinel)
	}

	n, err := strconv.ParseUint(input, 10, 32)
	if err != nil || n == 0 {
		return Limit{kind: Invalid, text: input, sentinel: sentinel}
	}

	return Limit{kind: Bounded, n: uint32(n), sentinel: sentinel}
}

// Kind returns the tag.
func (l Limit) Kind() Kind { return l.kind }

// Get returns the bound, or None when unlimited or invalid.
func (l Limit) Get() mo.Option[uint32] {
	if l.kind == Bounded {
		return mo.Some(l.n)
	}
	return mo.None[uint32]()
}

// Unlimited reports whether the sentinel was given.
func (l Limit) Unlimited() bool { return l.kind == Unlimited }

// Err describes an Invalid limit and is nil otherwise.
func (l Limit) Err() error {
	if l.kind != Invalid {
		return nil
	}
	if l.sentinel == "" {
		return fmt.Errorf("invalid value %q: expected a positive number", l.text)
	}
	return fmt.Errorf("invalid value %q: expected %q or a positive number", l.text, l.sentinel)
}

func (l Limit) String() string {
	switch l.kind {
	case Unlimited:
		return l.sentinel
	case Bounded:
		return strconv.FormatUint(uint64(l.n), 10)
	default:
		return l.text
	}
}

// Flag adapts a Limit to pflag.Value, rejecting Invalid input at parse time.
type Flag struct {
	Limit
	Sentinel string
}

// NewFlag returns a flag value preset to def.
func NewFlag(def, sentinel string) *Flag {
	return &Flag{Limit: Parse(def, sentinel), Sentinel: sentinel}
}

// Set implements pflag.Value.
func (f *Flag) Set(value string) error {
	parsed := Parse(value, f.Sentinel)
	if err := parsed.Err(); err != nil {
		return err
	}
	f.Limit = parsed
	return nil
}

// Type implements pflag.Value.
func (f *Flag) Type() string {
	return strings.ToUpper(f.Sentinel) + "|NUMBER"
}
