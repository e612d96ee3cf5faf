// Package extractor turns a single video page or link into a playable media location.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
)

var (
	// ErrUnsupported is returned when no registered extractor accepts a URL.
	ErrUnsupported = errors.New("no extractor supports this URL")
	// ErrUnknown is returned when a selector names no registered extractor.
	ErrUnknown = errors.New("unknown extractor")
	// ErrNoMedia is returned by an extractor that found nothing playable.
	ErrNoMedia = errors.New("no media found")
)

// Media is a resolved video location and the request headers it needs.
type Media struct {
	URL      string
	Title    string
	Headers  map[string]string
	Filename string
}

// Extractor resolves media for the URLs it supports.
type Extractor interface {
	Name() string
	Supports(url string) bool
	Extract(ctx context.Context, url string) (*Media, error)
}

// Auto names the selector that probes every extractor in registration order.
const Auto = "auto"

// Selector picks an extractor explicitly or asks for auto-detection.
type Selector struct {
	Name string
}

// AutoSelector probes extractors in registration order.
func AutoSelector() Selector { return Selector{Name: Auto} }

// ParseSelector treats "auto" case-insensitively and keeps any other name verbatim.
func ParseSelector(text string) Selector {
	if strings.EqualFold(text, Auto) {
		return AutoSelector()
	}
	return Selector{Name: text}
}

// IsAuto reports whether the selector asks for auto-detection.
func (s Selector) IsAuto() bool { return s.Name == Auto || s.Name == "" }

func (s Selector) String() string {
	if s.IsAuto() {
		return Auto
	}
	return s.Name
}

// Set implements pflag.Value.
func (s *Selector) Set(text string) error {
	*s = ParseSelector(text)
	return nil
}

func (s *Selector) Type() string { return "NAME" }

// Registry holds extractors in their probing order.
type Registry struct {
	extractors []Extractor
}

// NewRegistry registers extractors in the given order.
func NewRegistry(extractors ...Extractor) *Registry {
	r := &Registry{}
	for _, e := range extractors {
		r.MustRegister(e)
	}
	return r
}

// Register appends e. Names are unique, case-insensitively, and "auto" is reserved.
func (r *Registry) Register(e Extractor) error {
	name := e.Name()
	if strings.EqualFold(name, Auto) {
		return fmt.Errorf("extractor name %q is reserved", name)
	}

	if _, ok := r.lookup(name); ok {
		return fmt.Errorf("extractor %q is already registered", name)
	}

	r.extractors = append(r.extractors, e)
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(e Extractor) {
	if err := r.Register(e); err != nil {
		panic(err)
	}
}

// Names lists registered extractors in probing order.
func (r *Registry) Names() []string {
	return lo.Map(r.extractors, func(e Extractor, _ int) string { return e.Name() })
}

// Pick returns the extractor to use for url.
func (r *Registry) Pick(selector Selector, url string) (Extractor, error) {
	if selector.IsAuto() {
		e, ok := lo.Find(r.extractors, func(e Extractor) bool { return e.Supports(url) })
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupported, url)
		}
		return e, nil
	}

	e, ok := r.lookup(selector.Name)
	if !ok {
		return nil, r.unknown(selector.Name)
	}

	if !e.Supports(url) {
		return nil, fmt.Errorf("%w: %s does not handle %s", ErrUnsupported, e.Name(), url)
	}

	return e, nil
}

func (r *Registry) lookup(name string) (Extractor, bool) {
	return lo.Find(r.extractors, func(e Extractor) bool { return strings.EqualFold(e.Name(), name) })
}

// unknown builds the error for a missing name, suggesting the closest registered one.
func (r *Registry) unknown(name string) error {
	err := fmt.Errorf("%w %q", ErrUnknown, name)
	if len(r.extractors) == 0 {
		return err
	}

	lower := strings.ToLower(name)
	closest := lo.MinBy(r.Names(), func(a, b string) bool {
		return levenshtein.Distance(lower, strings.ToLower(a)) < levenshtein.Distance(lower, strings.ToLower(b))
	})

	if levenshtein.Distance(lower, strings.ToLower(closest)) > max(len(name)/2, 2) {
		return fmt.Errorf("%w, available: %s", err, strings.Join(r.Names(), ", "))
	}
	return fmt.Errorf("%w, did you mean %q?", err, closest)
}
