package ranges

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags a Selector.
type Kind uint8

const (
	Unspecified Kind = iota
	All
	Custom
)

func (k Kind) String() string {
	switch k {
	case All:
		return "All"
	case Custom:
		return "Custom"
	default:
		return "Unspecified"
	}
}

// Selector is what the user asked for along one dimension (episodes or seasons).
// Ranges is only meaningful for Custom and is always merged.
type Selector struct {
	Kind   Kind
	Ranges []Range
}

// UnspecifiedSelector returns the "nothing requested" selector.
func UnspecifiedSelector() Selector { return Selector{Kind: Unspecified} }

// AllSelector returns the "everything" selector.
func AllSelector() Selector { return Selector{Kind: All} }

// CustomSelector merges rs and wraps them in a Custom selector.
func CustomSelector(rs ...Range) Selector {
	return Selector{Kind: Custom, Ranges: Merge(rs)}
}

// ParseSelector accepts "unspecified", "all" (both case-insensitive) or a comma
// separated list of integers and a-b ranges. Parsing stops at the first
// malformed token.
func ParseSelector(input string) (Selector, error) {
	if strings.EqualFold(input, "unspecified") {
		return UnspecifiedSelector(), nil
	}

	if strings.EqualFold(input, "all") {
		return AllSelector(), nil
	}

	noSpace := strings.ReplaceAll(input, " ", "")
	var parsed []Range

	for _, part := range strings.Split(noSpace, ",") {
		if begin, end, ok := strings.Cut(part, "-"); ok {
			b, err := parseBound(begin)
			if err != nil {
				return Selector{}, fmt.Errorf("failed to parse %q as integer in range %q", begin, part)
			}

			e, err := parseBound(end)
			if err != nil {
				return Selector{}, fmt.Errorf("failed to parse %q as integer in range %q", end, part)
			}

			if b > e {
				return Selector{}, fmt.Errorf("range start cannot be bigger than range end: %q", part)
			}

			parsed = append(parsed, Range{Start: b, End: e})
			continue
		}

		n, err := parseBound(part)
		if err != nil {
			return Selector{}, fmt.Errorf("failed to parse %q as integer", part)
		}

		parsed = append(parsed, Single(n))
	}

	return CustomSelector(parsed...), nil
}

func parseBound(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	if n > MaxBound {
		return 0, strconv.ErrRange
	}
	return uint32(n), nil
}

func (s Selector) String() string {
	if s.Kind == Custom {
		return Join(s.Ranges)
	}
	return strings.ToLower(s.Kind.String())
}

// Set implements pflag.Value.
func (s *Selector) Set(value string) error {
	parsed, err := ParseSelector(value)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Type implements pflag.Value.
func (s *Selector) Type() string {
	return "RANGES"
}
