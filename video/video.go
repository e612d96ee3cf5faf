// Package video resolves which variant of an episode to fetch: raw, dubbed or subtitled, in which language.
package video

import (
	"fmt"
	"strings"

	"github.com/episodl/episodl/language"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

// Kind is the bare video type, as accepted by the --type flag.
type Kind uint8

const (
	Unspecified Kind = iota
	Raw
	Dub
	Sub
)

var kindNames = []string{"unspecified", "raw", "dub", "sub"}

func (k Kind) String() string { return kindNames[k] }

// ParseKind accepts one of the kind names, ignoring case.
func ParseKind(input string) (Kind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(input, name) {
			return Kind(i), nil
		}
	}
	return Unspecified, fmt.Errorf("invalid video type %q, expected one of raw, dub, sub", input)
}

// Set implements pflag.Value.
func (k *Kind) Set(value string) error {
	parsed, err := ParseKind(value)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Type implements pflag.Value.
func (k *Kind) Type() string { return "TYPE" }

// Type is the resolved target. Language is always Unspecified for Raw.
type Type struct {
	Kind     Kind              `json:"kind"`
	Language language.Language `json:"language"`
}

// None is Unspecified(Unspecified): no constraint was requested.
var None = Type{Kind: Unspecified, Language: language.Unspecified}

func (t Type) String() string {
	switch {
	case t.Kind == Raw:
		return "raw"
	case t.Language == language.Unspecified:
		return t.Kind.String()
	case t.Kind == Unspecified:
		return strings.ToLower(t.Language.Long())
	default:
		return t.Language.Short() + t.Kind.String()
	}
}

// MarshalText encodes the shorthand form ParseShorthand accepts.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Shorthand is a pflag.Value for the -t flag. The zero value is None.
type Shorthand struct {
	Value Type
}

func (s *Shorthand) String() string { return s.Value.String() }

// Set implements pflag.Value.
func (s *Shorthand) Set(value string) error {
	parsed, err := ParseShorthand(value)
	if err != nil {
		return err
	}
	s.Value = parsed
	return nil
}

// Type implements pflag.Value.
func (s *Shorthand) Type() string { return "SHORTHAND" }

// ParseShorthand decodes tokens such as "raw", "ENdub", "desub", "german" or "jp".
// Matching is case-insensitive and the first language in declaration order wins.
func ParseShorthand(input string) (Type, error) {
	for _, k := range []Kind{Unspecified, Raw, Dub, Sub} {
		if strings.EqualFold(input, k.String()) {
			return Type{Kind: k, Language: language.Unspecified}, nil
		}
	}

	lower := strings.ToLower(input)

	for _, k := range []Kind{Dub, Sub} {
		if code, ok := strings.CutSuffix(lower, k.String()); ok {
			if lang, ok := language.ByShort(code); ok {
				return Type{Kind: k, Language: lang}, nil
			}
		}
	}

	if lang, ok := language.ByLong(input); ok {
		return Type{Kind: Unspecified, Language: lang}, nil
	}

	if lang, ok := language.ByShort(input); ok {
		return Type{Kind: Unspecified, Language: lang}, nil
	}

	err := fmt.Errorf("failed to parse %q as video type shorthand", input)
	if suggestion, ok := suggest(input); ok {
		err = fmt.Errorf("%w, did you mean %q?", err, suggestion)
	}
	return None, err
}

// suggest returns the closest valid shorthand token.
func suggest(input string) (string, bool) {
	candidates := append([]string{}, kindNames...)
	for _, lang := range language.Concrete() {
		candidates = append(candidates,
			strings.ToLower(lang.Long()),
			lang.Short()+Dub.String(),
			lang.Short()+Sub.String(),
		)
	}

	ranks := fuzzy.RankFindNormalizedFold(input, candidates)
	if len(ranks) == 0 {
		return "", false
	}

	best := lo.MinBy(ranks, func(a, b fuzzy.Rank) bool { return a.Distance < b.Distance })
	return best.Target, true
}

// Resolve combines the three inputs. A shorthand other than None wins
// outright; callers keep -t and --type/--lang mutually exclusive.
func Resolve(kind Kind, lang language.Language, shorthand Type) Type {
	if shorthand != None {
		return shorthand
	}

	switch kind {
	case Raw:
		return Type{Kind: Raw, Language: language.Unspecified}
	default:
		return Type{Kind: kind, Language: lang}
	}
}
