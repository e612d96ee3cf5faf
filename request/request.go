// Package request resolves independent episode and season selectors into a single download plan.
package request

import (
	"fmt"

	"github.com/episodl/episodl/ranges"
)

// AllOrSpecific narrows one dimension to everything or to merged ranges.
type AllOrSpecific struct {
	All    bool           `json:"all"`
	Ranges []ranges.Range `json:"ranges,omitempty" jsonschema:"description=Merged inclusive ranges when all is false"`
}

// Everything returns the All variant.
func Everything() AllOrSpecific { return AllOrSpecific{All: true} }

// Specific returns the Specific variant.
func Specific(rs []ranges.Range) AllOrSpecific { return AllOrSpecific{Ranges: rs} }

// Contains reports whether n is selected.
func (a AllOrSpecific) Contains(n uint32) bool {
	return a.All || ranges.AnyContains(a.Ranges, n)
}

func (a AllOrSpecific) String() string {
	if a.All {
		return "all"
	}
	return ranges.Join(a.Ranges)
}

// Shape tags an EpisodesRequest.
type Shape string

const (
	ShapeUnspecified Shape = "unspecified"
	ShapeEpisodes    Shape = "episodes"
	ShapeSeasons     Shape = "seasons"
	ShapeCombined    Shape = "combined"
	ShapeAll         Shape = "all"
)

// EpisodesRequest is the normalized plan. Episodes is set for ShapeEpisodes
// and ShapeCombined, Seasons for ShapeSeasons and ShapeCombined.
type EpisodesRequest struct {
	Shape    Shape          `json:"shape" jsonschema:"enum=unspecified,enum=episodes,enum=seasons,enum=combined,enum=all"`
	Seasons  *AllOrSpecific `json:"seasons,omitempty"`
	Episodes *AllOrSpecific `json:"episodes,omitempty"`
}

// Unspecified returns the request used when neither dimension was given.
func Unspecified() EpisodesRequest { return EpisodesRequest{Shape: ShapeUnspecified} }

// All returns the request for every episode of every season.
func All() EpisodesRequest { return EpisodesRequest{Shape: ShapeAll} }

// Episodes returns a request constrained on episodes only.
func Episodes(e AllOrSpecific) EpisodesRequest {
	return EpisodesRequest{Shape: ShapeEpisodes, Episodes: &e}
}

// Seasons returns a request constrained on seasons only.
func Seasons(s AllOrSpecific) EpisodesRequest {
	return EpisodesRequest{Shape: ShapeSeasons, Seasons: &s}
}

// Combined returns a request constrained on both dimensions.
func Combined(seasons, episodes AllOrSpecific) EpisodesRequest {
	return EpisodesRequest{Shape: ShapeCombined, Seasons: &seasons, Episodes: &episodes}
}

func fromSelector(s ranges.Selector) AllOrSpecific {
	if s.Kind == ranges.All {
		return Everything()
	}
	return Specific(s.Ranges)
}

// Resolve maps every (episodes, seasons) selector pair to a request. The two
// sides index different dimensions and are never merged with each other.
func Resolve(episodes, seasons ranges.Selector) EpisodesRequest {
	switch {
	case episodes.Kind == ranges.Unspecified && seasons.Kind == ranges.Unspecified:
		return Unspecified()
	case episodes.Kind == ranges.All && seasons.Kind == ranges.All:
		return All()
	case seasons.Kind == ranges.Unspecified:
		return Episodes(fromSelector(episodes))
	case episodes.Kind == ranges.Unspecified:
		return Seasons(fromSelector(seasons))
	default:
		return Combined(fromSelector(seasons), fromSelector(episodes))
	}
}

// Contains reports whether the given season and episode numbers are part of
// the plan. Unspecified behaves like All; the extractor decides what a plain
// URL means.
func (r EpisodesRequest) Contains(season, episode uint32) bool {
	switch r.Shape {
	case ShapeEpisodes:
		return r.Episodes.Contains(episode)
	case ShapeSeasons:
		return r.Seasons.Contains(season)
	case ShapeCombined:
		return r.Seasons.Contains(season) && r.Episodes.Contains(episode)
	default:
		return true
	}
}

func (r EpisodesRequest) String() string {
	switch r.Shape {
	case ShapeEpisodes:
		return fmt.Sprintf("episodes %s", r.Episodes)
	case ShapeSeasons:
		return fmt.Sprintf("seasons %s", r.Seasons)
	case ShapeCombined:
		return fmt.Sprintf("seasons %s, episodes %s", r.Seasons, r.Episodes)
	default:
		return string(r.Shape)
	}
}
