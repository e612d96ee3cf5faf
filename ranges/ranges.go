// Package ranges parses and normalizes inclusive integer ranges used to select seasons and episodes.
package ranges

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// MaxBound is the largest value a range may hold. One value of headroom is
// reserved so that the half-open end used while merging cannot overflow.
const MaxBound = math.MaxUint32 - 1

// Range is an inclusive interval [Start, End].
type Range struct {
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

// Single returns the range [n, n].
func Single(n uint32) Range {
	return Range{Start: n, End: n}
}

// Contains reports whether n lies inside the range.
func (r Range) Contains(n uint32) bool {
	return r.Start <= n && n <= r.End
}

func (r Range) String() string {
	if r.Start == r.End {
		return fmt.Sprint(r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// halfOpen is [start, stop).
type halfOpen struct {
	start, stop uint32
}

// Merge returns the minimal ascending set of disjoint ranges covering the
// union of the input. Overlapping and touching ranges are joined, so
// consecutive results are always separated by a gap of at least one.
func Merge(input []Range) []Range {
	if len(input) == 0 {
		return []Range{}
	}

	intervals := lo.Map(input, func(r Range, _ int) halfOpen {
		return halfOpen{start: r.Start, stop: r.End + 1}
	})
	slices.SortFunc(intervals, func(a, b halfOpen) int {
		switch {
		case a.start < b.start:
			return -1
		case a.start > b.start:
			return 1
		default:
			return 0
		}
	})

	merged := make([]halfOpen, 0, len(intervals))
	current := intervals[0]
	for _, next := range intervals[1:] {
		if next.start <= current.stop {
			current.stop = max(current.stop, next.stop)
			continue
		}
		merged = append(merged, current)
		current = next
	}
	merged = append(merged, current)

	return lo.Map(merged, func(i halfOpen, _ int) Range {
		return Range{Start: i.start, End: i.stop - 1}
	})
}

// Join renders ranges in the same comma separated form ParseSelector accepts.
func Join(rs []Range) string {
	return strings.Join(lo.Map(rs, func(r Range, _ int) string { return r.String() }), ",")
}

// AnyContains reports whether n lies inside any of the ranges.
func AnyContains(rs []Range, n uint32) bool {
	return lo.SomeBy(rs, func(r Range) bool { return r.Contains(n) })
}
