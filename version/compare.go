package version

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// Compare orders two dotted versions such as "v1.2.3" numerically and returns
// -1, 0 or 1. Missing components count as zero and a pre-release suffix
// ("-rc.1") is ignored.
func Compare(a, b string) (int, error) {
	av, err := parse(a)
	if err != nil {
		return 0, err
	}

	bv, err := parse(b)
	if err != nil {
		return 0, err
	}

	for i := range max(len(av), len(bv)) {
		if c := cmp.Compare(component(av, i), component(bv, i)); c != 0 {
			return c, nil
		}
	}

	return 0, nil
}

func parse(version string) ([]int, error) {
	core, _, _ := strings.Cut(strings.TrimPrefix(strings.TrimSpace(version), "v"), "-")
	if core == "" {
		return nil, fmt.Errorf("invalid version %q", version)
	}

	parts := strings.Split(core, ".")
	numbers := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid version %q", version)
		}
		numbers[i] = n
	}

	return numbers, nil
}

func component(v []int, i int) int {
	if i < len(v) {
		return v[i]
	}
	return 0
}
