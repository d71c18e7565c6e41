package matchplay

import (
	"fmt"
	"math"
)

// ValidateRankings checks that rankings is a permutation of 1..len(rankings),
// rank 1 being the hardest hole.
func ValidateRankings(rankings []int) error {
	n := len(rankings)
	if n == 0 {
		return fmt.Errorf("%w: no holes", ErrInvalidCourseData)
	}
	seen := make([]bool, n+1)
	for i, r := range rankings {
		if r < 1 || r > n {
			return fmt.Errorf("%w: hole %d has ranking %d, want 1..%d", ErrInvalidCourseData, i+1, r, n)
		}
		if seen[r] {
			return fmt.Errorf("%w: ranking %d assigned twice", ErrInvalidCourseData, r)
		}
		seen[r] = true
	}
	return nil
}

func ValidatePars(pars []int, holes int) error {
	if len(pars) != holes {
		return fmt.Errorf("%w: %d pars for %d holes", ErrInvalidCourseData, len(pars), holes)
	}
	for i, p := range pars {
		if p < 3 || p > 6 {
			return fmt.Errorf("%w: hole %d has par %d", ErrInvalidCourseData, i+1, p)
		}
	}
	return nil
}

// AllocateStrokes spreads an allowance over the holes by difficulty ranking.
// Every hole receives allowance/n strokes, and the allowance%n hardest holes
// receive one extra, so the slice always sums to the allowance. A zero or
// negative allowance allocates nothing. Rankings are assumed valid.
func AllocateStrokes(allowance int, rankings []int) []int {
	n := len(rankings)
	strokes := make([]int, n)
	if allowance <= 0 || n == 0 {
		return strokes
	}
	base := allowance / n
	extra := allowance % n
	for i, r := range rankings {
		strokes[i] = base
		if r <= extra {
			strokes[i]++
		}
	}
	return strokes
}

// CourseHandicap converts a handicap index into whole playing strokes for a
// tee set using the standard formula: index * (slope / 113) + (rating - par),
// rounded half away from zero.
func CourseHandicap(index float64, slope int, rating float64, par int) int {
	raw := index*(float64(slope)/113.0) + (rating - float64(par))
	return int(math.Round(raw))
}

// MatchDifferentials converts two full allowances into match-play strokes:
// only the higher-allowance side receives strokes, the difference between the
// two, allocated by ranking. Equal allowances play level.
func MatchDifferentials(allowanceA, allowanceB int, rankings []int) (sideA, sideB []int) {
	diff := allowanceA - allowanceB
	switch {
	case diff > 0:
		return AllocateStrokes(diff, rankings), make([]int, len(rankings))
	case diff < 0:
		return make([]int, len(rankings)), AllocateStrokes(-diff, rankings)
	default:
		return make([]int, len(rankings)), make([]int, len(rankings))
	}
}
