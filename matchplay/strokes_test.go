package matchplay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wentworthRankings = []int{7, 11, 3, 13, 9, 1, 15, 5, 17, 8, 16, 10, 4, 12, 6, 18, 2, 14}

func sequentialRankings(n int) []int {
	r := make([]int, n)
	for i := range r {
		r[i] = i + 1
	}
	return r
}

func TestValidateRankings(t *testing.T) {
	testCases := []struct {
		name     string
		rankings []int
		wantErr  bool
	}{
		{name: "valid 18 hole card", rankings: wentworthRankings},
		{name: "valid 9 hole card", rankings: []int{3, 7, 1, 9, 5, 2, 8, 4, 6}},
		{name: "empty card", rankings: nil, wantErr: true},
		{name: "ranking above hole count", rankings: []int{1, 2, 19}, wantErr: true},
		{name: "ranking below one", rankings: []int{0, 1, 2}, wantErr: true},
		{name: "duplicate ranking", rankings: []int{1, 2, 2, 4}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRankings(tc.rankings)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCourseData)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePars(t *testing.T) {
	assert.NoError(t, ValidatePars([]int{4, 4, 3, 5, 4, 4, 3, 5, 4}, 9))
	assert.ErrorIs(t, ValidatePars([]int{4, 4}, 9), ErrInvalidCourseData)
	assert.ErrorIs(t, ValidatePars([]int{4, 2, 4}, 3), ErrInvalidCourseData)
	assert.ErrorIs(t, ValidatePars([]int{4, 7, 4}, 3), ErrInvalidCourseData)
}

func TestAllocateStrokes(t *testing.T) {
	testCases := []struct {
		name      string
		allowance int
		rankings  []int
		want      []int
	}{
		{
			name:      "seven strokes fall on the seven hardest holes",
			allowance: 7,
			rankings:  wentworthRankings,
			want:      []int{1, 0, 1, 0, 0, 1, 0, 1, 0, 0, 0, 0, 1, 0, 1, 0, 1, 0},
		},
		{
			name:      "zero allowance allocates nothing",
			allowance: 0,
			rankings:  wentworthRankings,
			want:      make([]int, 18),
		},
		{
			name:      "negative allowance allocates nothing",
			allowance: -4,
			rankings:  wentworthRankings,
			want:      make([]int, 18),
		},
		{
			name:      "full allowance covers every hole once",
			allowance: 18,
			rankings:  sequentialRankings(18),
			want:      []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		},
		{
			name:      "allowance above eighteen wraps onto the hardest holes",
			allowance: 24,
			rankings:  sequentialRankings(18),
			want:      []int{2, 2, 2, 2, 2, 2, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		},
		{
			name:      "nine hole allocation",
			allowance: 5,
			rankings:  []int{3, 7, 1, 9, 5, 2, 8, 4, 6},
			want:      []int{1, 0, 1, 0, 1, 1, 0, 1, 0},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AllocateStrokes(tc.allowance, tc.rankings))
		})
	}
}

func TestAllocateStrokesTotals(t *testing.T) {
	for allowance := 0; allowance <= 54; allowance++ {
		strokes := AllocateStrokes(allowance, wentworthRankings)
		require.Len(t, strokes, 18)

		total := 0
		for _, s := range strokes {
			total += s
		}
		assert.Equal(t, allowance, total, "allowance %d must be fully allocated", allowance)

		// A harder hole never receives fewer strokes than an easier one.
		byRank := make([]int, 19)
		for i, r := range wentworthRankings {
			byRank[r] = strokes[i]
		}
		for rank := 1; rank < 18; rank++ {
			assert.GreaterOrEqual(t, byRank[rank], byRank[rank+1],
				"allowance %d: rank %d got fewer strokes than rank %d", allowance, rank, rank+1)
		}
	}
}

func TestCourseHandicap(t *testing.T) {
	testCases := []struct {
		name   string
		index  float64
		slope  int
		rating float64
		par    int
		want   int
	}{
		{name: "standard slope keeps the index", index: 12.4, slope: 113, rating: 72.0, par: 72, want: 12},
		{name: "steep slope adds strokes", index: 12.4, slope: 135, rating: 73.8, par: 72, want: 17},
		{name: "easy tees subtract strokes", index: 12.4, slope: 102, rating: 69.5, par: 72, want: 9},
		{name: "plus handicap stays negative", index: -2.0, slope: 113, rating: 72.0, par: 72, want: -2},
		{name: "scratch on par rating", index: 0.0, slope: 120, rating: 72.0, par: 72, want: 0},
		{name: "half strokes round away from zero", index: 9.0, slope: 113, rating: 72.5, par: 72, want: 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CourseHandicap(tc.index, tc.slope, tc.rating, tc.par))
		})
	}
}

func TestMatchDifferentials(t *testing.T) {
	t.Run("higher allowance side receives the difference", func(t *testing.T) {
		a, b := MatchDifferentials(13, 6, wentworthRankings)
		assert.Equal(t, AllocateStrokes(7, wentworthRankings), a)
		assert.Equal(t, make([]int, 18), b)
	})

	t.Run("mirrored when side b carries the higher allowance", func(t *testing.T) {
		a, b := MatchDifferentials(6, 13, wentworthRankings)
		assert.Equal(t, make([]int, 18), a)
		assert.Equal(t, AllocateStrokes(7, wentworthRankings), b)
	})

	t.Run("equal allowances play level", func(t *testing.T) {
		a, b := MatchDifferentials(11, 11, wentworthRankings)
		assert.Equal(t, make([]int, 18), a)
		assert.Equal(t, make([]int, 18), b)
	})
}
