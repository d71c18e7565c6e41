package matchplay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveHole(t *testing.T) {
	testCases := []struct {
		name string
		a    PlayerScore
		b    PlayerScore
		want HoleOutcome
	}{
		{
			name: "lower gross wins level hole",
			a:    PlayerScore{Gross: 4},
			b:    PlayerScore{Gross: 5},
			want: HoleWonA,
		},
		{
			name: "stroke turns a lost hole into a halve",
			a:    PlayerScore{Gross: 5, Strokes: 1},
			b:    PlayerScore{Gross: 4},
			want: HoleHalved,
		},
		{
			name: "stroke turns a halved hole into a win",
			a:    PlayerScore{Gross: 4},
			b:    PlayerScore{Gross: 4, Strokes: 1},
			want: HoleWonB,
		},
		{
			name: "two strokes on a long hole",
			a:    PlayerScore{Gross: 7, Strokes: 2},
			b:    PlayerScore{Gross: 6},
			want: HoleWonA,
		},
		{
			name: "pickup loses to any returned score",
			a:    PlayerScore{},
			b:    PlayerScore{Gross: 9},
			want: HoleWonB,
		},
		{
			name: "double pickup halves",
			a:    PlayerScore{},
			b:    PlayerScore{},
			want: HoleHalved,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveHole(tc.a, tc.b))
		})
	}
}

func TestResolveBestBall(t *testing.T) {
	t.Run("lowest net of each side decides", func(t *testing.T) {
		outcome, bestA, bestB := ResolveBestBall(
			[]PlayerScore{{Gross: 5}, {Gross: 4}},
			[]PlayerScore{{Gross: 6, Strokes: 1}, {Gross: 6}},
		)
		assert.Equal(t, HoleWonA, outcome)
		assert.Equal(t, BestBall{PlayerIndex: 1, Net: 4}, bestA)
		assert.Equal(t, BestBall{PlayerIndex: 0, Net: 5}, bestB)
	})

	t.Run("tie inside a side counts the first listed player", func(t *testing.T) {
		_, bestA, _ := ResolveBestBall(
			[]PlayerScore{{Gross: 4}, {Gross: 5, Strokes: 1}},
			[]PlayerScore{{Gross: 4}},
		)
		assert.Equal(t, 0, bestA.PlayerIndex)
		assert.Equal(t, 4, bestA.Net)
	})

	t.Run("player without a score never counts", func(t *testing.T) {
		outcome, bestA, bestB := ResolveBestBall(
			[]PlayerScore{{}, {Gross: 6}},
			[]PlayerScore{{Gross: 5}},
		)
		assert.Equal(t, HoleWonB, outcome)
		assert.Equal(t, BestBall{PlayerIndex: 1, Net: 6}, bestA)
		assert.Equal(t, BestBall{PlayerIndex: 0, Net: 5}, bestB)
	})

	t.Run("side with no scores loses the hole", func(t *testing.T) {
		outcome, bestA, _ := ResolveBestBall(
			[]PlayerScore{{}, {}},
			[]PlayerScore{{Gross: 8}},
		)
		assert.Equal(t, HoleWonB, outcome)
		assert.Equal(t, -1, bestA.PlayerIndex)
	})

	t.Run("both sides empty halve and count nobody", func(t *testing.T) {
		outcome, bestA, bestB := ResolveBestBall(nil, nil)
		assert.Equal(t, HoleHalved, outcome)
		assert.Equal(t, -1, bestA.PlayerIndex)
		assert.Equal(t, -1, bestB.PlayerIndex)
	})

	t.Run("uneven sides are legal", func(t *testing.T) {
		outcome, _, _ := ResolveBestBall(
			[]PlayerScore{{Gross: 4}, {Gross: 4}},
			[]PlayerScore{{Gross: 3, Strokes: 1}},
		)
		assert.Equal(t, HoleWonB, outcome)
	})

	t.Run("negative nets compare like any other", func(t *testing.T) {
		outcome, _, bestB := ResolveBestBall(
			[]PlayerScore{{Gross: 3}},
			[]PlayerScore{{Gross: 2, Strokes: 3}},
		)
		assert.Equal(t, HoleWonB, outcome)
		assert.Equal(t, -1, bestB.Net)
	})
}
