package pairing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rosterIndex() map[int]Player {
	return map[int]Player{
		1: {ID: 1, Name: "Alice", HandicapIndex: 2.0, TeamID: 100},
		2: {ID: 2, Name: "Bob", HandicapIndex: 8.0, TeamID: 100},
		3: {ID: 3, Name: "Carl", HandicapIndex: 12.0, TeamID: 100},
		4: {ID: 4, Name: "Dana", HandicapIndex: 20.0, TeamID: 100},
		5: {ID: 5, Name: "Eve", HandicapIndex: 3.0, TeamID: 200},
		6: {ID: 6, Name: "Fay", HandicapIndex: 7.5, TeamID: 200},
		7: {ID: 7, Name: "Gus", HandicapIndex: 13.0, TeamID: 200},
		8: {ID: 8, Name: "Hal", HandicapIndex: 19.0, TeamID: 200},
	}
}

func ladderMatchups() []Matchup {
	return []Matchup{
		{A: []int{1}, B: []int{5}},
		{A: []int{2}, B: []int{6}},
		{A: []int{3}, B: []int{7}},
		{A: []int{4}, B: []int{8}},
	}
}

func TestScore(t *testing.T) {
	players := rosterIndex()

	t.Run("level matches with no history score a clean hundred", func(t *testing.T) {
		even := map[int]Player{
			1: {ID: 1, Name: "Alice", HandicapIndex: 10.0},
			2: {ID: 2, Name: "Eve", HandicapIndex: 10.0},
		}
		got := Score([]Matchup{{A: []int{1}, B: []int{2}}}, even, nil)
		assert.Equal(t, 100, got)
	})

	t.Run("handicap gaps cost points", func(t *testing.T) {
		got := Score(ladderMatchups(), players, nil)
		assert.Equal(t, 95, got)
	})

	t.Run("a full rematch of last session costs more than the gaps", func(t *testing.T) {
		hist := History{ladderMatchups()}
		got := Score(ladderMatchups(), players, hist)
		assert.Equal(t, 47, got)
	})

	t.Run("older repeats cost less than fresh ones", func(t *testing.T) {
		recent := Score(ladderMatchups(), players, History{ladderMatchups(), nil, nil})
		stale := Score(ladderMatchups(), players, History{nil, nil, ladderMatchups()})
		assert.Greater(t, stale, recent)
	})

	t.Run("score never drops below zero", func(t *testing.T) {
		hist := History{ladderMatchups(), ladderMatchups(), ladderMatchups()}
		got := Score(ladderMatchups(), players, hist)
		assert.Equal(t, 0, got)
	})
}

func TestAnalyze(t *testing.T) {
	players := rosterIndex()

	t.Run("fresh pairings have nothing to flag", func(t *testing.T) {
		got := Analyze(ladderMatchups(), players, nil)
		assert.Equal(t, 0, got.RepeatMatchups)
		assert.InDelta(t, 1.0, got.LargestGap, 0.001)
		assert.Equal(t, 95, got.Score)
	})

	t.Run("rematches are counted and noted", func(t *testing.T) {
		got := Analyze(ladderMatchups(), players, History{ladderMatchups()})
		assert.Equal(t, 4, got.RepeatMatchups)
		assert.NotEmpty(t, got.Notes)
		assert.Contains(t, got.Notes[0], "last session")
	})

	t.Run("largest gap tracks the worst matchup", func(t *testing.T) {
		lopsided := []Matchup{
			{A: []int{1}, B: []int{8}},
			{A: []int{4}, B: []int{5}},
		}
		got := Analyze(lopsided, players, nil)
		assert.InDelta(t, 17.0, got.LargestGap, 0.001)
	})
}
