package draft

import (
	"math/rand"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakePool(t *testing.T, n int) []Player {
	t.Helper()
	faker := gofakeit.New(99)
	players := make([]Player, n)
	for i := range players {
		players[i] = Player{
			ID:            i + 1,
			HandicapIndex: float64(faker.Number(0, 300)) / 10,
		}
	}
	return players
}

func TestRandomAssigner(t *testing.T) {
	players := fakePool(t, 12)
	teams := []int{10, 20}

	t.Run("same seed deals the same teams", func(t *testing.T) {
		first, err := NewRandomAssigner(rand.New(rand.NewSource(42))).Assign(AssignParams{Players: players, TeamIDs: teams})
		require.NoError(t, err)
		second, err := NewRandomAssigner(rand.New(rand.NewSource(42))).Assign(AssignParams{Players: players, TeamIDs: teams})
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("every player dealt exactly once onto even teams", func(t *testing.T) {
		picks, err := NewRandomAssigner(rand.New(rand.NewSource(7))).Assign(AssignParams{Players: players, TeamIDs: teams})
		require.NoError(t, err)
		require.Len(t, picks, len(players))

		seen := make(map[int]bool)
		counts := make(map[int]int)
		for _, p := range picks {
			assert.False(t, seen[p.PlayerID], "player %d dealt twice", p.PlayerID)
			seen[p.PlayerID] = true
			counts[p.TeamID]++
		}
		assert.Equal(t, 6, counts[10])
		assert.Equal(t, 6, counts[20])
	})
}

func TestBalancedAssigner(t *testing.T) {
	teams := []int{7, 9}

	t.Run("strongest players spread across both teams", func(t *testing.T) {
		players := []Player{
			{ID: 1, HandicapIndex: 18.0},
			{ID: 2, HandicapIndex: 15.0},
			{ID: 3, HandicapIndex: 10.0},
			{ID: 4, HandicapIndex: 5.0},
		}

		picks, err := NewBalancedAssigner().Assign(AssignParams{Players: players, TeamIDs: teams})
		require.NoError(t, err)

		byPlayer := make(map[int]int)
		for _, p := range picks {
			byPlayer[p.PlayerID] = p.TeamID
		}
		assert.Equal(t, map[int]int{1: 7, 2: 9, 3: 9, 4: 7}, byPlayer)
	})

	t.Run("equal handicaps alternate by listing order", func(t *testing.T) {
		players := []Player{
			{ID: 1, HandicapIndex: 10.0},
			{ID: 2, HandicapIndex: 10.0},
			{ID: 3, HandicapIndex: 10.0},
			{ID: 4, HandicapIndex: 10.0},
		}

		picks, err := NewBalancedAssigner().Assign(AssignParams{Players: players, TeamIDs: teams})
		require.NoError(t, err)

		counts := make(map[int]int)
		for _, p := range picks {
			counts[p.TeamID]++
		}
		assert.Equal(t, 2, counts[7])
		assert.Equal(t, 2, counts[9])
	})

	t.Run("team totals stay within one handicap of each other", func(t *testing.T) {
		players := fakePool(t, 16)

		picks, err := NewBalancedAssigner().Assign(AssignParams{Players: players, TeamIDs: teams})
		require.NoError(t, err)

		index := make(map[int]float64, len(players))
		maxHandicap := 0.0
		for _, p := range players {
			index[p.ID] = p.HandicapIndex
			if p.HandicapIndex > maxHandicap {
				maxHandicap = p.HandicapIndex
			}
		}

		totals := make(map[int]float64)
		counts := make(map[int]int)
		for _, p := range picks {
			totals[p.TeamID] += index[p.PlayerID]
			counts[p.TeamID]++
		}

		assert.Equal(t, 8, counts[7])
		assert.Equal(t, 8, counts[9])
		diff := totals[7] - totals[9]
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqual(t, diff, maxHandicap)
	})
}

func TestAssignParamValidation(t *testing.T) {
	_, err := NewBalancedAssigner().Assign(AssignParams{Players: fakePool(t, 4), TeamIDs: []int{1}})
	assert.Error(t, err)

	_, err = NewBalancedAssigner().Assign(AssignParams{TeamIDs: []int{1, 2}})
	assert.Error(t, err)
}
