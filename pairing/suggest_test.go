package pairing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTeams() (teamA, teamB []Player) {
	teamA = []Player{
		{ID: 1, Name: "Alice", HandicapIndex: 2.0, TeamID: 100},
		{ID: 2, Name: "Bob", HandicapIndex: 8.0, TeamID: 100},
		{ID: 3, Name: "Carl", HandicapIndex: 12.0, TeamID: 100},
		{ID: 4, Name: "Dana", HandicapIndex: 20.0, TeamID: 100},
	}
	teamB = []Player{
		{ID: 5, Name: "Eve", HandicapIndex: 3.0, TeamID: 200},
		{ID: 6, Name: "Fay", HandicapIndex: 7.5, TeamID: 200},
		{ID: 7, Name: "Gus", HandicapIndex: 13.0, TeamID: 200},
		{ID: 8, Name: "Hal", HandicapIndex: 19.0, TeamID: 200},
	}
	return teamA, teamB
}

func TestSuggestSingles(t *testing.T) {
	teamA, teamB := testTeams()

	t.Run("without history every strategy lands on the ladder", func(t *testing.T) {
		suggestions, err := Suggest(teamA, teamB, nil, 1, 0)
		require.NoError(t, err)
		require.Len(t, suggestions, 1)

		got := suggestions[0]
		assert.Equal(t, "handicap ladder", got.Strategy)
		assert.Equal(t, ladderMatchups(), got.Matchups)
		assert.Equal(t, 95, got.Score)
		assert.Empty(t, got.Warnings)
		assert.NotEmpty(t, got.Reasoning)
	})

	t.Run("history pushes fresh opponents ahead of the rematch", func(t *testing.T) {
		hist := History{ladderMatchups()}

		suggestions, err := Suggest(teamA, teamB, hist, 1, 0)
		require.NoError(t, err)
		require.Len(t, suggestions, 2)

		best := suggestions[0]
		assert.Equal(t, "fresh opponents", best.Strategy)
		for _, w := range best.Warnings {
			assert.NotContains(t, w, "already met")
		}
		assert.Greater(t, best.Score, suggestions[1].Score)

		rematch := suggestions[1]
		assert.Equal(t, "handicap ladder", rematch.Strategy)
		assert.NotEmpty(t, rematch.Warnings)
	})

	t.Run("suggestions replay identically", func(t *testing.T) {
		hist := History{ladderMatchups()}
		first, err := Suggest(teamA, teamB, hist, 1, 0)
		require.NoError(t, err)
		second, err := Suggest(teamA, teamB, hist, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("every player appears exactly once per suggestion", func(t *testing.T) {
		suggestions, err := Suggest(teamA, teamB, History{ladderMatchups()}, 1, 0)
		require.NoError(t, err)

		for _, s := range suggestions {
			seen := make(map[int]int)
			for _, mu := range s.Matchups {
				for _, id := range append(append([]int{}, mu.A...), mu.B...) {
					seen[id]++
				}
			}
			require.Len(t, seen, 8, "strategy %s", s.Strategy)
			for id, count := range seen {
				assert.Equal(t, 1, count, "player %d in strategy %s", id, s.Strategy)
			}
		}
	})

	t.Run("limit trims the list", func(t *testing.T) {
		suggestions, err := Suggest(teamA, teamB, History{ladderMatchups()}, 1, 1)
		require.NoError(t, err)
		assert.Len(t, suggestions, 1)
	})
}

func TestSuggestFourBall(t *testing.T) {
	teamA, teamB := testTeams()

	suggestions, err := Suggest(teamA, teamB, nil, 2, 0)
	require.NoError(t, err)
	require.NotEmpty(t, suggestions)

	got := suggestions[0]
	require.Len(t, got.Matchups, 2)
	for _, mu := range got.Matchups {
		assert.Len(t, mu.A, 2)
		assert.Len(t, mu.B, 2)
	}

	// Duos split strongest with weakest: Alice partners Dana, Bob partners Carl.
	assert.Equal(t, []Matchup{
		{A: []int{2, 3}, B: []int{6, 7}},
		{A: []int{1, 4}, B: []int{5, 8}},
	}, got.Matchups)
}

func TestSuggestValidation(t *testing.T) {
	teamA, teamB := testTeams()

	_, err := Suggest(nil, teamB, nil, 1, 0)
	assert.Error(t, err)

	_, err = Suggest(teamA, teamB[:3], nil, 1, 0)
	assert.Error(t, err)

	_, err = Suggest(teamA, teamB, nil, 3, 0)
	assert.Error(t, err)

	_, err = Suggest(teamA[:3], teamB[:3], nil, 2, 0)
	assert.Error(t, err)
}
