package matchplay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(outcomes ...HoleOutcome) []Result {
	results := make([]Result, len(outcomes))
	for i, o := range outcomes {
		results[i] = Result{Hole: i + 1, Outcome: o}
	}
	return results
}

func repeat(o HoleOutcome, n int) []HoleOutcome {
	outcomes := make([]HoleOutcome, n)
	for i := range outcomes {
		outcomes[i] = o
	}
	return outcomes
}

func TestComputeState(t *testing.T) {
	testCases := []struct {
		name    string
		total   int
		results []Result
		want    State
	}{
		{
			name:    "fresh match is all square",
			total:   18,
			results: nil,
			want:    State{Remaining: 18, Display: "AS"},
		},
		{
			name:    "two up through five",
			total:   18,
			results: run(HoleWonA, HoleHalved, HoleWonA, HoleHalved, HoleHalved),
			want:    State{Score: 2, Thru: 5, Remaining: 13, Display: "2 UP"},
		},
		{
			name:    "dormie three",
			total:   18,
			results: run(append(repeat(HoleHalved, 12), HoleWonB, HoleWonB, HoleWonB)...),
			want:    State{Score: -3, Thru: 15, Remaining: 3, Dormie: true, Display: "3 UP"},
		},
		{
			name:    "four and two closeout",
			total:   18,
			results: run(append(repeat(HoleHalved, 12), HoleWonA, HoleWonA, HoleWonA, HoleWonA)...),
			want:    State{Score: 4, Thru: 16, Remaining: 2, Closed: true, Winner: SideA, Display: "4 & 2"},
		},
		{
			name:    "ten and eight drubbing",
			total:   18,
			results: run(repeat(HoleWonA, 10)...),
			want:    State{Score: 10, Thru: 10, Remaining: 8, Closed: true, Winner: SideA, Display: "10 & 8"},
		},
		{
			name:    "one up decided on the last",
			total:   18,
			results: run(append(repeat(HoleHalved, 17), HoleWonB)...),
			want:    State{Score: -1, Thru: 18, Closed: true, Winner: SideB, Display: "1 UP"},
		},
		{
			name:    "halved match",
			total:   18,
			results: run(repeat(HoleHalved, 18)...),
			want:    State{Thru: 18, Closed: true, Display: "AS"},
		},
		{
			name:    "nine hole match closes early",
			total:   9,
			results: run(HoleWonA, HoleWonA, HoleWonA, HoleWonA, HoleWonA, HoleWonA),
			want:    State{Score: 6, Thru: 6, Remaining: 3, Closed: true, Winner: SideA, Display: "6 & 3"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ComputeState(tc.total, tc.results)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestComputeStateInconsistencies(t *testing.T) {
	t.Run("result after the match was decided", func(t *testing.T) {
		results := append(run(repeat(HoleWonA, 10)...), Result{Hole: 11, Outcome: HoleHalved})
		_, err := ComputeState(18, results)
		assert.ErrorIs(t, err, ErrInconsistentHoleResult)
	})

	t.Run("same hole recorded twice", func(t *testing.T) {
		results := []Result{{Hole: 4, Outcome: HoleWonA}, {Hole: 4, Outcome: HoleWonB}}
		_, err := ComputeState(18, results)
		assert.ErrorIs(t, err, ErrInconsistentHoleResult)
	})

	t.Run("hole number off the card", func(t *testing.T) {
		_, err := ComputeState(18, []Result{{Hole: 19, Outcome: HoleHalved}})
		assert.ErrorIs(t, err, ErrInconsistentHoleResult)
	})

	t.Run("unknown outcome", func(t *testing.T) {
		_, err := ComputeState(18, []Result{{Hole: 1, Outcome: HoleOutcome("eagle")}})
		assert.ErrorIs(t, err, ErrInconsistentHoleResult)
	})

	t.Run("no holes on the card", func(t *testing.T) {
		_, err := ComputeState(0, nil)
		assert.ErrorIs(t, err, ErrInvalidCourseData)
	})
}

func TestComputeStateIsPureRecomputation(t *testing.T) {
	results := run(append(repeat(HoleWonA, 3), repeat(HoleHalved, 15)...)...)

	first, err := ComputeState(18, results)
	require.NoError(t, err)
	second, err := ComputeState(18, results)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestUndoIsRecomputeWithoutTheHole(t *testing.T) {
	full := run(append(repeat(HoleHalved, 17), HoleWonA)...)

	before, err := ComputeState(18, full[:17])
	require.NoError(t, err)

	after, err := ComputeState(18, full)
	require.NoError(t, err)
	require.True(t, after.Closed)

	undone, err := ComputeState(18, full[:len(full)-1])
	require.NoError(t, err)
	assert.Equal(t, before, undone)
	assert.False(t, undone.Closed)
}

func TestComputeStateShotgunOrder(t *testing.T) {
	// A group starting on the tenth plays 10..18 then 1..9.
	results := make([]Result, 0, 18)
	for h := 10; h <= 18; h++ {
		results = append(results, Result{Hole: h, Outcome: HoleWonA})
	}
	results = append(results, Result{Hole: 1, Outcome: HoleWonA})

	got, err := ComputeState(18, results)
	require.NoError(t, err)
	assert.Equal(t, State{Score: 10, Thru: 10, Remaining: 8, Closed: true, Winner: SideA, Display: "10 & 8"}, got)
}

func TestSideHelpers(t *testing.T) {
	assert.Equal(t, SideB, SideA.Opponent())
	assert.Equal(t, SideA, SideB.Opponent())
	assert.Equal(t, SideNone, SideNone.Opponent())

	assert.Equal(t, SideA, State{Score: 2}.Leader())
	assert.Equal(t, SideB, State{Score: -1}.Leader())
	assert.Equal(t, SideNone, State{}.Leader())
}
