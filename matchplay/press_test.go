package matchplay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanPress(t *testing.T) {
	twoDownB := State{Score: 2, Thru: 6, Remaining: 12}
	twoDownA := State{Score: -2, Thru: 6, Remaining: 12}

	testCases := []struct {
		name      string
		parent    State
		side      Side
		startHole int
		wantErr   bool
	}{
		{name: "trailing side two down may press", parent: twoDownB, side: SideB, startHole: 7},
		{name: "side a presses when two down", parent: twoDownA, side: SideA, startHole: 7},
		{name: "three down may press", parent: State{Score: 3, Thru: 8, Remaining: 10}, side: SideB, startHole: 9},
		{name: "one down may not press", parent: State{Score: 1, Thru: 6, Remaining: 12}, side: SideB, startHole: 7, wantErr: true},
		{name: "leading side may not press", parent: twoDownB, side: SideA, startHole: 7, wantErr: true},
		{name: "no press on the final hole", parent: State{Score: 2, Thru: 17, Remaining: 1}, side: SideB, startHole: 18, wantErr: true},
		{name: "no press once the match is decided", parent: State{Score: 3, Remaining: 2, Closed: true, Winner: SideA}, side: SideB, startHole: 17, wantErr: true},
		{name: "unknown side", parent: twoDownB, side: SideNone, startHole: 7, wantErr: true},
		{name: "start hole before the first", parent: twoDownB, side: SideB, startHole: 0, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := CanPress(tc.parent, tc.side, tc.startHole, 18)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrPressNotEligible)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPressState(t *testing.T) {
	// Side A goes two up early, side B presses at the fifteenth and wins three
	// straight. The press closes while the main match is still alive.
	outcomes := append([]HoleOutcome{HoleWonA, HoleWonA}, repeat(HoleHalved, 12)...)
	outcomes = append(outcomes, HoleWonB, HoleWonB, HoleWonB)
	results := run(outcomes...)

	main, err := ComputeState(18, results)
	require.NoError(t, err)
	assert.Equal(t, State{Score: -1, Thru: 17, Remaining: 1, Dormie: true, Display: "1 UP"}, main)

	press, err := PressState(18, 15, results)
	require.NoError(t, err)
	assert.Equal(t, State{Score: -3, Thru: 3, Remaining: 1, Closed: true, Winner: SideB, Display: "3 & 1"}, press)
}

func TestPressStateWindow(t *testing.T) {
	t.Run("press window counts its own remaining holes", func(t *testing.T) {
		results := run(append(repeat(HoleHalved, 14), HoleWonB, HoleWonB)...)

		press, err := PressState(18, 15, results)
		require.NoError(t, err)
		assert.Equal(t, -2, press.Score)
		assert.Equal(t, 2, press.Thru)
		assert.Equal(t, 2, press.Remaining)
		assert.True(t, press.Dormie)
		assert.False(t, press.Closed)
	})

	t.Run("holes before the press are invisible to it", func(t *testing.T) {
		results := run(repeat(HoleWonA, 10)...)

		press, err := PressState(18, 11, results)
		require.NoError(t, err)
		assert.Equal(t, State{Remaining: 8, Display: "AS"}, press)
	})

	t.Run("a press on a press rides a later window", func(t *testing.T) {
		outcomes := append([]HoleOutcome{HoleWonA, HoleWonA}, repeat(HoleHalved, 6)...)
		outcomes = append(outcomes, HoleWonA, HoleWonA, HoleHalved, HoleHalved)
		outcomes = append(outcomes, HoleWonB, HoleWonB, HoleHalved, HoleHalved)
		results := run(outcomes...)

		first, err := PressState(18, 9, results)
		require.NoError(t, err)
		assert.Equal(t, 0, first.Score)
		assert.Equal(t, 8, first.Thru)

		second, err := PressState(18, 13, results)
		require.NoError(t, err)
		assert.Equal(t, -2, second.Score)
		assert.Equal(t, 4, second.Thru)
		assert.True(t, second.Dormie)
	})

	t.Run("start hole off the card", func(t *testing.T) {
		_, err := PressState(18, 19, nil)
		assert.ErrorIs(t, err, ErrInconsistentHoleResult)
	})

	t.Run("press match can end all square", func(t *testing.T) {
		results := run(repeat(HoleHalved, 18)...)

		press, err := PressState(18, 17, results)
		require.NoError(t, err)
		assert.True(t, press.Closed)
		assert.Equal(t, SideNone, press.Winner)
		assert.Equal(t, "AS", press.Display)
	})
}
