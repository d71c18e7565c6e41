package teesheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var firstTee = time.Date(2025, time.June, 14, 8, 0, 0, 0, time.UTC)

func fourGroups() [][]int {
	return [][]int{
		{1, 5},
		{2, 6},
		{3, 7},
		{4, 8},
	}
}

func TestBuildStaggered(t *testing.T) {
	slots, err := Build(ModeStaggered, firstTee, 10*time.Minute, 18, fourGroups())
	require.NoError(t, err)
	require.Len(t, slots, 4)

	for i, slot := range slots {
		assert.Equal(t, firstTee.Add(time.Duration(i)*10*time.Minute), slot.TeeTime)
		assert.Equal(t, 1, slot.StartingHole)
	}
	assert.Equal(t, []int{4, 8}, slots[3].Group)
}

func TestBuildShotgun(t *testing.T) {
	t.Run("everyone off at once on spread holes", func(t *testing.T) {
		slots, err := Build(ModeShotgun, firstTee, 0, 18, fourGroups())
		require.NoError(t, err)

		for i, slot := range slots {
			assert.Equal(t, firstTee, slot.TeeTime)
			assert.Equal(t, i+1, slot.StartingHole)
		}
	})

	t.Run("a small course doubles up holes", func(t *testing.T) {
		groups := [][]int{{1}, {2}, {3}, {4}, {5}}
		slots, err := Build(ModeShotgun, firstTee, 0, 3, groups)
		require.NoError(t, err)

		holes := make([]int, 0, len(slots))
		for _, slot := range slots {
			holes = append(holes, slot.StartingHole)
		}
		assert.Equal(t, []int{1, 2, 3, 1, 2}, holes)
	})

	t.Run("too many groups for the course", func(t *testing.T) {
		groups := [][]int{{1}, {2}, {3}, {4}, {5}, {6}, {7}}
		_, err := Build(ModeShotgun, firstTee, 0, 3, groups)
		assert.Error(t, err)
	})
}

func TestBuildWave(t *testing.T) {
	t.Run("pairs of groups share a time on holes one and ten", func(t *testing.T) {
		slots, err := Build(ModeWave, firstTee, 15*time.Minute, 18, fourGroups())
		require.NoError(t, err)
		require.Len(t, slots, 4)

		assert.Equal(t, firstTee, slots[0].TeeTime)
		assert.Equal(t, 1, slots[0].StartingHole)
		assert.Equal(t, firstTee, slots[1].TeeTime)
		assert.Equal(t, 10, slots[1].StartingHole)

		assert.Equal(t, firstTee.Add(15*time.Minute), slots[2].TeeTime)
		assert.Equal(t, 1, slots[2].StartingHole)
		assert.Equal(t, firstTee.Add(15*time.Minute), slots[3].TeeTime)
		assert.Equal(t, 10, slots[3].StartingHole)
	})

	t.Run("odd group counts leave the last wave half full", func(t *testing.T) {
		slots, err := Build(ModeWave, firstTee, 15*time.Minute, 18, [][]int{{1}, {2}, {3}})
		require.NoError(t, err)
		require.Len(t, slots, 3)
		assert.Equal(t, 1, slots[2].StartingHole)
		assert.Equal(t, firstTee.Add(15*time.Minute), slots[2].TeeTime)
	})

	t.Run("nine holes cannot host a two tee start", func(t *testing.T) {
		_, err := Build(ModeWave, firstTee, 15*time.Minute, 9, fourGroups())
		assert.Error(t, err)
	})
}

func TestBuildValidation(t *testing.T) {
	_, err := Build(ModeStaggered, firstTee, 10*time.Minute, 18, nil)
	assert.Error(t, err)

	_, err = Build(ModeStaggered, firstTee, 0, 18, fourGroups())
	assert.Error(t, err)

	_, err = Build(ModeStaggered, firstTee, 10*time.Minute, 18, [][]int{{1}, {}})
	assert.Error(t, err)

	_, err = Build(Mode("lottery"), firstTee, 10*time.Minute, 18, fourGroups())
	assert.Error(t, err)

	_, err = Build(ModeShotgun, firstTee, 0, 0, fourGroups())
	assert.Error(t, err)
}
