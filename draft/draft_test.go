package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPool() []Player {
	return []Player{
		{ID: 1, HandicapIndex: 4.2},
		{ID: 2, HandicapIndex: 18.0},
		{ID: 3, HandicapIndex: 11.5},
		{ID: 4, HandicapIndex: 8.9},
	}
}

func TestTeamOnClock(t *testing.T) {
	t.Run("two teams snake as A B B A", func(t *testing.T) {
		order := []int{10, 20}
		var picks []int
		for overall := 0; overall < 8; overall++ {
			picks = append(picks, TeamOnClock(order, overall))
		}
		assert.Equal(t, []int{10, 20, 20, 10, 10, 20, 20, 10}, picks)
	})

	t.Run("three teams reverse every other round", func(t *testing.T) {
		order := []int{1, 2, 3}
		var picks []int
		for overall := 0; overall < 9; overall++ {
			picks = append(picks, TeamOnClock(order, overall))
		}
		assert.Equal(t, []int{1, 2, 3, 3, 2, 1, 1, 2, 3}, picks)
	})
}

func TestSnakeDraft(t *testing.T) {
	pool := testPool()
	d := &Draft{Mode: ModeSnake, Order: []int{10, 20}}

	t.Run("wrong team cannot jump the clock", func(t *testing.T) {
		_, err := d.MakePick(20, 1, 0, pool)
		assert.ErrorIs(t, err, ErrNotOnClock)
	})

	t.Run("picks follow the snake", func(t *testing.T) {
		for _, want := range []struct {
			team   int
			player int
			round  int
		}{
			{10, 2, 1},
			{20, 3, 1},
			{20, 1, 2},
			{10, 4, 2},
		} {
			pick, err := d.MakePick(want.team, want.player, 0, pool)
			require.NoError(t, err)
			assert.Equal(t, want.round, pick.Round)
			assert.Equal(t, want.team, pick.TeamID)
		}
		assert.True(t, d.Complete(pool))
	})

	t.Run("complete draft takes no more picks", func(t *testing.T) {
		_, err := d.MakePick(10, 1, 0, pool)
		assert.ErrorIs(t, err, ErrDraftAlreadyComplete)
	})
}

func TestSnakeDraftValidation(t *testing.T) {
	pool := testPool()

	t.Run("picked player is off the board", func(t *testing.T) {
		d := &Draft{Mode: ModeSnake, Order: []int{10, 20}}
		_, err := d.MakePick(10, 3, 0, pool)
		require.NoError(t, err)

		_, err = d.MakePick(20, 3, 0, pool)
		assert.ErrorIs(t, err, ErrPlayerUnavailable)
	})

	t.Run("unknown player", func(t *testing.T) {
		d := &Draft{Mode: ModeSnake, Order: []int{10, 20}}
		_, err := d.MakePick(10, 99, 0, pool)
		assert.ErrorIs(t, err, ErrPlayerUnavailable)
	})

	t.Run("snake ignores a stray bid", func(t *testing.T) {
		d := &Draft{Mode: ModeSnake, Order: []int{10, 20}}
		pick, err := d.MakePick(10, 1, 50, pool)
		require.NoError(t, err)
		assert.Equal(t, 0, pick.Bid)
	})
}

func TestAuctionDraft(t *testing.T) {
	pool := testPool()

	t.Run("budget runs down with each winning bid", func(t *testing.T) {
		d := &Draft{Mode: ModeAuction, Order: []int{10, 20}, Budget: 100}

		_, err := d.MakePick(10, 2, 60, pool)
		require.NoError(t, err)
		assert.Equal(t, 40, d.RemainingBudget(10))
		assert.Equal(t, 100, d.RemainingBudget(20))

		_, err = d.MakePick(10, 3, 41, pool)
		assert.ErrorIs(t, err, ErrInsufficientBudget)

		pick, err := d.MakePick(10, 3, 40, pool)
		require.NoError(t, err)
		assert.Equal(t, 40, pick.Bid)
		assert.Equal(t, 0, d.RemainingBudget(10))
	})

	t.Run("no free lots", func(t *testing.T) {
		d := &Draft{Mode: ModeAuction, Order: []int{10, 20}, Budget: 100}
		_, err := d.MakePick(10, 1, 0, pool)
		assert.ErrorIs(t, err, ErrInsufficientBudget)
	})

	t.Run("any team may win a nominated player", func(t *testing.T) {
		d := &Draft{Mode: ModeAuction, Order: []int{10, 20}, Budget: 100}
		_, err := d.MakePick(20, 1, 5, pool)
		require.NoError(t, err)
		_, err = d.MakePick(20, 2, 5, pool)
		require.NoError(t, err)
	})
}

func TestAutomaticModesRejectManualPicks(t *testing.T) {
	pool := testPool()

	for _, mode := range []Mode{ModeRandom, ModeBalanced} {
		d := &Draft{Mode: mode, Order: []int{10, 20}}
		_, err := d.MakePick(10, 1, 0, pool)
		assert.ErrorIs(t, err, ErrAutomaticMode, "mode %s", mode)
	}

	d := &Draft{Mode: Mode("keeper"), Order: []int{10, 20}}
	_, err := d.MakePick(10, 1, 0, pool)
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestAutoPick(t *testing.T) {
	t.Run("lowest handicap comes off the board first", func(t *testing.T) {
		id, err := AutoPick(testPool())
		require.NoError(t, err)
		assert.Equal(t, 1, id)
	})

	t.Run("handicap ties break on the lower id", func(t *testing.T) {
		id, err := AutoPick([]Player{
			{ID: 7, HandicapIndex: 9.0},
			{ID: 3, HandicapIndex: 9.0},
		})
		require.NoError(t, err)
		assert.Equal(t, 3, id)
	})

	t.Run("empty board", func(t *testing.T) {
		_, err := AutoPick(nil)
		assert.ErrorIs(t, err, ErrDraftAlreadyComplete)
	})
}

func TestAvailable(t *testing.T) {
	pool := testPool()
	d := &Draft{Mode: ModeSnake, Order: []int{10, 20}}

	_, err := d.MakePick(10, 3, 0, pool)
	require.NoError(t, err)

	available := d.Available(pool)
	require.Len(t, available, 3)
	for _, p := range available {
		assert.NotEqual(t, 3, p.ID)
	}
}
