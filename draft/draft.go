package draft

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrDraftAlreadyComplete = errors.New("draft already complete")
	ErrInsufficientBudget   = errors.New("insufficient budget")
	ErrNotOnClock           = errors.New("team not on the clock")
	ErrPlayerUnavailable    = errors.New("player not available")
	ErrAutomaticMode        = errors.New("draft mode assigns automatically")
	ErrUnknownMode          = errors.New("unknown draft mode")
)

type Mode string

const (
	ModeSnake    Mode = "snake"
	ModeAuction  Mode = "auction"
	ModeRandom   Mode = "random"
	ModeBalanced Mode = "balanced"
)

// Player is a draftable roster entry. HandicapIndex drives auto picks and
// balanced assignment.
type Player struct {
	ID            int
	HandicapIndex float64
}

type Pick struct {
	Round    int
	Overall  int
	TeamID   int
	PlayerID int
	Bid      int
}

// Draft is the pick ledger for one trip. Order lists the team ids in first
// round picking order; for auctions it is the nomination rotation.
type Draft struct {
	Mode   Mode
	Order  []int
	Budget int
	Picks  []Pick
}

// TeamOnClock resolves the snake rotation: the order runs forward in odd
// rounds and backward in even ones, so with two teams the picks fall
// A, B, B, A, A, B, B, A. The overall index is zero based.
func TeamOnClock(order []int, overall int) int {
	n := len(order)
	if n == 0 {
		return 0
	}
	round := overall / n
	idx := overall % n
	if round%2 == 1 {
		idx = n - 1 - idx
	}
	return order[idx]
}

func (d *Draft) Complete(pool []Player) bool {
	return len(d.Picks) >= len(pool)
}

func (d *Draft) RemainingBudget(teamID int) int {
	remaining := d.Budget
	for _, p := range d.Picks {
		if p.TeamID == teamID {
			remaining -= p.Bid
		}
	}
	return remaining
}

// Available returns the pool entries not yet picked, keeping pool order.
func (d *Draft) Available(pool []Player) []Player {
	picked := make(map[int]bool, len(d.Picks))
	for _, p := range d.Picks {
		picked[p.PlayerID] = true
	}
	available := make([]Player, 0, len(pool)-len(d.Picks))
	for _, p := range pool {
		if !picked[p.ID] {
			available = append(available, p)
		}
	}
	return available
}

// MakePick validates and appends one manual pick. Snake drafts enforce the
// rotation; auction drafts enforce the budget and ignore the rotation, any
// team may win a nominated player.
func (d *Draft) MakePick(teamID, playerID, bid int, pool []Player) (Pick, error) {
	if d.Complete(pool) {
		return Pick{}, fmt.Errorf("%w: all %d players picked", ErrDraftAlreadyComplete, len(pool))
	}

	inPool := false
	for _, p := range pool {
		if p.ID == playerID {
			inPool = true
			break
		}
	}
	if !inPool {
		return Pick{}, fmt.Errorf("%w: player %d is not in the pool", ErrPlayerUnavailable, playerID)
	}
	for _, p := range d.Picks {
		if p.PlayerID == playerID {
			return Pick{}, fmt.Errorf("%w: player %d already picked by team %d", ErrPlayerUnavailable, playerID, p.TeamID)
		}
	}

	switch d.Mode {
	case ModeSnake:
		if onClock := TeamOnClock(d.Order, len(d.Picks)); onClock != teamID {
			return Pick{}, fmt.Errorf("%w: team %d picks next, not team %d", ErrNotOnClock, onClock, teamID)
		}
		bid = 0
	case ModeAuction:
		if bid < 1 {
			return Pick{}, fmt.Errorf("%w: bid must be at least 1", ErrInsufficientBudget)
		}
		if remaining := d.RemainingBudget(teamID); bid > remaining {
			return Pick{}, fmt.Errorf("%w: team %d has %d left, bid %d", ErrInsufficientBudget, teamID, remaining, bid)
		}
	case ModeRandom, ModeBalanced:
		return Pick{}, fmt.Errorf("%w: %s", ErrAutomaticMode, d.Mode)
	default:
		return Pick{}, fmt.Errorf("%w: %q", ErrUnknownMode, d.Mode)
	}

	overall := len(d.Picks) + 1
	pick := Pick{
		Round:    round(overall, len(d.Order)),
		Overall:  overall,
		TeamID:   teamID,
		PlayerID: playerID,
		Bid:      bid,
	}
	d.Picks = append(d.Picks, pick)
	return pick, nil
}

// AutoPick chooses for an absent captain: the lowest handicap still on the
// board, ties broken by the lower player id so reruns pick identically.
func AutoPick(available []Player) (int, error) {
	if len(available) == 0 {
		return 0, fmt.Errorf("%w: nobody left to pick", ErrDraftAlreadyComplete)
	}
	best := available[0]
	for _, p := range available[1:] {
		if p.HandicapIndex < best.HandicapIndex ||
			(p.HandicapIndex == best.HandicapIndex && p.ID < best.ID) {
			best = p
		}
	}
	return best.ID, nil
}

func round(overall, teams int) int {
	if teams < 1 {
		return 1
	}
	return (overall-1)/teams + 1
}

func sortByHandicapDesc(players []Player) []Player {
	sorted := make([]Player, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].HandicapIndex != sorted[j].HandicapIndex {
			return sorted[i].HandicapIndex > sorted[j].HandicapIndex
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}
