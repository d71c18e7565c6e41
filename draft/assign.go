package draft

import (
	"errors"
	"math/rand"
)

type AssignParams struct {
	Players []Player
	TeamIDs []int
}

// Assigner deals a whole pool onto teams in one shot, for trips that skip the
// pick-by-pick ceremony.
type Assigner interface {
	Assign(params AssignParams) ([]Pick, error)

	GetName() string
}

type RandomAssigner struct {
	rnd *rand.Rand
}

// NewRandomAssigner shuffles with the supplied source, so a seeded source
// replays the same deal.
func NewRandomAssigner(rnd *rand.Rand) *RandomAssigner {
	return &RandomAssigner{rnd: rnd}
}

func (a *RandomAssigner) GetName() string {
	return "Random"
}

func (a *RandomAssigner) Assign(params AssignParams) ([]Pick, error) {
	if err := checkAssignParams(params); err != nil {
		return nil, err
	}

	shuffled := make([]Player, len(params.Players))
	copy(shuffled, params.Players)
	a.rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	picks := make([]Pick, 0, len(shuffled))
	for i, p := range shuffled {
		overall := i + 1
		picks = append(picks, Pick{
			Round:    round(overall, len(params.TeamIDs)),
			Overall:  overall,
			TeamID:   params.TeamIDs[i%len(params.TeamIDs)],
			PlayerID: p.ID,
		})
	}
	return picks, nil
}

type BalancedAssigner struct {
}

func NewBalancedAssigner() *BalancedAssigner {
	return &BalancedAssigner{}
}

func (a *BalancedAssigner) GetName() string {
	return "Balanced"
}

// Assign deals the strongest remaining player onto the weakest eligible team.
// Teams stay within one player of each other in size; among the smallest
// teams the one with the lower handicap total picks up the player, ties going
// to the team listed first.
func (a *BalancedAssigner) Assign(params AssignParams) ([]Pick, error) {
	if err := checkAssignParams(params); err != nil {
		return nil, err
	}

	totals := make(map[int]float64, len(params.TeamIDs))
	counts := make(map[int]int, len(params.TeamIDs))

	picks := make([]Pick, 0, len(params.Players))
	for i, p := range sortByHandicapDesc(params.Players) {
		target := params.TeamIDs[0]
		for _, id := range params.TeamIDs[1:] {
			switch {
			case counts[id] < counts[target]:
				target = id
			case counts[id] == counts[target] && totals[id] < totals[target]:
				target = id
			}
		}

		overall := i + 1
		picks = append(picks, Pick{
			Round:    round(overall, len(params.TeamIDs)),
			Overall:  overall,
			TeamID:   target,
			PlayerID: p.ID,
		})
		totals[target] += p.HandicapIndex
		counts[target]++
	}
	return picks, nil
}

func checkAssignParams(params AssignParams) error {
	if len(params.TeamIDs) < 2 {
		return errors.New("need at least two teams to assign")
	}
	if len(params.Players) == 0 {
		return errors.New("nobody to assign")
	}
	return nil
}
