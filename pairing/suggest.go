package pairing

import (
	"errors"
	"fmt"
	"sort"
)

type Suggestion struct {
	Strategy  string    `json:"strategy"`
	Matchups  []Matchup `json:"matchups"`
	Score     int       `json:"score"`
	Reasoning []string  `json:"reasoning"`
	Warnings  []string  `json:"warnings"`
}

// unit is one side of a future matchup: a single player, or a partner duo in
// four-ball sessions.
type unit struct {
	ids      []int
	handicap float64
	rank     int
}

type strategy struct {
	name  string
	blurb string
	build func(a, b []unit, met meetings) []Matchup
}

var strategies = []strategy{
	{
		name:  "handicap ladder",
		blurb: "both teams ranked by handicap and paired rank for rank",
		build: buildLadder,
	},
	{
		name:  "closest handicap",
		blurb: "each player matched to the nearest available handicap",
		build: buildClosest,
	},
	{
		name:  "fresh opponents",
		blurb: "rematches avoided before handicap fit",
		build: buildRotation,
	},
}

// Suggest proposes up to limit ways to pair the two teams for a session,
// best scoring first. sideSize 1 builds singles, 2 builds four-ball duos.
// Everything here is deterministic: the same rosters and history always
// produce the same suggestions in the same order.
func Suggest(teamA, teamB []Player, hist History, sideSize, limit int) ([]Suggestion, error) {
	if len(teamA) == 0 || len(teamB) == 0 {
		return nil, errors.New("both teams need players to pair")
	}
	if len(teamA) != len(teamB) {
		return nil, fmt.Errorf("teams must match in size, got %d and %d", len(teamA), len(teamB))
	}
	if sideSize != 1 && sideSize != 2 {
		return nil, fmt.Errorf("unsupported side size %d", sideSize)
	}
	if sideSize == 2 && len(teamA)%2 != 0 {
		return nil, errors.New("four-ball pairing needs an even team size")
	}

	index := make(map[int]Player, len(teamA)+len(teamB))
	for _, p := range teamA {
		index[p.ID] = p
	}
	for _, p := range teamB {
		index[p.ID] = p
	}

	met := indexHistory(hist)
	unitsA := unitsOf(teamA, sideSize)
	unitsB := unitsOf(teamB, sideSize)

	var suggestions []Suggestion
	seen := make(map[string]bool)
	for _, s := range strategies {
		matchups := s.build(unitsA, unitsB, met)
		signature := fmt.Sprint(matchups)
		if seen[signature] {
			continue
		}
		seen[signature] = true

		score, reasoning, warnings := scoreDetail(matchups, index, met)
		suggestions = append(suggestions, Suggestion{
			Strategy:  s.name,
			Matchups:  matchups,
			Score:     score,
			Reasoning: append([]string{s.blurb}, reasoning...),
			Warnings:  warnings,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// unitsOf splits a team into sides. Duos pair the strongest player with the
// weakest so partner strength stays level across the team.
func unitsOf(team []Player, sideSize int) []unit {
	sorted := byHandicap(team)
	if sideSize == 1 {
		units := make([]unit, len(sorted))
		for i, p := range sorted {
			units[i] = unit{ids: []int{p.ID}, handicap: p.HandicapIndex, rank: p.ID}
		}
		return units
	}

	units := make([]unit, 0, len(sorted)/2)
	for i := 0; i < len(sorted)/2; i++ {
		lo, hi := sorted[i], sorted[len(sorted)-1-i]
		rank := lo.ID
		if hi.ID < rank {
			rank = hi.ID
		}
		units = append(units, unit{
			ids:      []int{lo.ID, hi.ID},
			handicap: lo.HandicapIndex + hi.HandicapIndex,
			rank:     rank,
		})
	}
	sort.SliceStable(units, func(i, j int) bool {
		if units[i].handicap != units[j].handicap {
			return units[i].handicap < units[j].handicap
		}
		return units[i].rank < units[j].rank
	})
	return units
}

func (m meetings) unitMeetings(a, b unit) int {
	count := 0
	for _, pa := range a.ids {
		for _, pb := range b.ids {
			count += m.opponentCount(pa, pb)
		}
	}
	return count
}

func matchupOf(a, b unit) Matchup {
	return Matchup{A: append([]int(nil), a.ids...), B: append([]int(nil), b.ids...)}
}

func buildLadder(a, b []unit, _ meetings) []Matchup {
	matchups := make([]Matchup, 0, len(a))
	for i := range a {
		matchups = append(matchups, matchupOf(a[i], b[i]))
	}
	return matchups
}

func buildClosest(a, b []unit, _ meetings) []Matchup {
	taken := make([]bool, len(b))
	matchups := make([]Matchup, 0, len(a))
	for _, ua := range a {
		best := -1
		bestGap := 0.0
		for j, ub := range b {
			if taken[j] {
				continue
			}
			gap := ua.handicap - ub.handicap
			if gap < 0 {
				gap = -gap
			}
			if best < 0 || gap < bestGap || (gap == bestGap && ub.rank < b[best].rank) {
				best, bestGap = j, gap
			}
		}
		taken[best] = true
		matchups = append(matchups, matchupOf(ua, b[best]))
	}
	return matchups
}

func buildRotation(a, b []unit, met meetings) []Matchup {
	taken := make([]bool, len(b))
	matchups := make([]Matchup, 0, len(a))
	for _, ua := range a {
		best := -1
		bestMet := 0
		bestGap := 0.0
		for j, ub := range b {
			if taken[j] {
				continue
			}
			count := met.unitMeetings(ua, ub)
			gap := ua.handicap - ub.handicap
			if gap < 0 {
				gap = -gap
			}
			better := best < 0 ||
				count < bestMet ||
				(count == bestMet && gap < bestGap) ||
				(count == bestMet && gap == bestGap && ub.rank < b[best].rank)
			if better {
				best, bestMet, bestGap = j, count, gap
			}
		}
		taken[best] = true
		matchups = append(matchups, matchupOf(ua, b[best]))
	}
	return matchups
}
