package pairing

import (
	"fmt"
	"sort"
)

// Player carries what the engine needs to judge a pairing: who they are, how
// they play, and which team they sit on.
type Player struct {
	ID            int
	Name          string
	HandicapIndex float64
	TeamID        int
}

// Matchup holds the player ids on each side of one proposed match.
type Matchup struct {
	A []int `json:"side_a"`
	B []int `json:"side_b"`
}

// History lists the matchups of prior sessions, most recent session first.
type History [][]Matchup

const (
	baseScore       = 100.0
	gapWeight       = 1.5
	gapPenaltyCap   = 20.0
	opponentPenalty = 12.0
	partnerPenalty  = 6.0
)

type pairKey struct {
	lo, hi int
}

func keyFor(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// meetings indexes the history: how often and how recently two players were
// opponents or partners. Recency 1 is the session just played.
type meetings struct {
	sessions  int
	opponents map[pairKey][]int
	partners  map[pairKey][]int
}

func indexHistory(hist History) meetings {
	m := meetings{
		sessions:  len(hist),
		opponents: make(map[pairKey][]int),
		partners:  make(map[pairKey][]int),
	}
	for s, session := range hist {
		recency := s + 1
		for _, mu := range session {
			for _, a := range mu.A {
				for _, b := range mu.B {
					k := keyFor(a, b)
					m.opponents[k] = append(m.opponents[k], recency)
				}
			}
			for _, side := range [][]int{mu.A, mu.B} {
				for i := 0; i < len(side); i++ {
					for j := i + 1; j < len(side); j++ {
						k := keyFor(side[i], side[j])
						m.partners[k] = append(m.partners[k], recency)
					}
				}
			}
		}
	}
	return m
}

func (m meetings) opponentCount(a, b int) int {
	return len(m.opponents[keyFor(a, b)])
}

// recencyWeight scales a repeat by how fresh it is: a rematch of the last
// session costs full price, one from the oldest remembered session almost
// nothing.
func (m meetings) recencyWeight(recency int) float64 {
	if m.sessions == 0 {
		return 0
	}
	return float64(m.sessions-recency+1) / float64(m.sessions)
}

func sideHandicap(ids []int, players map[int]Player) float64 {
	total := 0.0
	for _, id := range ids {
		total += players[id].HandicapIndex
	}
	return total
}

// Score grades a set of matchups from 0 to 100. Lopsided handicaps and
// recent rematches pull the score down; a full rotation of fresh, tight
// matches keeps it near the top.
func Score(matchups []Matchup, players map[int]Player, hist History) int {
	score, _, _ := scoreDetail(matchups, players, indexHistory(hist))
	return score
}

func scoreDetail(matchups []Matchup, players map[int]Player, met meetings) (int, []string, []string) {
	penalty := 0.0
	var reasoning []string
	var warnings []string

	for i, mu := range matchups {
		gap := sideHandicap(mu.A, players) - sideHandicap(mu.B, players)
		if gap < 0 {
			gap = -gap
		}
		gapCost := gap * gapWeight
		if gapCost > gapPenaltyCap {
			gapCost = gapPenaltyCap
		}
		penalty += gapCost
		reasoning = append(reasoning, fmt.Sprintf("match %d: %s vs %s, handicap gap %.1f",
			i+1, sideLabel(mu.A, players), sideLabel(mu.B, players), gap))
		if gap >= 6 {
			warnings = append(warnings, fmt.Sprintf("match %d gives away %.1f strokes of handicap", i+1, gap))
		}

		for _, a := range mu.A {
			for _, b := range mu.B {
				for _, recency := range met.opponents[keyFor(a, b)] {
					penalty += opponentPenalty * met.recencyWeight(recency)
					warnings = append(warnings, fmt.Sprintf("%s and %s already met %s",
						players[a].Name, players[b].Name, sessionsAgo(recency)))
				}
			}
		}
		for _, side := range [][]int{mu.A, mu.B} {
			for p := 0; p < len(side); p++ {
				for q := p + 1; q < len(side); q++ {
					for _, recency := range met.partners[keyFor(side[p], side[q])] {
						penalty += partnerPenalty * met.recencyWeight(recency)
						warnings = append(warnings, fmt.Sprintf("%s and %s were partners %s",
							players[side[p]].Name, players[side[q]].Name, sessionsAgo(recency)))
					}
				}
			}
		}
	}

	score := int(baseScore - penalty + 0.5)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, reasoning, warnings
}

func sideLabel(ids []int, players map[int]Player) string {
	label := ""
	for i, id := range ids {
		if i > 0 {
			label += " & "
		}
		p, ok := players[id]
		if !ok || p.Name == "" {
			label += fmt.Sprintf("player %d", id)
			continue
		}
		label += p.Name
	}
	return label
}

func sessionsAgo(recency int) string {
	if recency == 1 {
		return "last session"
	}
	return fmt.Sprintf("%d sessions ago", recency)
}

// Analysis sums up a proposed set of matchups for the organizer.
type Analysis struct {
	RepeatMatchups int      `json:"repeat_matchups"`
	LargestGap     float64  `json:"largest_gap"`
	Score          int      `json:"score"`
	Notes          []string `json:"notes"`
}

func Analyze(matchups []Matchup, players map[int]Player, hist History) Analysis {
	met := indexHistory(hist)
	score, _, warnings := scoreDetail(matchups, players, met)

	analysis := Analysis{Score: score, Notes: warnings}
	for _, mu := range matchups {
		gap := sideHandicap(mu.A, players) - sideHandicap(mu.B, players)
		if gap < 0 {
			gap = -gap
		}
		if gap > analysis.LargestGap {
			analysis.LargestGap = gap
		}
		repeated := false
		for _, a := range mu.A {
			for _, b := range mu.B {
				if met.opponentCount(a, b) > 0 {
					repeated = true
				}
			}
		}
		if repeated {
			analysis.RepeatMatchups++
		}
	}
	return analysis
}

func byHandicap(players []Player) []Player {
	sorted := make([]Player, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].HandicapIndex != sorted[j].HandicapIndex {
			return sorted[i].HandicapIndex < sorted[j].HandicapIndex
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}
