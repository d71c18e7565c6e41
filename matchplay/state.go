package matchplay

import "fmt"

type Side string

const (
	SideNone Side = ""
	SideA    Side = "A"
	SideB    Side = "B"
)

func (s Side) Opponent() Side {
	switch s {
	case SideA:
		return SideB
	case SideB:
		return SideA
	default:
		return SideNone
	}
}

// Result is one decided hole of a match, in the order it was played.
type Result struct {
	Hole    int
	Outcome HoleOutcome
}

// State is the standing of a match-play match. Score counts holes up for
// side A, so a negative score means side B leads.
type State struct {
	Score     int    `json:"score"`
	Thru      int    `json:"thru"`
	Remaining int    `json:"remaining"`
	Dormie    bool   `json:"dormie"`
	Closed    bool   `json:"closed"`
	Winner    Side   `json:"winner,omitempty"`
	Display   string `json:"display"`
}

func (s State) Leader() Side {
	switch {
	case s.Score > 0:
		return SideA
	case s.Score < 0:
		return SideB
	default:
		return SideNone
	}
}

// ComputeState replays the results and returns the match standing. It is a
// pure recomputation: the same ledger always produces the same state, and
// undoing a hole is just recomputing without it. Hole numbers must be unique
// and within 1..totalHoles but need not be sequential, so shotgun starts
// replay fine. A result recorded after the match was already decided is an
// inconsistency, not a state.
func ComputeState(totalHoles int, results []Result) (State, error) {
	if totalHoles < 1 {
		return State{}, fmt.Errorf("%w: total holes %d", ErrInvalidCourseData, totalHoles)
	}
	for _, r := range results {
		if r.Hole < 1 || r.Hole > totalHoles {
			return State{}, fmt.Errorf("%w: hole %d out of range 1..%d", ErrInconsistentHoleResult, r.Hole, totalHoles)
		}
	}
	return replay(totalHoles, results)
}

func replay(window int, results []Result) (State, error) {
	seen := make(map[int]bool, len(results))
	st := State{Remaining: window}

	for _, r := range results {
		if seen[r.Hole] {
			return State{}, fmt.Errorf("%w: hole %d recorded twice", ErrInconsistentHoleResult, r.Hole)
		}
		seen[r.Hole] = true

		if st.Closed {
			return State{}, fmt.Errorf("%w: hole %d recorded after the match was decided", ErrInconsistentHoleResult, r.Hole)
		}

		switch r.Outcome {
		case HoleWonA:
			st.Score++
		case HoleWonB:
			st.Score--
		case HoleHalved:
		default:
			return State{}, fmt.Errorf("%w: unknown outcome %q on hole %d", ErrInconsistentHoleResult, r.Outcome, r.Hole)
		}
		st.Thru++
		st.Remaining = window - st.Thru

		lead := abs(st.Score)
		switch {
		case lead > st.Remaining:
			st.Closed = true
			st.Winner = st.Leader()
		case st.Remaining == 0:
			st.Closed = true
			st.Winner = st.Leader()
		}
	}

	st.Dormie = !st.Closed && st.Remaining > 0 && abs(st.Score) == st.Remaining
	st.Display = display(st)
	return st, nil
}

// display renders the standing the way golfers say it: "AS" level, "2 UP"
// while holes remain or for a last-hole win, "3 & 2" for an early closeout.
func display(st State) string {
	lead := abs(st.Score)
	switch {
	case lead == 0:
		return "AS"
	case st.Closed && st.Remaining > 0:
		return fmt.Sprintf("%d & %d", lead, st.Remaining)
	default:
		return fmt.Sprintf("%d UP", lead)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
