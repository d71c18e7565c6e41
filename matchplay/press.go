package matchplay

import "fmt"

// CanPress reports whether side may start a press against the standing of the
// match (or press) it would ride on. A press needs a trailing initiator at
// least two down, an undecided parent, and at least one hole after the one it
// starts on.
func CanPress(parent State, side Side, startHole, totalHoles int) error {
	if side != SideA && side != SideB {
		return fmt.Errorf("%w: unknown initiating side %q", ErrPressNotEligible, side)
	}
	if parent.Closed {
		return fmt.Errorf("%w: match already decided", ErrPressNotEligible)
	}
	if startHole >= totalHoles {
		return fmt.Errorf("%w: no press on the final hole", ErrPressNotEligible)
	}
	if startHole < 1 {
		return fmt.Errorf("%w: start hole %d", ErrPressNotEligible, startHole)
	}
	down := -parent.Score
	if side == SideB {
		down = parent.Score
	}
	if down < 2 {
		return fmt.Errorf("%w: initiator must be at least two down, is %d", ErrPressNotEligible, down)
	}
	return nil
}

// PressState scores a press as its own match over holes startHole..totalHoles,
// replaying only the parent results that fall inside that window. A press
// never outlives the round it was started in.
func PressState(totalHoles, startHole int, results []Result) (State, error) {
	if totalHoles < 1 {
		return State{}, fmt.Errorf("%w: total holes %d", ErrInvalidCourseData, totalHoles)
	}
	if startHole < 1 || startHole > totalHoles {
		return State{}, fmt.Errorf("%w: press start hole %d out of range 1..%d", ErrInconsistentHoleResult, startHole, totalHoles)
	}
	window := totalHoles - startHole + 1
	scoped := make([]Result, 0, window)
	for _, r := range results {
		if r.Hole < 1 || r.Hole > totalHoles {
			return State{}, fmt.Errorf("%w: hole %d out of range 1..%d", ErrInconsistentHoleResult, r.Hole, totalHoles)
		}
		if r.Hole >= startHole {
			scoped = append(scoped, r)
		}
	}
	return replay(window, scoped)
}
