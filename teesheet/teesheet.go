package teesheet

import (
	"errors"
	"fmt"
	"time"
)

type Mode string

const (
	ModeStaggered Mode = "staggered"
	ModeShotgun   Mode = "shotgun"
	ModeWave      Mode = "wave"
)

// Slot is one line of the tee sheet: who tees off, when, and from which hole.
type Slot struct {
	TeeTime      time.Time `json:"tee_time"`
	StartingHole int       `json:"starting_hole"`
	Group        []int     `json:"group"`
}

// Build lays the groups onto the course. Staggered starts send everyone off
// the first tee at interval gaps. Shotgun starts send everyone off at once,
// spread over the holes with at most two groups per hole. Wave starts send
// pairs of groups off the first and tenth tees together, wave after wave.
// The slots come back in the order the groups were given, times never
// decreasing.
func Build(mode Mode, first time.Time, interval time.Duration, holes int, groups [][]int) ([]Slot, error) {
	if len(groups) == 0 {
		return nil, errors.New("no groups to place on the sheet")
	}
	if holes < 1 {
		return nil, fmt.Errorf("cannot build a sheet for %d holes", holes)
	}
	for i, g := range groups {
		if len(g) == 0 {
			return nil, fmt.Errorf("group %d has no players", i+1)
		}
	}

	switch mode {
	case ModeStaggered:
		return buildStaggered(first, interval, groups)
	case ModeShotgun:
		return buildShotgun(first, holes, groups)
	case ModeWave:
		return buildWave(first, interval, holes, groups)
	default:
		return nil, fmt.Errorf("unknown tee sheet mode %q", mode)
	}
}

func buildStaggered(first time.Time, interval time.Duration, groups [][]int) ([]Slot, error) {
	if interval <= 0 {
		return nil, errors.New("staggered starts need a positive tee interval")
	}
	slots := make([]Slot, 0, len(groups))
	for i, g := range groups {
		slots = append(slots, Slot{
			TeeTime:      first.Add(time.Duration(i) * interval),
			StartingHole: 1,
			Group:        g,
		})
	}
	return slots, nil
}

func buildShotgun(first time.Time, holes int, groups [][]int) ([]Slot, error) {
	if len(groups) > 2*holes {
		return nil, fmt.Errorf("%d groups will not fit a %d hole shotgun", len(groups), holes)
	}
	slots := make([]Slot, 0, len(groups))
	for i, g := range groups {
		slots = append(slots, Slot{
			TeeTime:      first,
			StartingHole: i%holes + 1,
			Group:        g,
		})
	}
	return slots, nil
}

func buildWave(first time.Time, interval time.Duration, holes int, groups [][]int) ([]Slot, error) {
	if interval <= 0 {
		return nil, errors.New("wave starts need a positive wave interval")
	}
	if holes < 10 {
		return nil, fmt.Errorf("two tee start needs at least ten holes, course has %d", holes)
	}
	slots := make([]Slot, 0, len(groups))
	for i, g := range groups {
		hole := 1
		if i%2 == 1 {
			hole = 10
		}
		slots = append(slots, Slot{
			TeeTime:      first.Add(time.Duration(i/2) * interval),
			StartingHole: hole,
			Group:        g,
		})
	}
	return slots, nil
}
