package models

import "time"

type Course struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Location  *string   `json:"location,omitempty" db:"location"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	TeeSets []TeeSet `json:"tee_sets,omitempty" db:"-"`
}

// TeeSet is one set of markers on a course. HolePars and HoleRankings are
// stored as integer arrays, one entry per hole, rankings being a permutation
// of 1..holes with 1 the hardest.
type TeeSet struct {
	ID           int       `json:"id" db:"id"`
	CourseID     int       `json:"course_id" db:"course_id"`
	Name         string    `json:"name" db:"name"`
	Rating       float64   `json:"rating" db:"rating"`
	Slope        int       `json:"slope" db:"slope"`
	Holes        int       `json:"holes" db:"holes"`
	HolePars     []int64   `json:"hole_pars" db:"hole_pars"`
	HoleRankings []int64   `json:"hole_rankings" db:"hole_rankings"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func (t TeeSet) Pars() []int {
	return toInts(t.HolePars)
}

func (t TeeSet) Rankings() []int {
	return toInts(t.HoleRankings)
}

func toInts(values []int64) []int {
	ints := make([]int, len(values))
	for i, v := range values {
		ints[i] = int(v)
	}
	return ints
}

func ToInt64s(values []int) []int64 {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = int64(v)
	}
	return out
}
