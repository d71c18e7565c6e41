package models

import "time"

// SessionFormat mirrors the session_format enum in the database.
type SessionFormat string

const (
	FormatSingles   SessionFormat = "singles"
	FormatFourBall  SessionFormat = "fourball"
	FormatFoursomes SessionFormat = "foursomes"
)

// SideSize is how many players stand on each side of a match in the format.
func (f SessionFormat) SideSize() int {
	if f == FormatSingles {
		return 1
	}
	return 2
}

type SessionStatus string

const (
	SessionStatusScheduled  SessionStatus = "scheduled"
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusCanceled   SessionStatus = "canceled"
)

type Session struct {
	ID             int           `json:"id" db:"id"`
	TripID         int           `json:"trip_id" db:"trip_id"`
	TeeSetID       int           `json:"tee_set_id" db:"tee_set_id"`
	RoundNo        int           `json:"round_no" db:"round_no"`
	Format         SessionFormat `json:"format" db:"format"`
	PointsPerMatch float64       `json:"points_per_match" db:"points_per_match"`
	Status         SessionStatus `json:"status" db:"status"`
	PlayedAt       time.Time     `json:"played_at" db:"played_at"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`

	TeeSet  *TeeSet   `json:"tee_set,omitempty" db:"-"`
	Matches []Match   `json:"matches,omitempty" db:"-"`
	Sheet   []TeeSlot `json:"tee_sheet,omitempty" db:"-"`
}

// TeeSlot is one persisted line of a session's tee sheet.
type TeeSlot struct {
	ID           int       `json:"id" db:"id"`
	SessionID    int       `json:"session_id" db:"session_id"`
	MatchID      int       `json:"match_id" db:"match_id"`
	TeeTime      time.Time `json:"tee_time" db:"tee_time"`
	StartingHole int       `json:"starting_hole" db:"starting_hole"`
}
