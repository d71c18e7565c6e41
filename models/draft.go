package models

import "time"

// DraftMode mirrors the draft_mode enum in the database.
type DraftMode string

const (
	DraftModeSnake    DraftMode = "snake"
	DraftModeAuction  DraftMode = "auction"
	DraftModeRandom   DraftMode = "random"
	DraftModeBalanced DraftMode = "balanced"
)

type DraftStatus string

const (
	DraftStatusOpen     DraftStatus = "open"
	DraftStatusComplete DraftStatus = "complete"
)

// Draft is a trip's team-picking session. TeamOrder holds team ids in first
// round picking order; Budget only matters for auctions.
type Draft struct {
	ID        int         `json:"id" db:"id"`
	TripID    int         `json:"trip_id" db:"trip_id"`
	Mode      DraftMode   `json:"mode" db:"mode"`
	TeamOrder []int64     `json:"team_order" db:"team_order"`
	Budget    int         `json:"budget" db:"budget"`
	Status    DraftStatus `json:"status" db:"status"`
	Seed      *int64      `json:"seed,omitempty" db:"seed"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`

	Picks []DraftPick `json:"picks,omitempty" db:"-"`
}

func (d Draft) TeamOrderInts() []int {
	return toInts(d.TeamOrder)
}

type DraftPick struct {
	ID        int       `json:"id" db:"id"`
	DraftID   int       `json:"draft_id" db:"draft_id"`
	Round     int       `json:"round" db:"round"`
	Overall   int       `json:"overall" db:"overall"`
	TeamID    int       `json:"team_id" db:"team_id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Bid       int       `json:"bid" db:"bid"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	User *User `json:"user,omitempty" db:"-"`
}
