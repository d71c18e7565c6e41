package models

import "time"

// TripStatus mirrors the trip_status enum in the database.
type TripStatus string

const (
	TripStatusPlanning  TripStatus = "planning"
	TripStatusActive    TripStatus = "active"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCanceled  TripStatus = "canceled"
)

type Trip struct {
	ID          int        `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description,omitempty" db:"description"`
	Location    *string    `json:"location,omitempty" db:"location"`
	OrganizerID int        `json:"organizer_id" db:"organizer_id"`
	StartDate   time.Time  `json:"start_date" db:"start_date"`
	EndDate     time.Time  `json:"end_date" db:"end_date"`
	Status      TripStatus `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`

	Organizer *User     `json:"organizer,omitempty" db:"-"`
	Teams     []Team    `json:"teams,omitempty" db:"-"`
	Members   []Member  `json:"members,omitempty" db:"-"`
	Sessions  []Session `json:"sessions,omitempty" db:"-"`
}

type MemberRole string

const (
	MemberRolePlayer  MemberRole = "player"
	MemberRoleCaptain MemberRole = "captain"
)

// Member ties a user to a trip and, once drafted, to one of its teams.
type Member struct {
	ID       int        `json:"id" db:"id"`
	TripID   int        `json:"trip_id" db:"trip_id"`
	UserID   int        `json:"user_id" db:"user_id"`
	TeamID   *int       `json:"team_id,omitempty" db:"team_id"`
	Role     MemberRole `json:"role" db:"role"`
	JoinedAt time.Time  `json:"joined_at" db:"joined_at"`

	User *User `json:"user,omitempty" db:"-"`
}
