package models

import "time"

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusDeclined InviteStatus = "declined"
)

type Invite struct {
	ID        int          `json:"id" db:"id"`
	TripID    int          `json:"trip_id" db:"trip_id"`
	Email     string       `json:"email" db:"email"`
	Token     string       `json:"-" db:"token"`
	Status    InviteStatus `json:"status" db:"status"`
	ExpiresAt time.Time    `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}

func (i Invite) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
