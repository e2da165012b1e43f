package models

import "time"

type EntryStatus string

const (
	EntryStatusPending   EntryStatus = "pending"
	EntryStatusConfirmed EntryStatus = "confirmed"
	EntryStatusWithdrawn EntryStatus = "withdrawn"
)

// Entry binds one player (the team anchor for doubles) to a tournament
// instance. Seed is assigned once at bracket generation, in registration
// order, and is immutable afterwards.
type Entry struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	PlayerID     int         `json:"player_id" db:"player_id"`
	Seed         *int        `json:"seed,omitempty" db:"seed"`
	Status       EntryStatus `json:"status" db:"status"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`

	Player *Player `json:"player,omitempty" db:"-"`
}
