package models

import "time"

type PartnerInviteStatus string

const (
	PartnerInviteStatusPending  PartnerInviteStatus = "pending"
	PartnerInviteStatusAccepted PartnerInviteStatus = "accepted"
	PartnerInviteStatusDeclined PartnerInviteStatus = "declined"
)

// PartnerInvite links a doubles entry to its partner. An accepted invite is
// what makes the partner share win/loss and point credit; the pairing is
// scoped to one tournament instance, never global.
type PartnerInvite struct {
	ID           int                 `json:"id" db:"id"`
	TournamentID int                 `json:"tournament_id" db:"tournament_id"`
	EntryID      int                 `json:"entry_id" db:"entry_id"`
	PlayerID     int                 `json:"player_id" db:"player_id"`
	PartnerID    int                 `json:"partner_id" db:"partner_id"`
	Status       PartnerInviteStatus `json:"status" db:"status"`
	CreatedAt    time.Time           `json:"created_at" db:"created_at"`
}
