package models

import "time"

// MatchStatus moves pending → ready → completed and never backward. A bye
// match has one player and no opponent; it is not auto-resolved by the
// engine (manual completion handles walkovers).
type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusBye       MatchStatus = "bye"
	MatchStatusReady     MatchStatus = "ready"
	MatchStatusCompleted MatchStatus = "completed"
)

// TournamentMatch is one slot in a bracket. Round and MatchNumber are
// 1-based and fixed at creation. Player slots are nil on placeholder
// matches (round > 1) until an earlier match's winner is advanced into
// them. WinnerID, once set, is immutable.
type TournamentMatch struct {
	ID            int         `json:"id" db:"id"`
	UID           string      `json:"uid" db:"uid"`
	TournamentID  int         `json:"tournament_id" db:"tournament_id"`
	Round         int         `json:"round" db:"round"`
	MatchNumber   int         `json:"match_number" db:"match_number"`
	Player1ID     *int        `json:"player1_id,omitempty" db:"player1_id"`
	Player2ID     *int        `json:"player2_id,omitempty" db:"player2_id"`
	Score         *string     `json:"score,omitempty" db:"score"`
	WinnerID      *int        `json:"winner_id,omitempty" db:"winner_id"`
	Status        MatchStatus `json:"status" db:"status"`
	Deadline      *time.Time  `json:"deadline,omitempty" db:"deadline"`
	ScoreSheetKey *string     `json:"-" db:"score_sheet_key"`
	ScoreSheetURL *string     `json:"score_sheet_url,omitempty" db:"-"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	CompletedAt   *time.Time  `json:"completed_at,omitempty" db:"completed_at"`
}

// HasPlayer reports whether the given player occupies either slot.
func (m *TournamentMatch) HasPlayer(playerID int) bool {
	if m.Player1ID != nil && *m.Player1ID == playerID {
		return true
	}
	if m.Player2ID != nil && *m.Player2ID == playerID {
		return true
	}
	return false
}

// Opponent returns the other slot's player, if filled.
func (m *TournamentMatch) Opponent(playerID int) *int {
	if m.Player1ID != nil && *m.Player1ID == playerID {
		return m.Player2ID
	}
	if m.Player2ID != nil && *m.Player2ID == playerID {
		return m.Player1ID
	}
	return nil
}
