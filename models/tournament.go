package models

import "time"

// TournamentStatus mirrors the ENUM in the database.
type TournamentStatus string

const (
	TournamentStatusOpen      TournamentStatus = "open"
	TournamentStatusActive    TournamentStatus = "active"
	TournamentStatusCompleted TournamentStatus = "completed"
)

// TournamentFormat distinguishes singles from doubles play. Doubles
// tournaments credit the confirmed partner of a winning entry as well.
type TournamentFormat string

const (
	FormatSingles TournamentFormat = "singles"
	FormatDoubles TournamentFormat = "doubles"
)

// TournamentInstance is a named competition. TotalRounds is assigned once at
// bracket generation from the confirmed entrant count and is the authoritative
// source for stage naming; a MAX(round_number) scan is only a fallback for
// instances seeded before the column existed.
type TournamentInstance struct {
	ID          int              `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	SkillLevel  string           `json:"skill_level" db:"skill_level"`
	Format      TournamentFormat `json:"format" db:"format"`
	MaxPlayers  int              `json:"max_players" db:"max_players"`
	Status      TournamentStatus `json:"status" db:"status"`
	TotalRounds *int             `json:"total_rounds,omitempty" db:"total_rounds"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`

	// Optional linked data, populated by the service layer.
	Entries []Entry           `json:"entries,omitempty" db:"-"`
	Matches []TournamentMatch `json:"matches,omitempty" db:"-"`
}
