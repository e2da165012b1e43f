package models

import "time"

// Player carries the cumulative ranking state alongside profile basics.
// Wins, Losses and RankingPoints are mutated only by the scoring integrator
// and are never decremented.
type Player struct {
	ID             int       `json:"id" db:"id"`
	FullName       string    `json:"full_name" db:"full_name"`
	Email          string    `json:"email" db:"email"`
	SkillLevel     string    `json:"skill_level" db:"skill_level"`
	Wins           int       `json:"wins" db:"wins"`
	Losses         int       `json:"losses" db:"losses"`
	RankingPoints  int       `json:"ranking_points" db:"ranking_points"`
	TournamentWins int       `json:"tournament_wins" db:"tournament_wins"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
