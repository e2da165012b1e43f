package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Nikachu96/Ready-2-Dink-sub000/models"
)

var ErrPlayerNotFound = errors.New("player not found")

// PlayerRepository exposes reads plus the ranking-state increments used by
// the scoring integrator. Counters only ever go up.
type PlayerRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error)
	AddWin(ctx context.Context, exec SQLExecutor, playerID, points int) error
	AddLoss(ctx context.Context, exec SQLExecutor, playerID int) error
	AddTournamentWin(ctx context.Context, exec SQLExecutor, playerID int) error
}

type postgresPlayerRepository struct{}

func NewPostgresPlayerRepository() PlayerRepository {
	return &postgresPlayerRepository{}
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error) {
	query := `
		SELECT id, full_name, email, skill_level, wins, losses, ranking_points, tournament_wins, created_at
		FROM players
		WHERE id = $1`

	p := &models.Player{}
	err := exec.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.FullName,
		&p.Email,
		&p.SkillLevel,
		&p.Wins,
		&p.Losses,
		&p.RankingPoints,
		&p.TournamentWins,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player %d: %w", id, err)
	}
	return p, nil
}

func (r *postgresPlayerRepository) AddWin(ctx context.Context, exec SQLExecutor, playerID, points int) error {
	query := `
		UPDATE players
		SET wins = wins + 1, ranking_points = ranking_points + $1
		WHERE id = $2`

	result, err := exec.ExecContext(ctx, query, points, playerID)
	if err != nil {
		return fmt.Errorf("failed to add win for player %d: %w", playerID, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) AddLoss(ctx context.Context, exec SQLExecutor, playerID int) error {
	query := `UPDATE players SET losses = losses + 1 WHERE id = $1`
	result, err := exec.ExecContext(ctx, query, playerID)
	if err != nil {
		return fmt.Errorf("failed to add loss for player %d: %w", playerID, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) AddTournamentWin(ctx context.Context, exec SQLExecutor, playerID int) error {
	query := `UPDATE players SET tournament_wins = tournament_wins + 1 WHERE id = $1`
	result, err := exec.ExecContext(ctx, query, playerID)
	if err != nil {
		return fmt.Errorf("failed to add tournament win for player %d: %w", playerID, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}
