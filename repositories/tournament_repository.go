package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Nikachu96/Ready-2-Dink-sub000/models"
)

var ErrTournamentNotFound = errors.New("tournament instance not found")

type TournamentRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.TournamentInstance, error)
	// GetByIDForUpdate locks the tournament row for the duration of the
	// surrounding transaction so concurrent generation attempts serialize.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.TournamentInstance, error)
	// Activate flips the instance to active and records the round count
	// derived from the confirmed entrant count at generation time.
	Activate(ctx context.Context, exec SQLExecutor, id int, totalRounds int) error
}

type postgresTournamentRepository struct{}

func NewPostgresTournamentRepository() TournamentRepository {
	return &postgresTournamentRepository{}
}

const tournamentColumns = `id, name, skill_level, format, max_players, status, total_rounds, created_at`

func scanTournament(row *sql.Row) (*models.TournamentInstance, error) {
	t := &models.TournamentInstance{}
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.SkillLevel,
		&t.Format,
		&t.MaxPlayers,
		&t.Status,
		&t.TotalRounds,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament instance: %w", err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.TournamentInstance, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournament_instances WHERE id = $1`
	return scanTournament(exec.QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.TournamentInstance, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournament_instances WHERE id = $1 FOR UPDATE`
	return scanTournament(exec.QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) Activate(ctx context.Context, exec SQLExecutor, id int, totalRounds int) error {
	query := `
		UPDATE tournament_instances
		SET status = $1, total_rounds = $2
		WHERE id = $3`

	result, err := exec.ExecContext(ctx, query, models.TournamentStatusActive, totalRounds, id)
	if err != nil {
		return fmt.Errorf("failed to activate tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
