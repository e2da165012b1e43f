package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Nikachu96/Ready-2-Dink-sub000/models"
)

var ErrEntryNotFound = errors.New("tournament entry not found")

type EntryRepository interface {
	// ListConfirmedByTournament returns confirmed entries in registration
	// order (created_at ascending), which is also the seed order.
	ListConfirmedByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Entry, error)
	GetByTournamentAndPlayer(ctx context.Context, exec SQLExecutor, tournamentID, playerID int) (*models.Entry, error)
	UpdateSeed(ctx context.Context, exec SQLExecutor, entryID, seed int) error
}

type postgresEntryRepository struct{}

func NewPostgresEntryRepository() EntryRepository {
	return &postgresEntryRepository{}
}

func (r *postgresEntryRepository) ListConfirmedByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Entry, error) {
	query := `
		SELECT id, tournament_id, player_id, seed, status, created_at
		FROM entries
		WHERE tournament_id = $1 AND status = $2
		ORDER BY created_at ASC, id ASC`

	rows, err := exec.QueryContext(ctx, query, tournamentID, models.EntryStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	entries := make([]*models.Entry, 0)
	for rows.Next() {
		var e models.Entry
		if scanErr := rows.Scan(
			&e.ID,
			&e.TournamentID,
			&e.PlayerID,
			&e.Seed,
			&e.Status,
			&e.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", scanErr)
		}
		entries = append(entries, &e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during entry rows iteration: %w", err)
	}
	return entries, nil
}

func (r *postgresEntryRepository) GetByTournamentAndPlayer(ctx context.Context, exec SQLExecutor, tournamentID, playerID int) (*models.Entry, error) {
	query := `
		SELECT id, tournament_id, player_id, seed, status, created_at
		FROM entries
		WHERE tournament_id = $1 AND player_id = $2`

	e := &models.Entry{}
	err := exec.QueryRowContext(ctx, query, tournamentID, playerID).Scan(
		&e.ID,
		&e.TournamentID,
		&e.PlayerID,
		&e.Seed,
		&e.Status,
		&e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to scan entry for tournament %d player %d: %w", tournamentID, playerID, err)
	}
	return e, nil
}

func (r *postgresEntryRepository) UpdateSeed(ctx context.Context, exec SQLExecutor, entryID, seed int) error {
	query := `UPDATE entries SET seed = $1 WHERE id = $2`
	result, err := exec.ExecContext(ctx, query, seed, entryID)
	if err != nil {
		return fmt.Errorf("failed to update seed for entry %d: %w", entryID, err)
	}
	return checkAffectedRows(result, ErrEntryNotFound)
}
