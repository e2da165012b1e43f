package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Nikachu96/Ready-2-Dink-sub000/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound          = errors.New("tournament match not found")
	ErrMatchTournamentInvalid = errors.New("tournament match tournament conflict or invalid")
	ErrMatchPlayerInvalid     = errors.New("tournament match player conflict or invalid")
	ErrMatchSlotConflict      = errors.New("tournament match slot already occupied")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.TournamentMatch) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.TournamentMatch, error)
	// GetByIDForUpdate locks the match row; the lock is held until the
	// surrounding transaction ends, which is what closes the concurrent
	// double-submission race.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.TournamentMatch, error)
	GetByRoundAndNumberForUpdate(ctx context.Context, exec SQLExecutor, tournamentID, round, matchNumber int) (*models.TournamentMatch, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, round *int, status *models.MatchStatus) ([]*models.TournamentMatch, error)
	// MaxRound is the documented fallback for deriving the round count when
	// the tournament row predates the total_rounds column.
	MaxRound(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	CompleteMatch(ctx context.Context, exec SQLExecutor, id int, score string, winnerID int, completedAt time.Time) error
	// SetPlayerSlot writes a winner into slot 1 or 2 of a placeholder match.
	SetPlayerSlot(ctx context.Context, exec SQLExecutor, id, slot, playerID int) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error
	UpdateDeadline(ctx context.Context, exec SQLExecutor, id int, deadline time.Time) error
	UpdateScoreSheetKey(ctx context.Context, exec SQLExecutor, id int, key string) error
}

type postgresMatchRepository struct{}

func NewPostgresMatchRepository() MatchRepository {
	return &postgresMatchRepository{}
}

const matchColumns = `id, uid, tournament_id, round, match_number, player1_id, player2_id,
	       score, winner_id, status, deadline, score_sheet_key, created_at, completed_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.TournamentMatch) error {
	query := `
		INSERT INTO tournament_matches
			(uid, tournament_id, round, match_number, player1_id, player2_id, score,
			 winner_id, status, deadline)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		match.UID,
		match.TournamentID,
		match.Round,
		match.MatchNumber,
		match.Player1ID,
		match.Player2ID,
		match.Score,
		match.WinnerID,
		match.Status,
		match.Deadline,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func scanMatch(scan func(dest ...interface{}) error) (*models.TournamentMatch, error) {
	m := &models.TournamentMatch{}
	err := scan(
		&m.ID,
		&m.UID,
		&m.TournamentID,
		&m.Round,
		&m.MatchNumber,
		&m.Player1ID,
		&m.Player2ID,
		&m.Score,
		&m.WinnerID,
		&m.Status,
		&m.Deadline,
		&m.ScoreSheetKey,
		&m.CreatedAt,
		&m.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament match: %w", err)
	}
	return m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.TournamentMatch, error) {
	query := `SELECT ` + matchColumns + ` FROM tournament_matches WHERE id = $1`
	return scanMatch(exec.QueryRowContext(ctx, query, id).Scan)
}

func (r *postgresMatchRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.TournamentMatch, error) {
	query := `SELECT ` + matchColumns + ` FROM tournament_matches WHERE id = $1 FOR UPDATE`
	return scanMatch(exec.QueryRowContext(ctx, query, id).Scan)
}

func (r *postgresMatchRepository) GetByRoundAndNumberForUpdate(ctx context.Context, exec SQLExecutor, tournamentID, round, matchNumber int) (*models.TournamentMatch, error) {
	query := `SELECT ` + matchColumns + `
		FROM tournament_matches
		WHERE tournament_id = $1 AND round = $2 AND match_number = $3
		FOR UPDATE`
	return scanMatch(exec.QueryRowContext(ctx, query, tournamentID, round, matchNumber).Scan)
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, roundFilter *int, statusFilter *models.MatchStatus) ([]*models.TournamentMatch, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + `
		FROM tournament_matches
		WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	placeholderIndex := 2

	if roundFilter != nil {
		queryBuilder.WriteString(" AND round = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *roundFilter)
		placeholderIndex++
	}
	if statusFilter != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *statusFilter)
	}

	queryBuilder.WriteString(" ORDER BY round ASC, match_number ASC")

	rows, err := exec.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.TournamentMatch, 0)
	for rows.Next() {
		m, scanErr := scanMatch(rows.Scan)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) MaxRound(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	query := `SELECT COALESCE(MAX(round), 0) FROM tournament_matches WHERE tournament_id = $1`
	var maxRound int
	if err := exec.QueryRowContext(ctx, query, tournamentID).Scan(&maxRound); err != nil {
		return 0, fmt.Errorf("failed to scan max round for tournament %d: %w", tournamentID, err)
	}
	return maxRound, nil
}

func (r *postgresMatchRepository) CompleteMatch(ctx context.Context, exec SQLExecutor, id int, score string, winnerID int, completedAt time.Time) error {
	query := `
		UPDATE tournament_matches
		SET score = $1, winner_id = $2, status = $3, completed_at = $4
		WHERE id = $5`

	result, err := exec.ExecContext(ctx, query, score, winnerID, models.MatchStatusCompleted, completedAt, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) SetPlayerSlot(ctx context.Context, exec SQLExecutor, id, slot, playerID int) error {
	var query string
	switch slot {
	case 1:
		query = `UPDATE tournament_matches SET player1_id = $1 WHERE id = $2 AND player1_id IS NULL`
	case 2:
		query = `UPDATE tournament_matches SET player2_id = $1 WHERE id = $2 AND player2_id IS NULL`
	default:
		return fmt.Errorf("invalid player slot %d", slot)
	}

	result, err := exec.ExecContext(ctx, query, playerID, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return ErrMatchSlotConflict
	}
	return nil
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error {
	query := `UPDATE tournament_matches SET status = $1 WHERE id = $2`
	result, err := exec.ExecContext(ctx, query, status, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateDeadline(ctx context.Context, exec SQLExecutor, id int, deadline time.Time) error {
	query := `UPDATE tournament_matches SET deadline = $1 WHERE id = $2`
	result, err := exec.ExecContext(ctx, query, deadline, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateScoreSheetKey(ctx context.Context, exec SQLExecutor, id int, key string) error {
	query := `UPDATE tournament_matches SET score_sheet_key = $1 WHERE id = $2`
	result, err := exec.ExecContext(ctx, query, key, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "tournament_matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "tournament_matches_player1_id_fkey", "tournament_matches_player2_id_fkey", "tournament_matches_winner_id_fkey":
			return ErrMatchPlayerInvalid
		case "tournament_matches_uid_key":
			return fmt.Errorf("match uid conflict: %w", err)
		}
	}
	return err
}
