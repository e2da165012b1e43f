package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Nikachu96/Ready-2-Dink-sub000/models"
)

var ErrPartnerInviteNotFound = errors.New("partner invite not found")

type PartnerInviteRepository interface {
	// FindAcceptedByEntry returns the accepted pairing for a doubles entry,
	// or ErrPartnerInviteNotFound when the entry has no confirmed partner.
	FindAcceptedByEntry(ctx context.Context, exec SQLExecutor, entryID int) (*models.PartnerInvite, error)
}

type postgresPartnerInviteRepository struct{}

func NewPostgresPartnerInviteRepository() PartnerInviteRepository {
	return &postgresPartnerInviteRepository{}
}

func (r *postgresPartnerInviteRepository) FindAcceptedByEntry(ctx context.Context, exec SQLExecutor, entryID int) (*models.PartnerInvite, error) {
	query := `
		SELECT id, tournament_id, entry_id, player_id, partner_id, status, created_at
		FROM partner_invites
		WHERE entry_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1`

	inv := &models.PartnerInvite{}
	err := exec.QueryRowContext(ctx, query, entryID, models.PartnerInviteStatusAccepted).Scan(
		&inv.ID,
		&inv.TournamentID,
		&inv.EntryID,
		&inv.PlayerID,
		&inv.PartnerID,
		&inv.Status,
		&inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPartnerInviteNotFound
		}
		return nil, fmt.Errorf("failed to scan partner invite for entry %d: %w", entryID, err)
	}
	return inv, nil
}
