package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Nikachu96/Ready-2-Dink-sub000/models"
	"github.com/Nikachu96/Ready-2-Dink-sub000/repositories"
)

// TeamResolver expands a single credited player into the full set of players
// sharing a match outcome: the player alone for singles, the player plus the
// confirmed partner for doubles.
type TeamResolver interface {
	TeamMembers(ctx context.Context, exec repositories.SQLExecutor, tournament *models.TournamentInstance, playerID int) ([]int, error)
}

type teamResolver struct {
	entryRepo   repositories.EntryRepository
	partnerRepo repositories.PartnerInviteRepository
	logger      *slog.Logger
}

func NewTeamResolver(
	entryRepo repositories.EntryRepository,
	partnerRepo repositories.PartnerInviteRepository,
	logger *slog.Logger,
) TeamResolver {
	return &teamResolver{
		entryRepo:   entryRepo,
		partnerRepo: partnerRepo,
		logger:      logger,
	}
}

// TeamMembers re-derives the pairing per match; partner pairings are
// tournament-scoped and never cached between calls. A doubles entry with no
// resolvable partner degrades to crediting the one known player with a
// warning rather than failing the submission.
func (r *teamResolver) TeamMembers(ctx context.Context, exec repositories.SQLExecutor, tournament *models.TournamentInstance, playerID int) ([]int, error) {
	if tournament.Format != models.FormatDoubles {
		return []int{playerID}, nil
	}

	entry, err := r.entryRepo.GetByTournamentAndPlayer(ctx, exec, tournament.ID, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrEntryNotFound) {
			r.logger.Warn("doubles player has no entry in tournament, crediting alone",
				slog.Int("tournament_id", tournament.ID),
				slog.Int("player_id", playerID),
			)
			return []int{playerID}, nil
		}
		return nil, fmt.Errorf("failed to resolve entry for player %d in tournament %d: %w", playerID, tournament.ID, err)
	}

	invite, err := r.partnerRepo.FindAcceptedByEntry(ctx, exec, entry.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrPartnerInviteNotFound) {
			r.logger.Warn("doubles entry has no accepted partner, crediting alone",
				slog.Int("tournament_id", tournament.ID),
				slog.Int("entry_id", entry.ID),
				slog.Int("player_id", playerID),
			)
			return []int{playerID}, nil
		}
		return nil, fmt.Errorf("failed to resolve partner for entry %d: %w", entry.ID, err)
	}

	partnerID := invite.PartnerID
	if partnerID == playerID {
		// The credited player may be the invited side of the pairing.
		partnerID = invite.PlayerID
	}
	return []int{playerID, partnerID}, nil
}
