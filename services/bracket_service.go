package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Nikachu96/Ready-2-Dink-sub000/brackets"
	"github.com/Nikachu96/Ready-2-Dink-sub000/models"
	"github.com/Nikachu96/Ready-2-Dink-sub000/repositories"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type BracketService interface {
	// GenerateBracket seeds the confirmed entrants, creates every round's
	// matches in one transaction and flips the tournament to active.
	GenerateBracket(ctx context.Context, tournamentID int) (*models.TournamentInstance, error)
	// GetBracket returns the tournament with its entries and matches.
	GetBracket(ctx context.Context, tournamentID int) (*models.TournamentInstance, error)
}

type bracketService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	entryRepo      repositories.EntryRepository
	matchRepo      repositories.MatchRepository
	notifier       Notifier
	hub            *brackets.Hub
	logger         *slog.Logger
}

func NewBracketService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	entryRepo repositories.EntryRepository,
	matchRepo repositories.MatchRepository,
	notifier Notifier,
	hub *brackets.Hub,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		db:             db,
		tournamentRepo: tournamentRepo,
		entryRepo:      entryRepo,
		matchRepo:      matchRepo,
		notifier:       notifier,
		hub:            hub,
		logger:         logger,
	}
}

func (s *bracketService) GenerateBracket(ctx context.Context, tournamentID int) (*models.TournamentInstance, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	tournament, entries, err := s.generate(ctx, tx, tournamentID)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("rollback failed after generation error",
				slog.Int("tournament_id", tournamentID),
				slog.Any("rollback_error", rbErr),
			)
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit bracket for tournament %d: %w", tournamentID, err)
	}

	s.afterGenerate(context.WithoutCancel(ctx), tournament, entries)
	return tournament, nil
}

// generate holds the whole atomic portion: seeding, round-1 pairing, later
// round placeholders and the status flip. A reader never observes a partial
// bracket.
func (s *bracketService) generate(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (*models.TournamentInstance, []*models.Entry, error) {
	tournament, err := s.tournamentRepo.GetByIDForUpdate(ctx, exec, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, nil, ErrTournamentNotFound
		}
		return nil, nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}
	if tournament.Status != models.TournamentStatusOpen {
		return nil, nil, ErrBracketAlreadyGenerated
	}

	entries, err := s.entryRepo.ListConfirmedByTournament(ctx, exec, tournamentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list confirmed entries for tournament %d: %w", tournamentID, err)
	}
	if len(entries) < 2 {
		return nil, nil, ErrInsufficientEntrants
	}

	// Seeds follow registration order: first registered is seed 1.
	playerIDs := make([]int, len(entries))
	for i, entry := range entries {
		seed := i + 1
		if err := s.entryRepo.UpdateSeed(ctx, exec, entry.ID, seed); err != nil {
			return nil, nil, fmt.Errorf("failed to assign seed %d to entry %d: %w", seed, entry.ID, err)
		}
		entry.Seed = &seed
		playerIDs[i] = entry.PlayerID
	}

	plan, err := brackets.PlanSingleElimination(playerIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to plan bracket for tournament %d: %w", tournamentID, err)
	}

	firstRoundDeadline := time.Now().Add(matchDeadline)
	for _, planned := range plan.Matches {
		match := &models.TournamentMatch{
			UID:          uuid.NewString(),
			TournamentID: tournamentID,
			Round:        planned.Round,
			MatchNumber:  planned.MatchNumber,
			Player1ID:    planned.Player1ID,
			Player2ID:    planned.Player2ID,
			Status:       planned.Status,
		}
		if planned.Round == 1 {
			match.Deadline = &firstRoundDeadline
		}
		if err := s.matchRepo.Create(ctx, exec, match); err != nil {
			return nil, nil, fmt.Errorf("failed to create round %d match %d: %w", planned.Round, planned.MatchNumber, err)
		}
		tournament.Matches = append(tournament.Matches, *match)
	}

	if err := s.tournamentRepo.Activate(ctx, exec, tournamentID, plan.TotalRounds); err != nil {
		return nil, nil, fmt.Errorf("failed to activate tournament %d: %w", tournamentID, err)
	}
	tournament.Status = models.TournamentStatusActive
	tournament.TotalRounds = &plan.TotalRounds

	s.logger.Info("bracket generated",
		slog.Int("tournament_id", tournamentID),
		slog.Int("entrants", len(entries)),
		slog.Int("total_rounds", plan.TotalRounds),
		slog.Int("matches", len(plan.Matches)),
	)
	return tournament, entries, nil
}

func (s *bracketService) afterGenerate(ctx context.Context, tournament *models.TournamentInstance, entries []*models.Entry) {
	s.hub.BroadcastToRoom(strconv.Itoa(tournament.ID), brackets.Message{
		Type:    brackets.EventBracketGenerated,
		Payload: tournament,
	})

	title := fmt.Sprintf("%s has started", tournament.Name)
	message := fmt.Sprintf("The bracket for %s is live. Check your first-round match and get playing!", tournament.Name)
	for _, entry := range entries {
		if err := s.notifier.Notify(ctx, entry.PlayerID, title, message); err != nil {
			s.logger.Error("failed to notify entrant of bracket",
				slog.Int("player_id", entry.PlayerID),
				slog.Int("tournament_id", tournament.ID),
				slog.Any("error", err),
			)
		}
	}
}

func (s *bracketService) GetBracket(ctx context.Context, tournamentID int) (*models.TournamentInstance, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, s.db, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		entries, err := s.entryRepo.ListConfirmedByTournament(gCtx, s.db, tournamentID)
		if err != nil {
			return err
		}
		tournament.Entries = make([]models.Entry, 0, len(entries))
		for _, e := range entries {
			tournament.Entries = append(tournament.Entries, *e)
		}
		return nil
	})

	g.Go(func() error {
		matches, err := s.matchRepo.ListByTournament(gCtx, s.db, tournamentID, nil, nil)
		if err != nil {
			return err
		}
		tournament.Matches = make([]models.TournamentMatch, 0, len(matches))
		for _, m := range matches {
			tournament.Matches = append(tournament.Matches, *m)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load bracket data for tournament %d: %w", tournamentID, err)
	}
	return tournament, nil
}
