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
)

type AdminService interface {
	// CompleteMatchManually is the administrative resolution path for
	// walkovers (byes) and disputed matches. Unlike the player submission
	// path it awards no first-round points; the two paths have observably
	// different point behavior and are deliberately kept separate.
	CompleteMatchManually(ctx context.Context, matchID, winnerID int, scoreText string) (*MatchResultSummary, error)
}

type adminService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	scoring        ScoringIntegrator
	hub            *brackets.Hub
	logger         *slog.Logger
	announcer      *readyAnnouncer
}

func NewAdminService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	scoring ScoringIntegrator,
	notifier Notifier,
	hub *brackets.Hub,
	logger *slog.Logger,
) AdminService {
	return &adminService{
		db:             db,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		scoring:        scoring,
		hub:            hub,
		logger:         logger,
		announcer: &readyAnnouncer{
			db:        db,
			matchRepo: matchRepo,
			notifier:  notifier,
			hub:       hub,
			logger:    logger,
		},
	}
}

func (s *adminService) CompleteMatchManually(ctx context.Context, matchID, winnerID int, scoreText string) (*MatchResultSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	summary, tournament, ready, err := s.complete(ctx, tx, matchID, winnerID, scoreText)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("rollback failed after manual completion error",
				slog.Int("match_id", matchID),
				slog.Any("rollback_error", rbErr),
			)
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit manual completion of match %d: %w", matchID, err)
	}

	s.afterCommit(context.WithoutCancel(ctx), summary, tournament, ready)
	return summary, nil
}

// afterCommit mirrors the player submission path: the completion broadcast,
// and the full ready handling when the advancement filled the successor's
// last slot.
func (s *adminService) afterCommit(ctx context.Context, summary *MatchResultSummary, tournament *models.TournamentInstance, ready *models.TournamentMatch) {
	s.hub.BroadcastToRoom(strconv.Itoa(tournament.ID), brackets.Message{
		Type:    brackets.EventMatchCompleted,
		Payload: summary,
	})
	if ready != nil {
		s.announcer.announce(ctx, tournament, ready)
	}
}

func (s *adminService) complete(ctx context.Context, exec repositories.SQLExecutor, matchID, winnerID int, scoreText string) (*MatchResultSummary, *models.TournamentInstance, *models.TournamentMatch, error) {
	match, err := s.matchRepo.GetByIDForUpdate(ctx, exec, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, nil, nil, ErrMatchNotFound
		}
		return nil, nil, nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	if match.Status == models.MatchStatusCompleted {
		return nil, nil, nil, ErrAlreadySubmitted
	}
	if !match.HasPlayer(winnerID) {
		return nil, nil, nil, ErrInvalidWinner
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, exec, match.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, nil, nil, ErrTournamentNotFound
		}
		return nil, nil, nil, fmt.Errorf("failed to load tournament %d: %w", match.TournamentID, err)
	}

	if err := s.matchRepo.CompleteMatch(ctx, exec, match.ID, scoreText, winnerID, time.Now()); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to persist manual completion of match %d: %w", match.ID, err)
	}

	// A bye has no loser; a contested match credits the loss to the opponent.
	loserID := match.Opponent(winnerID)
	points, stage, err := s.scoring.ApplyMatchOutcome(ctx, exec, tournament, match, winnerID, loserID, false)
	if err != nil {
		return nil, nil, nil, err
	}

	ready, err := advanceWinner(ctx, exec, s.matchRepo, match, winnerID)
	if err != nil {
		return nil, nil, nil, err
	}

	s.logger.Info("match completed manually",
		slog.Int("match_id", match.ID),
		slog.Int("winner_id", winnerID),
		slog.String("stage", stage),
	)
	return &MatchResultSummary{
		MatchID:       match.ID,
		WinnerID:      winnerID,
		PointsAwarded: points,
		StageName:     stage,
		Score:         scoreText,
	}, tournament, ready, nil
}
