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

// Matches that become ready get this long before the reminder deadline.
const matchDeadline = 7 * 24 * time.Hour

type SubmitResultInput struct {
	MatchID     int    `json:"match_id"`
	SetsWonA    int    `json:"sets_won_a"`
	SetsWonB    int    `json:"sets_won_b"`
	ScoreText   string `json:"score_text"`
	SubmitterID int    `json:"-"`
}

type MatchResultSummary struct {
	MatchID       int    `json:"match_id"`
	WinnerID      int    `json:"winner_id"`
	PointsAwarded int    `json:"points_awarded"`
	StageName     string `json:"stage_name"`
	Score         string `json:"score"`
}

type ResultService interface {
	SubmitResult(ctx context.Context, input SubmitResultInput) (*MatchResultSummary, error)
}

type resultService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	teamResolver   TeamResolver
	scoring        ScoringIntegrator
	notifier       Notifier
	hub            *brackets.Hub
	logger         *slog.Logger
	announcer      *readyAnnouncer
}

func NewResultService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	teamResolver TeamResolver,
	scoring ScoringIntegrator,
	notifier Notifier,
	hub *brackets.Hub,
	logger *slog.Logger,
) ResultService {
	return &resultService{
		db:             db,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		teamResolver:   teamResolver,
		scoring:        scoring,
		notifier:       notifier,
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

// SubmitResult is the transactional entry point for match outcomes. All
// authoritative writes (score, winner, scoring, advancement) happen inside
// one row-locking transaction; notifications and the ready-match reminder are
// best-effort after the commit and can never roll the result back.
func (s *resultService) SubmitResult(ctx context.Context, input SubmitResultInput) (*MatchResultSummary, error) {
	if input.SetsWonA == input.SetsWonB {
		return nil, ErrTiedResult
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	outcome, err := s.applyResult(ctx, tx, input)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("rollback failed after submission error",
				slog.Int("match_id", input.MatchID),
				slog.Any("rollback_error", rbErr),
			)
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit result for match %d: %w", input.MatchID, err)
	}

	s.afterCommit(context.WithoutCancel(ctx), outcome)
	return outcome.summary, nil
}

// submissionOutcome carries everything the post-commit side effects need out
// of the transaction.
type submissionOutcome struct {
	summary    *MatchResultSummary
	tournament *models.TournamentInstance
	match      *models.TournamentMatch
	winnerID   int
	loserID    int
	readyMatch *models.TournamentMatch
}

// applyResult runs the validation chain and all authoritative writes against
// the given executor. The already-completed check sits behind the same row
// lock as the completion write, so of two near-simultaneous submissions
// exactly one wins and the other observes ErrAlreadySubmitted.
func (s *resultService) applyResult(ctx context.Context, exec repositories.SQLExecutor, input SubmitResultInput) (*submissionOutcome, error) {
	match, err := s.matchRepo.GetByIDForUpdate(ctx, exec, input.MatchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", input.MatchID, err)
	}

	if !match.HasPlayer(input.SubmitterID) {
		return nil, ErrNotAParticipant
	}
	if match.Status == models.MatchStatusCompleted {
		return nil, ErrAlreadySubmitted
	}
	if match.Player1ID == nil || match.Player2ID == nil {
		// A bye (or half-filled placeholder) has no opponent to beat; it is
		// resolved through the manual completion path instead.
		return nil, ErrMatchNotReady
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, exec, match.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", match.TournamentID, err)
	}

	winnerID, loserID := *match.Player1ID, *match.Player2ID
	if input.SetsWonB > input.SetsWonA {
		winnerID, loserID = loserID, winnerID
	}

	if err := s.matchRepo.CompleteMatch(ctx, exec, match.ID, input.ScoreText, winnerID, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to persist result for match %d: %w", match.ID, err)
	}

	points, stage, err := s.scoring.ApplyMatchOutcome(ctx, exec, tournament, match, winnerID, &loserID, true)
	if err != nil {
		return nil, err
	}

	readyMatch, err := advanceWinner(ctx, exec, s.matchRepo, match, winnerID)
	if err != nil {
		return nil, err
	}

	return &submissionOutcome{
		summary: &MatchResultSummary{
			MatchID:       match.ID,
			WinnerID:      winnerID,
			PointsAwarded: points,
			StageName:     stage,
			Score:         input.ScoreText,
		},
		tournament: tournament,
		match:      match,
		winnerID:   winnerID,
		loserID:    loserID,
		readyMatch: readyMatch,
	}, nil
}

// advanceWinner writes the winner into the correct slot of the next round's
// match: odd match numbers feed slot 1, even feed slot 2. The successor row
// is locked alongside the completed match; absence of a successor means the
// final round and no advancement. Returns the next match when this write
// made it ready, since that transition triggers the post-commit scheduling.
func advanceWinner(ctx context.Context, exec repositories.SQLExecutor, matchRepo repositories.MatchRepository, match *models.TournamentMatch, winnerID int) (*models.TournamentMatch, error) {
	nextNumber, slot := brackets.NextSlot(match.MatchNumber)
	next, err := matchRepo.GetByRoundAndNumberForUpdate(ctx, exec, match.TournamentID, match.Round+1, nextNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load successor of match %d: %w", match.ID, err)
	}

	if err := matchRepo.SetPlayerSlot(ctx, exec, next.ID, slot, winnerID); err != nil {
		return nil, fmt.Errorf("failed to advance winner of match %d: %w", match.ID, err)
	}
	if slot == 1 {
		next.Player1ID = &winnerID
	} else {
		next.Player2ID = &winnerID
	}

	if next.Player1ID == nil || next.Player2ID == nil {
		return nil, nil
	}
	if err := matchRepo.UpdateStatus(ctx, exec, next.ID, models.MatchStatusReady); err != nil {
		return nil, fmt.Errorf("failed to mark match %d ready: %w", next.ID, err)
	}
	next.Status = models.MatchStatusReady
	return next, nil
}

// afterCommit performs the best-effort side effects: result notifications for
// both teams, the reminder deadline and notifications for a newly ready
// match, and the live bracket broadcast. Every failure here is logged and
// swallowed.
func (s *resultService) afterCommit(ctx context.Context, outcome *submissionOutcome) {
	room := strconv.Itoa(outcome.tournament.ID)
	s.hub.BroadcastToRoom(room, brackets.Message{
		Type:    brackets.EventMatchCompleted,
		Payload: outcome.summary,
	})

	title := fmt.Sprintf("%s result recorded", outcome.summary.StageName)
	winMsg := fmt.Sprintf("You won your %s match in %s (%s). %d ranking points awarded.",
		outcome.summary.StageName, outcome.tournament.Name, outcome.summary.Score, outcome.summary.PointsAwarded)
	loseMsg := fmt.Sprintf("Your %s match in %s has been recorded as a loss (%s).",
		outcome.summary.StageName, outcome.tournament.Name, outcome.summary.Score)
	s.notifyTeam(ctx, outcome.tournament, outcome.winnerID, title, winMsg)
	s.notifyTeam(ctx, outcome.tournament, outcome.loserID, title, loseMsg)

	if outcome.readyMatch != nil {
		s.announcer.announce(ctx, outcome.tournament, outcome.readyMatch)
	}
}

func (s *resultService) notifyTeam(ctx context.Context, tournament *models.TournamentInstance, playerID int, title, message string) {
	members, err := s.teamResolver.TeamMembers(ctx, s.db, tournament, playerID)
	if err != nil {
		s.logger.Error("failed to resolve team for notification",
			slog.Int("player_id", playerID),
			slog.Any("error", err),
		)
		members = []int{playerID}
	}
	for _, member := range members {
		if err := s.notifier.Notify(ctx, member, title, message); err != nil {
			s.logger.Error("failed to send result notification",
				slog.Int("player_id", member),
				slog.Any("error", err),
			)
		}
	}
}
