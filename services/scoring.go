package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Nikachu96/Ready-2-Dink-sub000/brackets"
	"github.com/Nikachu96/Ready-2-Dink-sub000/models"
	"github.com/Nikachu96/Ready-2-Dink-sub000/repositories"
)

// ScoringIntegrator applies round-scoped ranking points and win/loss counters
// to every member of both teams of a completed match. It must run exactly
// once per match, inside the completing transaction; the already-submitted
// guard upstream is what prevents re-application.
type ScoringIntegrator interface {
	ApplyMatchOutcome(ctx context.Context, exec repositories.SQLExecutor, tournament *models.TournamentInstance, match *models.TournamentMatch, winnerID int, loserID *int, includeFirstRound bool) (points int, stage string, err error)
}

type scoringIntegrator struct {
	matchRepo    repositories.MatchRepository
	playerRepo   repositories.PlayerRepository
	teamResolver TeamResolver
	logger       *slog.Logger
}

func NewScoringIntegrator(
	matchRepo repositories.MatchRepository,
	playerRepo repositories.PlayerRepository,
	teamResolver TeamResolver,
	logger *slog.Logger,
) ScoringIntegrator {
	return &scoringIntegrator{
		matchRepo:    matchRepo,
		playerRepo:   playerRepo,
		teamResolver: teamResolver,
		logger:       logger,
	}
}

func (s *scoringIntegrator) ApplyMatchOutcome(ctx context.Context, exec repositories.SQLExecutor, tournament *models.TournamentInstance, match *models.TournamentMatch, winnerID int, loserID *int, includeFirstRound bool) (int, string, error) {
	totalRounds, err := s.totalRounds(ctx, exec, tournament)
	if err != nil {
		return 0, "", err
	}

	stage := brackets.StageName(match.Round, totalRounds)
	points := brackets.PointsForStage(stage, includeFirstRound)

	winners, err := s.teamResolver.TeamMembers(ctx, exec, tournament, winnerID)
	if err != nil {
		return 0, "", err
	}
	for _, playerID := range winners {
		if err := s.playerRepo.AddWin(ctx, exec, playerID, points); err != nil {
			return 0, "", fmt.Errorf("failed to credit win to player %d: %w", playerID, err)
		}
		if stage == brackets.StageFinal {
			if err := s.playerRepo.AddTournamentWin(ctx, exec, playerID); err != nil {
				return 0, "", fmt.Errorf("failed to credit tournament win to player %d: %w", playerID, err)
			}
		}
	}

	if loserID != nil {
		losers, err := s.teamResolver.TeamMembers(ctx, exec, tournament, *loserID)
		if err != nil {
			return 0, "", err
		}
		for _, playerID := range losers {
			if err := s.playerRepo.AddLoss(ctx, exec, playerID); err != nil {
				return 0, "", fmt.Errorf("failed to record loss for player %d: %w", playerID, err)
			}
		}
	}

	s.logger.Info("match outcome scored",
		slog.Int("match_id", match.ID),
		slog.String("stage", stage),
		slog.Int("points", points),
		slog.Int("winner_id", winnerID),
	)
	return points, stage, nil
}

// totalRounds prefers the count stored on the instance at generation time.
// The MAX(round) scan only covers instances seeded before the column existed
// and undercounts brackets whose deepest rounds were trimmed by byes.
func (s *scoringIntegrator) totalRounds(ctx context.Context, exec repositories.SQLExecutor, tournament *models.TournamentInstance) (int, error) {
	if tournament.TotalRounds != nil && *tournament.TotalRounds > 0 {
		return *tournament.TotalRounds, nil
	}

	s.logger.Warn("tournament missing total_rounds, falling back to match table scan",
		slog.Int("tournament_id", tournament.ID),
	)
	maxRound, err := s.matchRepo.MaxRound(ctx, exec, tournament.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to derive total rounds for tournament %d: %w", tournament.ID, err)
	}
	if maxRound == 0 {
		maxRound = 1
	}
	return maxRound, nil
}
