package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Nikachu96/Ready-2-Dink-sub000/brackets"
	"github.com/Nikachu96/Ready-2-Dink-sub000/models"
	"github.com/Nikachu96/Ready-2-Dink-sub000/repositories"
)

// readyAnnouncer owns the post-commit handling for a match that just
// transitioned to ready: the reminder deadline, the live broadcast and the
// notifications to both players. Both completion paths (player submission and
// manual resolution) report the transition here, and the transition out of
// pending happens once per match, so the handling fires exactly once.
type readyAnnouncer struct {
	db        *sql.DB
	matchRepo repositories.MatchRepository
	notifier  Notifier
	hub       *brackets.Hub
	logger    *slog.Logger
}

func (a *readyAnnouncer) announce(ctx context.Context, tournament *models.TournamentInstance, ready *models.TournamentMatch) {
	deadline := time.Now().Add(matchDeadline)
	if err := a.matchRepo.UpdateDeadline(ctx, a.db, ready.ID, deadline); err != nil {
		a.logger.Error("failed to set deadline for ready match",
			slog.Int("match_id", ready.ID),
			slog.Any("error", err),
		)
	}

	a.hub.BroadcastToRoom(strconv.Itoa(tournament.ID), brackets.Message{
		Type:    brackets.EventMatchReady,
		Payload: ready,
	})

	stage := "next"
	if rounds := a.totalRounds(ctx, tournament); rounds > 0 {
		stage = brackets.StageName(ready.Round, rounds)
	}
	title := "Your next match is ready"
	message := fmt.Sprintf("Your %s match in %s is ready to play. Deadline: %s.",
		stage, tournament.Name, deadline.Format("Jan 2, 2006"))
	for _, playerID := range []int{*ready.Player1ID, *ready.Player2ID} {
		if err := a.notifier.Notify(ctx, playerID, title, message); err != nil {
			a.logger.Error("failed to notify player of ready match",
				slog.Int("player_id", playerID),
				slog.Any("error", err),
			)
		}
	}
}

// totalRounds mirrors the scoring integrator's preference for the stored
// round count, with the match-table scan as fallback so a tournament seeded
// before the column existed never mislabels the stage in the notification.
func (a *readyAnnouncer) totalRounds(ctx context.Context, tournament *models.TournamentInstance) int {
	if tournament.TotalRounds != nil && *tournament.TotalRounds > 0 {
		return *tournament.TotalRounds
	}
	maxRound, err := a.matchRepo.MaxRound(ctx, a.db, tournament.ID)
	if err != nil {
		a.logger.Warn("failed to derive total rounds for ready notification",
			slog.Int("tournament_id", tournament.ID),
			slog.Any("error", err),
		)
		return 0
	}
	return maxRound
}
