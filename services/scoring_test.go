package services

import (
	"context"
	"testing"

	"github.com/Nikachu96/Ready-2-Dink-sub000/brackets"
	"github.com/Nikachu96/Ready-2-Dink-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScoring(store *memoryStore) ScoringIntegrator {
	return NewScoringIntegrator(
		&fakeMatchRepo{store},
		&fakePlayerRepo{store},
		newTestResolver(store),
		discardLogger(),
	)
}

func TestApplyMatchOutcomeFirstRoundPoints(t *testing.T) {
	tests := []struct {
		name              string
		includeFirstRound bool
		wantPoints        int
	}{
		{"player submission awards first-round points", true, 10},
		{"manual completion awards none", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			winner, loser := store.addPlayer(1), store.addPlayer(2)
			tournament := &models.TournamentInstance{
				ID: 1, Format: models.FormatSingles, TotalRounds: intPtr(4),
			}
			match := &models.TournamentMatch{
				ID: 1, TournamentID: 1, Round: 1, MatchNumber: 1,
				Player1ID: &winner.ID, Player2ID: &loser.ID,
			}

			points, stage, err := newTestScoring(store).ApplyMatchOutcome(
				context.Background(), nil, tournament, match, winner.ID, &loser.ID, tt.includeFirstRound)
			require.NoError(t, err)

			assert.Equal(t, brackets.StageFirstRound, stage)
			assert.Equal(t, tt.wantPoints, points)
			assert.Equal(t, 1, winner.Wins)
			assert.Equal(t, tt.wantPoints, winner.RankingPoints)
			assert.Equal(t, 0, winner.TournamentWins)
			assert.Equal(t, 1, loser.Losses)
			assert.Equal(t, 0, loser.RankingPoints)
		})
	}
}

func TestApplyMatchOutcomeFinalAwardsTournamentWin(t *testing.T) {
	store := newMemoryStore()
	winner, loser := store.addPlayer(1), store.addPlayer(2)
	tournament := &models.TournamentInstance{
		ID: 1, Format: models.FormatSingles, TotalRounds: intPtr(3),
	}
	match := &models.TournamentMatch{
		ID: 7, TournamentID: 1, Round: 3, MatchNumber: 1,
		Player1ID: &winner.ID, Player2ID: &loser.ID,
	}

	points, stage, err := newTestScoring(store).ApplyMatchOutcome(
		context.Background(), nil, tournament, match, winner.ID, &loser.ID, true)
	require.NoError(t, err)

	assert.Equal(t, brackets.StageFinal, stage)
	assert.Equal(t, 400, points)
	assert.Equal(t, 400, winner.RankingPoints)
	assert.Equal(t, 1, winner.TournamentWins)
	assert.Equal(t, 0, loser.TournamentWins)
}

func TestApplyMatchOutcomeDoublesCreditsBothPartners(t *testing.T) {
	store := newMemoryStore()
	winner, partner := store.addPlayer(1), store.addPlayer(2)
	loser, loserPartner := store.addPlayer(3), store.addPlayer(4)
	tournament := &models.TournamentInstance{
		ID: 1, Format: models.FormatDoubles, TotalRounds: intPtr(3),
	}
	store.addEntry(&models.Entry{ID: 10, TournamentID: 1, PlayerID: winner.ID, Status: models.EntryStatusConfirmed})
	store.addEntry(&models.Entry{ID: 11, TournamentID: 1, PlayerID: loser.ID, Status: models.EntryStatusConfirmed})
	store.invites = append(store.invites,
		&models.PartnerInvite{ID: 1, TournamentID: 1, EntryID: 10, PlayerID: winner.ID, PartnerID: partner.ID, Status: models.PartnerInviteStatusAccepted},
		&models.PartnerInvite{ID: 2, TournamentID: 1, EntryID: 11, PlayerID: loser.ID, PartnerID: loserPartner.ID, Status: models.PartnerInviteStatusAccepted},
	)
	match := &models.TournamentMatch{
		ID: 7, TournamentID: 1, Round: 3, MatchNumber: 1,
		Player1ID: &winner.ID, Player2ID: &loser.ID,
	}

	points, _, err := newTestScoring(store).ApplyMatchOutcome(
		context.Background(), nil, tournament, match, winner.ID, &loser.ID, true)
	require.NoError(t, err)
	require.Equal(t, 400, points)

	for _, p := range []*models.Player{winner, partner} {
		assert.Equal(t, 1, p.Wins, "player %d", p.ID)
		assert.Equal(t, 400, p.RankingPoints, "player %d", p.ID)
		assert.Equal(t, 1, p.TournamentWins, "player %d", p.ID)
	}
	for _, p := range []*models.Player{loser, loserPartner} {
		assert.Equal(t, 1, p.Losses, "player %d", p.ID)
		assert.Equal(t, 0, p.RankingPoints, "player %d", p.ID)
	}
}

func TestApplyMatchOutcomeNilLoserRecordsNoLoss(t *testing.T) {
	store := newMemoryStore()
	winner := store.addPlayer(1)
	tournament := &models.TournamentInstance{
		ID: 1, Format: models.FormatSingles, TotalRounds: intPtr(3),
	}
	match := &models.TournamentMatch{
		ID: 3, TournamentID: 1, Round: 1, MatchNumber: 3,
		Player1ID: &winner.ID, Status: models.MatchStatusBye,
	}

	points, _, err := newTestScoring(store).ApplyMatchOutcome(
		context.Background(), nil, tournament, match, winner.ID, nil, false)
	require.NoError(t, err)

	assert.Equal(t, 40, points) // round 1 of 3 is the quarter-final
	assert.Equal(t, 1, winner.Wins)
	for _, p := range store.players {
		assert.Equal(t, 0, p.Losses)
	}
}

func TestApplyMatchOutcomeFallsBackToMaxRoundScan(t *testing.T) {
	store := newMemoryStore()
	winner, loser := store.addPlayer(1), store.addPlayer(2)
	tournament := &models.TournamentInstance{ID: 1, Format: models.FormatSingles}
	store.addMatch(&models.TournamentMatch{ID: 1, TournamentID: 1, Round: 1, MatchNumber: 1})
	store.addMatch(&models.TournamentMatch{ID: 2, TournamentID: 1, Round: 2, MatchNumber: 1})
	match := &models.TournamentMatch{
		ID: 2, TournamentID: 1, Round: 2, MatchNumber: 1,
		Player1ID: &winner.ID, Player2ID: &loser.ID,
	}

	_, stage, err := newTestScoring(store).ApplyMatchOutcome(
		context.Background(), nil, tournament, match, winner.ID, &loser.ID, true)
	require.NoError(t, err)
	assert.Equal(t, brackets.StageFinal, stage)
}
