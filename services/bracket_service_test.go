package services

import (
	"context"
	"testing"
	"time"

	"github.com/Nikachu96/Ready-2-Dink-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBracketService(store *memoryStore) *bracketService {
	return &bracketService{
		tournamentRepo: &fakeTournamentRepo{store},
		entryRepo:      &fakeEntryRepo{store},
		matchRepo:      &fakeMatchRepo{store},
		notifier:       NoopNotifier{},
		logger:         discardLogger(),
	}
}

func seedOpenTournament(store *memoryStore, playerIDs ...int) {
	store.addTournament(&models.TournamentInstance{
		ID: 1, Name: "Club Open", Format: models.FormatSingles,
		Status: models.TournamentStatusOpen, MaxPlayers: 16,
	})
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, playerID := range playerIDs {
		store.addPlayer(playerID)
		store.addEntry(&models.Entry{
			ID: i + 1, TournamentID: 1, PlayerID: playerID,
			Status:    models.EntryStatusConfirmed,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
}

func TestGenerateBuildsFullBracketForOddField(t *testing.T) {
	store := newMemoryStore()
	seedOpenTournament(store, 100, 101, 102, 103, 104)
	svc := newTestBracketService(store)

	tournament, entries, err := svc.generate(context.Background(), nil, 1)
	require.NoError(t, err)

	// Seeds follow registration order.
	require.Len(t, entries, 5)
	for i, entry := range entries {
		require.NotNil(t, entry.Seed)
		assert.Equal(t, i+1, *entry.Seed)
	}

	assert.Equal(t, models.TournamentStatusActive, tournament.Status)
	require.NotNil(t, tournament.TotalRounds)
	assert.Equal(t, 3, *tournament.TotalRounds)
	assert.Equal(t, models.TournamentStatusActive, store.tournaments[1].Status)

	// 3 first-round matches (the last a bye), then 2 and 1 placeholders.
	matches, err := (&fakeMatchRepo{store}).ListByTournament(context.Background(), nil, 1, nil, nil)
	require.NoError(t, err)
	require.Len(t, matches, 6)

	first := matches[0]
	assert.Equal(t, models.MatchStatusReady, first.Status)
	require.NotNil(t, first.Player1ID)
	require.NotNil(t, first.Player2ID)
	assert.Equal(t, 100, *first.Player1ID)
	assert.Equal(t, 101, *first.Player2ID)

	bye := matches[2]
	assert.Equal(t, models.MatchStatusBye, bye.Status)
	require.NotNil(t, bye.Player1ID)
	assert.Equal(t, 104, *bye.Player1ID)
	assert.Nil(t, bye.Player2ID)

	for _, m := range matches[:3] {
		assert.Equal(t, 1, m.Round)
		assert.NotNil(t, m.Deadline, "round 1 match %d should carry a deadline", m.MatchNumber)
		assert.NotEmpty(t, m.UID)
	}
	for _, m := range matches[3:] {
		assert.Greater(t, m.Round, 1)
		assert.Equal(t, models.MatchStatusPending, m.Status)
		assert.Nil(t, m.Player1ID)
		assert.Nil(t, m.Player2ID)
		assert.Nil(t, m.Deadline)
	}
	assert.Equal(t, 2, matches[3].Round)
	assert.Equal(t, 3, matches[5].Round)
}

func TestGenerateRequiresTwoEntrants(t *testing.T) {
	store := newMemoryStore()
	seedOpenTournament(store, 100)
	svc := newTestBracketService(store)

	_, _, err := svc.generate(context.Background(), nil, 1)
	assert.ErrorIs(t, err, ErrInsufficientEntrants)
	assert.Equal(t, models.TournamentStatusOpen, store.tournaments[1].Status)
}

func TestGenerateRejectsNonOpenTournament(t *testing.T) {
	store := newMemoryStore()
	seedOpenTournament(store, 100, 101)
	store.tournaments[1].Status = models.TournamentStatusActive
	svc := newTestBracketService(store)

	_, _, err := svc.generate(context.Background(), nil, 1)
	assert.ErrorIs(t, err, ErrBracketAlreadyGenerated)
}

func TestGenerateUnknownTournament(t *testing.T) {
	svc := newTestBracketService(newMemoryStore())
	_, _, err := svc.generate(context.Background(), nil, 404)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestGenerateIgnoresUnconfirmedEntries(t *testing.T) {
	store := newMemoryStore()
	seedOpenTournament(store, 100, 101)
	store.addEntry(&models.Entry{
		ID: 10, TournamentID: 1, PlayerID: 200,
		Status: models.EntryStatusPending,
	})
	svc := newTestBracketService(store)

	tournament, entries, err := svc.generate(context.Background(), nil, 1)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	require.NotNil(t, tournament.TotalRounds)
	assert.Equal(t, 1, *tournament.TotalRounds)
	assert.Len(t, tournament.Matches, 1)
}
