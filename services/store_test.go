package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Nikachu96/Ready-2-Dink-sub000/models"
	"github.com/Nikachu96/Ready-2-Dink-sub000/repositories"
)

// memoryStore is an in-memory stand-in for the postgres layer. The repository
// fakes all share one store and ignore the SQLExecutor they are handed.
// Methods are not individually synchronized: tests that exercise the
// check-then-write race serialize whole transactions through mu, the way the
// row lock serializes them in postgres.
type memoryStore struct {
	mu          sync.Mutex
	tournaments map[int]*models.TournamentInstance
	entries     map[int]*models.Entry
	invites     []*models.PartnerInvite
	matches     map[int]*models.TournamentMatch
	players     map[int]*models.Player
	nextMatchID int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		tournaments: make(map[int]*models.TournamentInstance),
		entries:     make(map[int]*models.Entry),
		matches:     make(map[int]*models.TournamentMatch),
		players:     make(map[int]*models.Player),
		nextMatchID: 1,
	}
}

func (s *memoryStore) addTournament(t *models.TournamentInstance) *models.TournamentInstance {
	s.tournaments[t.ID] = t
	return t
}

func (s *memoryStore) addPlayer(id int) *models.Player {
	p := &models.Player{ID: id, FullName: "Player", Email: "player@example.com", SkillLevel: "3.5"}
	s.players[id] = p
	return p
}

func (s *memoryStore) addEntry(e *models.Entry) *models.Entry {
	s.entries[e.ID] = e
	return e
}

func (s *memoryStore) addMatch(m *models.TournamentMatch) *models.TournamentMatch {
	if m.ID == 0 {
		m.ID = s.nextMatchID
	}
	if m.ID >= s.nextMatchID {
		s.nextMatchID = m.ID + 1
	}
	s.matches[m.ID] = m
	return m
}

// recordingNotifier captures notifications so tests can assert who was told
// what, and how many times.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

type sentNotification struct {
	PlayerID int
	Title    string
	Message  string
}

func (n *recordingNotifier) Notify(_ context.Context, playerID int, title, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{PlayerID: playerID, Title: title, Message: message})
	return nil
}

func (n *recordingNotifier) sentTo(playerID int, title string) []sentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentNotification
	for _, s := range n.sent {
		if s.PlayerID == playerID && s.Title == title {
			out = append(out, s)
		}
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int { return &v }

// --- tournament repository fake ---

type fakeTournamentRepo struct{ store *memoryStore }

func (r *fakeTournamentRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.TournamentInstance, error) {
	t, ok := r.store.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTournamentRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.TournamentInstance, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *fakeTournamentRepo) Activate(_ context.Context, _ repositories.SQLExecutor, id int, totalRounds int) error {
	t, ok := r.store.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = models.TournamentStatusActive
	t.TotalRounds = &totalRounds
	return nil
}

// --- entry repository fake ---

type fakeEntryRepo struct{ store *memoryStore }

func (r *fakeEntryRepo) ListConfirmedByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]*models.Entry, error) {
	var out []*models.Entry
	for _, e := range r.store.entries {
		if e.TournamentID == tournamentID && e.Status == models.EntryStatusConfirmed {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeEntryRepo) GetByTournamentAndPlayer(_ context.Context, _ repositories.SQLExecutor, tournamentID, playerID int) (*models.Entry, error) {
	for _, e := range r.store.entries {
		if e.TournamentID == tournamentID && e.PlayerID == playerID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repositories.ErrEntryNotFound
}

func (r *fakeEntryRepo) UpdateSeed(_ context.Context, _ repositories.SQLExecutor, entryID, seed int) error {
	e, ok := r.store.entries[entryID]
	if !ok {
		return repositories.ErrEntryNotFound
	}
	e.Seed = &seed
	return nil
}

// --- partner invite repository fake ---

type fakePartnerRepo struct{ store *memoryStore }

func (r *fakePartnerRepo) FindAcceptedByEntry(_ context.Context, _ repositories.SQLExecutor, entryID int) (*models.PartnerInvite, error) {
	for _, inv := range r.store.invites {
		if inv.EntryID == entryID && inv.Status == models.PartnerInviteStatusAccepted {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, repositories.ErrPartnerInviteNotFound
}

// --- match repository fake ---

type fakeMatchRepo struct{ store *memoryStore }

func (r *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.TournamentMatch) error {
	match.ID = r.store.nextMatchID
	match.CreatedAt = time.Now()
	r.store.nextMatchID++
	r.store.matches[match.ID] = match
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.TournamentMatch, error) {
	m, ok := r.store.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMatchRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.TournamentMatch, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *fakeMatchRepo) GetByRoundAndNumberForUpdate(_ context.Context, _ repositories.SQLExecutor, tournamentID, round, matchNumber int) (*models.TournamentMatch, error) {
	for _, m := range r.store.matches {
		if m.TournamentID == tournamentID && m.Round == round && m.MatchNumber == matchNumber {
			cp := *m
			return &cp, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int, round *int, status *models.MatchStatus) ([]*models.TournamentMatch, error) {
	var out []*models.TournamentMatch
	for _, m := range r.store.matches {
		if m.TournamentID != tournamentID {
			continue
		}
		if round != nil && m.Round != *round {
			continue
		}
		if status != nil && m.Status != *status {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].MatchNumber < out[j].MatchNumber
	})
	return out, nil
}

func (r *fakeMatchRepo) MaxRound(_ context.Context, _ repositories.SQLExecutor, tournamentID int) (int, error) {
	max := 0
	for _, m := range r.store.matches {
		if m.TournamentID == tournamentID && m.Round > max {
			max = m.Round
		}
	}
	return max, nil
}

func (r *fakeMatchRepo) CompleteMatch(_ context.Context, _ repositories.SQLExecutor, id int, score string, winnerID int, completedAt time.Time) error {
	m, ok := r.store.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Score = &score
	m.WinnerID = &winnerID
	m.Status = models.MatchStatusCompleted
	m.CompletedAt = &completedAt
	return nil
}

func (r *fakeMatchRepo) SetPlayerSlot(_ context.Context, _ repositories.SQLExecutor, id, slot, playerID int) error {
	m, ok := r.store.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	switch slot {
	case 1:
		if m.Player1ID != nil {
			return repositories.ErrMatchSlotConflict
		}
		m.Player1ID = &playerID
	case 2:
		if m.Player2ID != nil {
			return repositories.ErrMatchSlotConflict
		}
		m.Player2ID = &playerID
	}
	return nil
}

func (r *fakeMatchRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.MatchStatus) error {
	m, ok := r.store.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Status = status
	return nil
}

func (r *fakeMatchRepo) UpdateDeadline(_ context.Context, _ repositories.SQLExecutor, id int, deadline time.Time) error {
	m, ok := r.store.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Deadline = &deadline
	return nil
}

func (r *fakeMatchRepo) UpdateScoreSheetKey(_ context.Context, _ repositories.SQLExecutor, id int, key string) error {
	m, ok := r.store.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.ScoreSheetKey = &key
	return nil
}

// --- player repository fake ---

type fakePlayerRepo struct{ store *memoryStore }

func (r *fakePlayerRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Player, error) {
	p, ok := r.store.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePlayerRepo) AddWin(_ context.Context, _ repositories.SQLExecutor, playerID, points int) error {
	p, ok := r.store.players[playerID]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	p.Wins++
	p.RankingPoints += points
	return nil
}

func (r *fakePlayerRepo) AddLoss(_ context.Context, _ repositories.SQLExecutor, playerID int) error {
	p, ok := r.store.players[playerID]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	p.Losses++
	return nil
}

func (r *fakePlayerRepo) AddTournamentWin(_ context.Context, _ repositories.SQLExecutor, playerID int) error {
	p, ok := r.store.players[playerID]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	p.TournamentWins++
	return nil
}
