package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Nikachu96/Ready-2-Dink-sub000/models"
	"github.com/Nikachu96/Ready-2-Dink-sub000/repositories"
	"github.com/Nikachu96/Ready-2-Dink-sub000/storage"
	"github.com/google/uuid"
)

var ErrScoreSheetNotAllowed = errors.New("score sheets can only be attached to completed matches")

type MatchService interface {
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.TournamentMatch, error)
	// AttachScoreSheet stores a photo of the paper score sheet as evidence
	// for a completed match's recorded result.
	AttachScoreSheet(ctx context.Context, matchID, uploaderID int, contentType string, reader io.Reader) (*models.TournamentMatch, error)
}

type matchService struct {
	db        *sql.DB
	matchRepo repositories.MatchRepository
	uploader  storage.FileUploader
	logger    *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:        db,
		matchRepo: matchRepo,
		uploader:  uploader,
		logger:    logger,
	}
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.TournamentMatch, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, s.db, tournamentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	for _, m := range matches {
		s.fillScoreSheetURL(m)
	}
	return matches, nil
}

func (s *matchService) AttachScoreSheet(ctx context.Context, matchID, uploaderID int, contentType string, reader io.Reader) (*models.TournamentMatch, error) {
	match, err := s.matchRepo.GetByID(ctx, s.db, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	if !match.HasPlayer(uploaderID) {
		return nil, ErrNotAParticipant
	}
	if match.Status != models.MatchStatusCompleted {
		return nil, ErrScoreSheetNotAllowed
	}

	key := fmt.Sprintf("scoresheets/%d/%s", match.TournamentID, uuid.NewString())
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload score sheet for match %d: %w", matchID, err)
	}

	if err := s.matchRepo.UpdateScoreSheetKey(ctx, s.db, matchID, result.Key); err != nil {
		// The object is orphaned but harmless; delete it best-effort.
		if delErr := s.uploader.Delete(ctx, result.Key); delErr != nil {
			s.logger.Error("failed to delete orphaned score sheet",
				slog.String("key", result.Key),
				slog.Any("error", delErr),
			)
		}
		return nil, fmt.Errorf("failed to record score sheet for match %d: %w", matchID, err)
	}

	match.ScoreSheetKey = &result.Key
	s.fillScoreSheetURL(match)
	return match, nil
}

func (s *matchService) fillScoreSheetURL(match *models.TournamentMatch) {
	if match.ScoreSheetKey == nil {
		return
	}
	url := s.uploader.GetPublicURL(*match.ScoreSheetKey)
	match.ScoreSheetURL = &url
}
