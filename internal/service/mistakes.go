package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/vocab-quest/internal/domain/entities"
)

// MistakeService manages the per-user practice queue outside of session ingestion.
type MistakeService struct {
	repo      MistakeRepository
	metrics   Metrics
	logger    *zap.Logger
	listLimit int
	now       func() time.Time
}

// NewMistakeService creates the service. listLimit caps List; zero means unbounded.
func NewMistakeService(repo MistakeRepository, metrics Metrics, logger *zap.Logger, listLimit int) *MistakeService {
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &MistakeService{
		repo:      repo,
		metrics:   metrics,
		logger:    logger,
		listLimit: max(0, listLimit),
		now:       time.Now,
	}
}

func validatePair(userID, wordID int64) error {
	if userID <= 0 {
		return entities.MissingField("user_id")
	}
	if wordID <= 0 {
		return entities.MissingField("word_id")
	}
	return nil
}

// Record enqueues the word or bumps its counter, returning the new count.
func (s *MistakeService) Record(ctx context.Context, userID, wordID int64) (int, error) {
	if err := validatePair(userID, wordID); err != nil {
		return 0, err
	}

	n, err := s.repo.Record(ctx, userID, wordID, s.now())
	if err != nil {
		s.logger.Error("failed to record mistake", zap.Int64("user_id", userID), zap.Int64("word_id", wordID), zap.Error(err))
		return 0, entities.Persistence("record mistake", err)
	}

	s.metrics.MistakesRecorded(1)
	return n, nil
}

// List returns the queue, hardest and stalest words first.
func (s *MistakeService) List(ctx context.Context, userID int64) ([]*entities.MistakeEntry, error) {
	if userID <= 0 {
		return nil, entities.MissingField("user_id")
	}

	list, err := s.repo.List(ctx, userID, s.listLimit)
	if err != nil {
		return nil, entities.Persistence("list mistakes", err)
	}

	return list, nil
}

// Adjust changes an existing entry. found is false when the word is not
// queued; that case is a no-op and does not create a row.
func (s *MistakeService) Adjust(
	ctx context.Context, userID, wordID int64, adj entities.MistakeAdjustment,
) (mistakes int, found bool, err error) {
	if err := validatePair(userID, wordID); err != nil {
		return 0, false, err
	}
	if err := adj.Validate(); err != nil {
		return 0, false, err
	}

	mistakes, found, err = s.repo.Adjust(ctx, userID, wordID, adj, s.now())
	if err != nil {
		return 0, false, entities.Persistence("adjust mistake", err)
	}

	return mistakes, found, nil
}

// Remove marks the word as learned by dropping it from the queue.
// Removing an absent word is not an error.
func (s *MistakeService) Remove(ctx context.Context, userID, wordID int64) (bool, error) {
	if err := validatePair(userID, wordID); err != nil {
		return false, err
	}

	removed, err := s.repo.Remove(ctx, userID, wordID)
	if err != nil {
		return false, entities.Persistence("remove mistake", err)
	}

	return removed, nil
}

// ClearAll empties the user's queue and returns how many entries were dropped.
func (s *MistakeService) ClearAll(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, entities.MissingField("user_id")
	}

	n, err := s.repo.ClearAll(ctx, userID)
	if err != nil {
		return 0, entities.Persistence("clear mistakes", err)
	}

	s.logger.Info("mistakes cleared", zap.Int64("user_id", userID), zap.Int64("deleted", n))
	return n, nil
}

func (s *MistakeService) Exists(ctx context.Context, userID, wordID int64) (bool, error) {
	if err := validatePair(userID, wordID); err != nil {
		return false, err
	}

	ok, err := s.repo.Exists(ctx, userID, wordID)
	if err != nil {
		return false, entities.Persistence("check mistake", err)
	}

	return ok, nil
}
