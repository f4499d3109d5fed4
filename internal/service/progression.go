package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/vocab-quest/internal/domain/entities"
	"github.com/aliskhannn/vocab-quest/internal/infra/postgres/repository"
)

// GrantResult is the ledger state after a direct XP award.
type GrantResult struct {
	XPEarned   int64              `json:"xp_earned"`
	NewTotalXP int64              `json:"new_total_xp"`
	NewLevel   int                `json:"new_level"`
	LeveledUp  bool               `json:"leveled_up"`
	Level      entities.LevelInfo `json:"level"`
}

// MaxGrantXP caps a single out-of-band award.
const MaxGrantXP int64 = 1_000_000

type ProgressionService struct {
	tr           Transactor
	progress     ProgressRepository
	mastery      MasteryRepository
	achievements AchievementRepository
	metrics      Metrics
	logger       *zap.Logger
}

func NewProgressionService(
	tr Transactor,
	progress ProgressRepository,
	mastery MasteryRepository,
	achievements AchievementRepository,
	metrics Metrics,
	logger *zap.Logger,
) *ProgressionService {
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &ProgressionService{
		tr:           tr,
		progress:     progress,
		mastery:      mastery,
		achievements: achievements,
		metrics:      metrics,
		logger:       logger,
	}
}

// GrantXP adds amount to the user's total and recomputes the level.
// Concurrent grants for the same user never lose an increment.
func (s *ProgressionService) GrantXP(ctx context.Context, userID, amount int64) (*GrantResult, error) {
	if userID <= 0 {
		return nil, entities.MissingField("user_id")
	}
	if amount <= 0 {
		return nil, entities.InvalidInput("amount", "must be positive")
	}
	if amount > MaxGrantXP {
		return nil, entities.InvalidInput("amount", fmt.Sprintf("must not exceed %d", MaxGrantXP))
	}

	var res GrantResult
	err := s.tr.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		p, info, err := applyProgress(ctx, repos.Progress, userID, entities.ProgressDelta{XP: amount})
		if err != nil {
			return err
		}
		before := entities.MustResolveLevel(p.TotalXP - amount)

		res = GrantResult{
			XPEarned:   amount,
			NewTotalXP: p.TotalXP,
			NewLevel:   info.Level,
			LeveledUp:  info.Level > before.Level,
			Level:      info,
		}
		return nil
	})
	if err != nil {
		if _, ok := entities.AsValidation(err); ok {
			return nil, err
		}
		s.logger.Error("failed to grant xp", zap.Int64("user_id", userID), zap.Int64("amount", amount), zap.Error(err))
		return nil, entities.Persistence("grant xp", err)
	}

	s.metrics.XPAwarded(XPSourceGrant, amount)
	if res.LeveledUp {
		s.logger.Info("user leveled up", zap.Int64("user_id", userID), zap.Int("level", res.NewLevel))
	}

	return &res, nil
}

// GetProgress returns the user's ledger joined with achievement and mastery counts.
func (s *ProgressionService) GetProgress(ctx context.Context, userID int64) (*entities.ProgressSummary, error) {
	if userID <= 0 {
		return nil, entities.MissingField("user_id")
	}

	p, err := s.progress.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProgressNotFound) {
			return nil, entities.ErrNotFound
		}
		return nil, entities.Persistence("get progress", err)
	}

	achievements, err := s.achievements.CountUnlocked(ctx, userID)
	if err != nil {
		return nil, entities.Persistence("count achievements", err)
	}

	learned, err := s.mastery.CountLearned(ctx, userID, entities.LearnedThreshold)
	if err != nil {
		return nil, entities.Persistence("count learned words", err)
	}

	return &entities.ProgressSummary{
		UserID:            p.UserID,
		GamesPlayed:       p.GamesPlayed,
		CorrectAnswers:    p.CorrectAnswers,
		TotalXP:           p.TotalXP,
		Level:             p.Level,
		LevelProgress:     p.LevelInfo(),
		AchievementsCount: achievements,
		WordsLearnedCount: learned,
	}, nil
}

// WordMastery returns the user's counter for one word. A word never answered
// correctly comes back with TimesCorrect zero.
func (s *ProgressionService) WordMastery(ctx context.Context, userID, wordID int64) (*entities.WordMastery, error) {
	if err := validatePair(userID, wordID); err != nil {
		return nil, err
	}

	m, err := s.mastery.Get(ctx, userID, wordID)
	if err != nil {
		if errors.Is(err, repository.ErrMasteryNotFound) {
			return &entities.WordMastery{UserID: userID, WordID: wordID}, nil
		}
		return nil, entities.Persistence("get mastery", err)
	}

	return m, nil
}

// ListAchievements returns the achievements the user has unlocked.
func (s *ProgressionService) ListAchievements(ctx context.Context, userID int64) ([]*entities.Achievement, error) {
	if userID <= 0 {
		return nil, entities.MissingField("user_id")
	}

	list, err := s.achievements.ListUnlocked(ctx, userID)
	if err != nil {
		return nil, entities.Persistence("list achievements", err)
	}

	return list, nil
}
