package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/vocab-quest/internal/domain/entities"
)

type SessionRepository interface {
	Create(ctx context.Context, s *entities.GameSession) (bool, error)
	GetByToken(ctx context.Context, token uuid.UUID) (*entities.GameSession, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.GameSession, error)
}

type ProgressRepository interface {
	Increment(ctx context.Context, userID int64, delta entities.ProgressDelta) (*entities.UserProgress, error)
	SetLevel(ctx context.Context, userID int64, level int) error
	Get(ctx context.Context, userID int64) (*entities.UserProgress, error)
}

type MasteryRepository interface {
	RecordCorrect(ctx context.Context, userID, wordID int64, at time.Time) (int, error)
	Get(ctx context.Context, userID, wordID int64) (*entities.WordMastery, error)
	CountLearned(ctx context.Context, userID int64, threshold int) (int, error)
}

type MistakeRepository interface {
	Record(ctx context.Context, userID, wordID int64, at time.Time) (int, error)
	Adjust(ctx context.Context, userID, wordID int64, adj entities.MistakeAdjustment, at time.Time) (int, bool, error)
	Remove(ctx context.Context, userID, wordID int64) (bool, error)
	ClearAll(ctx context.Context, userID int64) (int64, error)
	Exists(ctx context.Context, userID, wordID int64) (bool, error)
	List(ctx context.Context, userID int64, limit int) ([]*entities.MistakeEntry, error)
}

type AchievementRepository interface {
	CountUnlocked(ctx context.Context, userID int64) (int, error)
	ListUnlocked(ctx context.Context, userID int64) ([]*entities.Achievement, error)
}

type UserRepository interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*entities.User, error)
}

// Repositories are bound to a single transaction for the duration of a WithinTx callback.
type Repositories struct {
	Sessions SessionRepository
	Progress ProgressRepository
	Mastery  MasteryRepository
	Mistakes MistakeRepository
}

// Transactor runs fn atomically: everything fn writes through repos commits
// together or not at all.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// Metrics receives counters for the progression engine.
type Metrics interface {
	SessionIngested(gameType, outcome string, elapsed time.Duration)
	XPAwarded(source string, xp int64)
	MistakesRecorded(n int)
}

// Ingestion outcomes reported to Metrics.
const (
	OutcomeApplied   = "applied"
	OutcomeDuplicate = "duplicate"
	OutcomeInvalid   = "invalid"
	OutcomeFailed    = "failed"
)

// Game type labels used when the reported tag is not a configured type.
const (
	GameTypeOther   = "other"
	GameTypeInvalid = "invalid"
)

// XP sources reported to Metrics.
const (
	XPSourceSession = "session"
	XPSourceGrant   = "grant"
)

type nopMetrics struct{}

func (nopMetrics) SessionIngested(string, string, time.Duration) {}
func (nopMetrics) XPAwarded(string, int64)                       {}
func (nopMetrics) MistakesRecorded(int)                          {}
