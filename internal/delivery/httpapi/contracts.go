package httpapi

import (
	"context"

	"github.com/aliskhannn/vocab-quest/internal/domain/entities"
	"github.com/aliskhannn/vocab-quest/internal/service"
)

type SessionService interface {
	Ingest(ctx context.Context, req service.IngestRequest) (*service.IngestResult, error)
	History(ctx context.Context, userID int64, limit int) ([]*entities.GameSession, error)
}

type ProgressionService interface {
	GrantXP(ctx context.Context, userID, amount int64) (*service.GrantResult, error)
	GetProgress(ctx context.Context, userID int64) (*entities.ProgressSummary, error)
	ListAchievements(ctx context.Context, userID int64) ([]*entities.Achievement, error)
	WordMastery(ctx context.Context, userID, wordID int64) (*entities.WordMastery, error)
}

type MistakeService interface {
	Record(ctx context.Context, userID, wordID int64) (int, error)
	List(ctx context.Context, userID int64) ([]*entities.MistakeEntry, error)
	Adjust(ctx context.Context, userID, wordID int64, adj entities.MistakeAdjustment) (int, bool, error)
	Remove(ctx context.Context, userID, wordID int64) (bool, error)
	ClearAll(ctx context.Context, userID int64) (int64, error)
	Exists(ctx context.Context, userID, wordID int64) (bool, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
