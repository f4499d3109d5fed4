package service

import (
	"context"

	"github.com/aliskhannn/vocab-quest/internal/domain/entities"
)

// applyProgress is the progression ledger: it increments the user's
// counters in place and then stores the level derived from the new total.
// It must run inside a transaction so the level write observes the same row
// version the increment produced.
func applyProgress(
	ctx context.Context, repo ProgressRepository, userID int64, delta entities.ProgressDelta,
) (*entities.UserProgress, entities.LevelInfo, error) {
	if err := delta.Validate(); err != nil {
		return nil, entities.LevelInfo{}, err
	}

	p, err := repo.Increment(ctx, userID, delta)
	if err != nil {
		return nil, entities.LevelInfo{}, err
	}

	info, err := entities.ResolveLevel(p.TotalXP)
	if err != nil {
		return nil, entities.LevelInfo{}, err
	}

	if p.Level != info.Level {
		if err := repo.SetLevel(ctx, userID, info.Level); err != nil {
			return nil, entities.LevelInfo{}, err
		}
		p.Level = info.Level
	}

	return p, info, nil
}
