package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/vocab-quest/internal/domain/entities"
	"github.com/aliskhannn/vocab-quest/internal/infra/postgres"
)

// AchievementRepository reads achievements unlocked by the achievements service.
type AchievementRepository struct {
	db postgres.DBTX
}

func NewAchievementRepository(db postgres.DBTX) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// CountUnlocked returns how many achievements the user holds.
func (r *AchievementRepository) CountUnlocked(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM user_achievements WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count achievements: %w", err)
	}

	return count, nil
}

// ListUnlocked returns the user's achievements, most recent first.
func (r *AchievementRepository) ListUnlocked(ctx context.Context, userID int64) ([]*entities.Achievement, error) {
	query := `
		SELECT a.id, a.name, a.description, a.condition_type, a.condition_value,
		       a.xp_reward, a.badge, ua.unlocked_at
		FROM user_achievements ua
		JOIN achievements a ON a.id = ua.achievement_id
		WHERE ua.user_id = $1
		ORDER BY ua.unlocked_at DESC, a.id
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	defer rows.Close()

	var achievements []*entities.Achievement
	for rows.Next() {
		var a entities.Achievement
		if err := rows.Scan(
			&a.ID,
			&a.Name,
			&a.Description,
			&a.ConditionType,
			&a.ConditionValue,
			&a.XPReward,
			&a.Badge,
			&a.UnlockedAt,
		); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		achievements = append(achievements, &a)
	}

	return achievements, rows.Err()
}
