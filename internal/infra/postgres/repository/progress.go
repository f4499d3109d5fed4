package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/vocab-quest/internal/domain/entities"
	"github.com/aliskhannn/vocab-quest/internal/infra/postgres"
)

var ErrProgressNotFound = errors.New("progress not found")

// ProgressRepository provides access to the per-user progression aggregate.
type ProgressRepository struct {
	db postgres.DBTX
}

// NewProgressRepository creates a new ProgressRepository with the provided pool or transaction.
func NewProgressRepository(db postgres.DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Increment applies delta relative to the stored counters in a single
// statement, creating the row on first use, and returns the row after the
// update. The upsert holds the row lock until the surrounding transaction
// ends, so concurrent increments for one user serialise instead of losing
// updates.
func (r *ProgressRepository) Increment(ctx context.Context, userID int64, delta entities.ProgressDelta) (*entities.UserProgress, error) {
	query := `
		INSERT INTO user_progress (user_id, games_played, correct_answers, total_xp, level, updated_at)
		VALUES ($1, $2, $3, $4, 1, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			games_played = user_progress.games_played + EXCLUDED.games_played,
			correct_answers = user_progress.correct_answers + EXCLUDED.correct_answers,
			total_xp = user_progress.total_xp + EXCLUDED.total_xp,
			updated_at = NOW()
		RETURNING user_id, games_played, correct_answers, total_xp, level, updated_at
	`

	var p entities.UserProgress
	err := r.db.QueryRow(ctx, query, userID, delta.GamesPlayed, delta.CorrectAnswers, delta.XP).Scan(
		&p.UserID,
		&p.GamesPlayed,
		&p.CorrectAnswers,
		&p.TotalXP,
		&p.Level,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("increment progress: %w", err)
	}

	return &p, nil
}

// SetLevel stores the level cache derived from the current total XP.
func (r *ProgressRepository) SetLevel(ctx context.Context, userID int64, level int) error {
	query := `UPDATE user_progress SET level = $2 WHERE user_id = $1`

	tag, err := r.db.Exec(ctx, query, userID, level)
	if err != nil {
		return fmt.Errorf("set level: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProgressNotFound
	}

	return nil
}

// Get retrieves the progression row of a user.
// Returns ErrProgressNotFound if the user never played or received XP.
func (r *ProgressRepository) Get(ctx context.Context, userID int64) (*entities.UserProgress, error) {
	query := `
		SELECT user_id, games_played, correct_answers, total_xp, level, updated_at
		FROM user_progress
		WHERE user_id = $1
	`

	var p entities.UserProgress
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.GamesPlayed,
		&p.CorrectAnswers,
		&p.TotalXP,
		&p.Level,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProgressNotFound
		}
		return nil, fmt.Errorf("get progress: %w", err)
	}

	return &p, nil
}
