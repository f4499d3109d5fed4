package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/vocab-quest/internal/domain/entities"
	"github.com/aliskhannn/vocab-quest/internal/infra/postgres"
)

var ErrMasteryNotFound = errors.New("word mastery not found")

// MasteryRepository tracks how often a user answered each word correctly.
type MasteryRepository struct {
	db postgres.DBTX
}

// NewMasteryRepository creates a new MasteryRepository with the provided pool or transaction.
func NewMasteryRepository(db postgres.DBTX) *MasteryRepository {
	return &MasteryRepository{db: db}
}

// RecordCorrect inserts the pair with one correct answer or increments the
// stored counter, and returns the new count.
func (r *MasteryRepository) RecordCorrect(ctx context.Context, userID, wordID int64, at time.Time) (int, error) {
	query := `
		INSERT INTO word_mastery (user_id, word_id, times_correct, last_practiced_at)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (user_id, word_id) DO UPDATE SET
			times_correct = word_mastery.times_correct + 1,
			last_practiced_at = EXCLUDED.last_practiced_at
		RETURNING times_correct
	`

	var count int
	if err := r.db.QueryRow(ctx, query, userID, wordID, at).Scan(&count); err != nil {
		return 0, fmt.Errorf("record correct: %w", err)
	}

	return count, nil
}

// Get retrieves the mastery row for a (user, word) pair.
func (r *MasteryRepository) Get(ctx context.Context, userID, wordID int64) (*entities.WordMastery, error) {
	query := `
		SELECT user_id, word_id, times_correct, last_practiced_at
		FROM word_mastery
		WHERE user_id = $1 AND word_id = $2
	`

	var m entities.WordMastery
	err := r.db.QueryRow(ctx, query, userID, wordID).Scan(
		&m.UserID,
		&m.WordID,
		&m.TimesCorrect,
		&m.LastPracticedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMasteryNotFound
		}
		return nil, fmt.Errorf("get mastery: %w", err)
	}

	return &m, nil
}

// CountLearned returns how many words reached the given correct-answer threshold.
func (r *MasteryRepository) CountLearned(ctx context.Context, userID int64, threshold int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM word_mastery
		WHERE user_id = $1 AND times_correct >= $2
	`

	var count int
	if err := r.db.QueryRow(ctx, query, userID, threshold).Scan(&count); err != nil {
		return 0, fmt.Errorf("count learned: %w", err)
	}

	return count, nil
}
