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

// MistakeRepository manages the per-user practice queue of missed words.
type MistakeRepository struct {
	db postgres.DBTX
}

// NewMistakeRepository creates a new MistakeRepository with the provided pool or transaction.
func NewMistakeRepository(db postgres.DBTX) *MistakeRepository {
	return &MistakeRepository{db: db}
}

// Record adds the word to the queue with one mistake or increments the
// counter, and returns the new count.
func (r *MistakeRepository) Record(ctx context.Context, userID, wordID int64, at time.Time) (int, error) {
	query := `
		INSERT INTO word_mistakes (user_id, word_id, mistakes, created_at, last_practiced_at)
		VALUES ($1, $2, 1, $3, $3)
		ON CONFLICT (user_id, word_id) DO UPDATE SET
			mistakes = word_mistakes.mistakes + 1,
			last_practiced_at = EXCLUDED.last_practiced_at
		RETURNING mistakes
	`

	var mistakes int
	if err := r.db.QueryRow(ctx, query, userID, wordID, at).Scan(&mistakes); err != nil {
		return 0, fmt.Errorf("record mistake: %w", err)
	}

	return mistakes, nil
}

// Adjust changes an existing entry. It reports found=false, changing
// nothing, when the word is not in the queue.
func (r *MistakeRepository) Adjust(
	ctx context.Context, userID, wordID int64, adj entities.MistakeAdjustment, at time.Time,
) (mistakes int, found bool, err error) {
	var query string
	args := []any{userID, wordID, at}

	switch adj.Action {
	case entities.MistakeIncrement:
		query = `
			UPDATE word_mistakes
			SET mistakes = mistakes + 1, last_practiced_at = $3
			WHERE user_id = $1 AND word_id = $2
			RETURNING mistakes
		`
	case entities.MistakeSet:
		query = `
			UPDATE word_mistakes
			SET mistakes = $4, last_practiced_at = $3
			WHERE user_id = $1 AND word_id = $2
			RETURNING mistakes
		`
		args = append(args, adj.Value)
	default:
		return 0, false, fmt.Errorf("adjust mistake: unknown action %q", adj.Action)
	}

	err = r.db.QueryRow(ctx, query, args...).Scan(&mistakes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("adjust mistake: %w", err)
	}

	return mistakes, true, nil
}

// Remove deletes the entry and reports whether it existed.
func (r *MistakeRepository) Remove(ctx context.Context, userID, wordID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM word_mistakes WHERE user_id = $1 AND word_id = $2`, userID, wordID)
	if err != nil {
		return false, fmt.Errorf("remove mistake: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ClearAll empties the user's queue and returns the number of deleted entries.
func (r *MistakeRepository) ClearAll(ctx context.Context, userID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM word_mistakes WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("clear mistakes: %w", err)
	}

	return tag.RowsAffected(), nil
}

// Exists reports whether the word is in the user's queue.
func (r *MistakeRepository) Exists(ctx context.Context, userID, wordID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM word_mistakes WHERE user_id = $1 AND word_id = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, wordID).Scan(&exists); err != nil {
		return false, fmt.Errorf("mistake exists: %w", err)
	}

	return exists, nil
}

// List returns the queue joined with the word catalog: most mistakes first,
// and among equals the word practiced longest ago first.
func (r *MistakeRepository) List(ctx context.Context, userID int64, limit int) ([]*entities.MistakeEntry, error) {
	query := `
		SELECT m.user_id, m.word_id, m.mistakes, m.created_at, m.last_practiced_at,
		       COALESCE(w.word, ''), COALESCE(w.translation, ''), COALESCE(w.example, '')
		FROM word_mistakes m
		LEFT JOIN words w ON w.id = m.word_id
		WHERE m.user_id = $1
		ORDER BY m.mistakes DESC, m.last_practiced_at ASC, m.word_id ASC
		LIMIT NULLIF($2, 0)
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list mistakes: %w", err)
	}
	defer rows.Close()

	var entries []*entities.MistakeEntry
	for rows.Next() {
		var e entities.MistakeEntry
		if err := rows.Scan(
			&e.UserID,
			&e.WordID,
			&e.Mistakes,
			&e.CreatedAt,
			&e.LastPracticedAt,
			&e.Word,
			&e.Translation,
			&e.Example,
		); err != nil {
			return nil, fmt.Errorf("scan mistake: %w", err)
		}
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}
