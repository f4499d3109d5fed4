package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/vocab-quest/internal/domain/entities"
	"github.com/aliskhannn/vocab-quest/internal/infra/postgres"
)

var ErrSessionNotFound = errors.New("game session not found")

// SessionRepository appends and reads game session history.
type SessionRepository struct {
	db postgres.DBTX
}

// NewSessionRepository creates a new SessionRepository with the provided pool or transaction.
func NewSessionRepository(db postgres.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create appends a session row. It returns false, leaving s untouched, when
// a row with the same token already exists.
func (r *SessionRepository) Create(ctx context.Context, s *entities.GameSession) (bool, error) {
	query := `
		INSERT INTO game_sessions (
			session_token, user_id, game_type, total_questions, correct_answers,
			words_learned, time_spent_seconds, xp_earned, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (session_token) DO NOTHING
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx,
		query,
		s.Token,
		s.UserID,
		s.GameType,
		s.TotalQuestions,
		s.CorrectAnswers,
		s.WordsLearned,
		s.TimeSpentSeconds,
		s.XPEarned,
		s.CreatedAt,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("create game session: %w", err)
	}

	return true, nil
}

// GetByToken retrieves the session recorded under an idempotency token.
func (r *SessionRepository) GetByToken(ctx context.Context, token uuid.UUID) (*entities.GameSession, error) {
	query := `
		SELECT id, session_token, user_id, game_type, total_questions, correct_answers,
		       words_learned, time_spent_seconds, xp_earned, created_at
		FROM game_sessions
		WHERE session_token = $1
	`

	s, err := scanSession(r.db.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get game session: %w", err)
	}

	return s, nil
}

// ListByUser returns the most recent sessions of a user, newest first.
func (r *SessionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.GameSession, error) {
	query := `
		SELECT id, session_token, user_id, game_type, total_questions, correct_answers,
		       words_learned, time_spent_seconds, xp_earned, created_at
		FROM game_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list game sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*entities.GameSession, 0, limit)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

func scanSession(row pgx.Row) (*entities.GameSession, error) {
	var s entities.GameSession
	err := row.Scan(
		&s.ID,
		&s.Token,
		&s.UserID,
		&s.GameType,
		&s.TotalQuestions,
		&s.CorrectAnswers,
		&s.WordsLearned,
		&s.TimeSpentSeconds,
		&s.XPEarned,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
