package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/vocab-quest/internal/domain/entities"
	"github.com/aliskhannn/vocab-quest/internal/infra/postgres"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository reads learner accounts owned by the identity service.
type UserRepository struct {
	db postgres.DBTX
}

// NewUserRepository creates a new UserRepository with the provided database pool.
func NewUserRepository(db postgres.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// GetByTelegramID retrieves the account linked to a Telegram user.
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*entities.User, error) {
	query := `
		SELECT id, telegram_id, username
		FROM users
		WHERE telegram_id = $1
	`

	var user entities.User
	err := r.db.QueryRow(ctx, query, telegramID).Scan(
		&user.ID,
		&user.TelegramID,
		&user.Username,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by telegram id: %w", err)
	}

	return &user, nil
}
