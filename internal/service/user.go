package service

import (
	"context"
	"errors"

	"github.com/aliskhannn/vocab-quest/internal/domain/entities"
	"github.com/aliskhannn/vocab-quest/internal/infra/postgres/repository"
)

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// ResolveTelegramUser maps a Telegram account to the learner it is linked to.
func (s *UserService) ResolveTelegramUser(ctx context.Context, telegramID int64) (*entities.User, error) {
	if telegramID == 0 {
		return nil, entities.MissingField("telegram_id")
	}

	u, err := s.repo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, entities.ErrNotFound
		}
		return nil, entities.Persistence("resolve telegram user", err)
	}

	return u, nil
}
