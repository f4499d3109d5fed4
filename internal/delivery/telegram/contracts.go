package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/vocab-quest/internal/domain/entities"
)

type UserService interface {
	ResolveTelegramUser(ctx context.Context, telegramID int64) (*entities.User, error)
}

type ProgressService interface {
	GetProgress(ctx context.Context, userID int64) (*entities.ProgressSummary, error)
}

type MistakeService interface {
	List(ctx context.Context, userID int64) ([]*entities.MistakeEntry, error)
	Remove(ctx context.Context, userID, wordID int64) (bool, error)
	ClearAll(ctx context.Context, userID int64) (int64, error)
}

// Bot is the part of *tgbotapi.BotAPI the handler uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}
