package telegram

import (
	"context"

	"go.uber.org/zap"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// UserHandlerFunc runs on behalf of a resolved learner.
type UserHandlerFunc func(ctx context.Context, chatID, userID int64) error

func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := fn(ctx, chatID); err != nil {
			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.sendError(chatID, msgInternalError)
			return nil
		}
		return nil
	}
}

func (h *Handler) withUser(telegramID int64, fn UserHandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		userID, ok, err := h.resolveUser(ctx, telegramID, chatID)
		if err != nil || !ok {
			return err
		}
		return fn(ctx, chatID, userID)
	}
}
