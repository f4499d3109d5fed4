package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/vocab-quest/internal/domain/entities"
)

// Commands is the menu registered with Telegram on startup.
var Commands = []tgbotapi.BotCommand{
	{
		Command:     "progress",
		Description: "Показать уровень и опыт",
	},
	{
		Command:     "mistakes",
		Description: "Слова для повторения",
	},
	{
		Command:     "clear",
		Description: "Очистить список ошибок",
	},
	{
		Command:     "help",
		Description: "Помощь",
	},
}

type Handler struct {
	bot             Bot
	logger          *zap.Logger
	userService     UserService
	progressService ProgressService
	mistakeService  MistakeService
}

func NewHandler(
	bot Bot,
	logger *zap.Logger,
	userService UserService,
	progressService ProgressService,
	mistakeService MistakeService,
) *Handler {
	return &Handler{
		bot:             bot,
		logger:          logger,
		userService:     userService,
		progressService: progressService,
		mistakeService:  mistakeService,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	if _, err := h.bot.Request(tgbotapi.NewSetMyCommands(Commands...)); err != nil {
		h.logger.Warn("failed to set bot commands", zap.Error(err))
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("telegram_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID
	from := update.Message.From

	if !update.Message.IsCommand() {
		h.send(newHTMLMessage(chatID, msgHelp))
		return
	}

	switch update.Message.Command() {
	case "start", "help":
		h.send(newHTMLMessage(chatID, msgHelp))

	case "progress":
		_ = h.withErrorHandling(h.withUser(from.ID, h.progressHandler))(ctx, chatID)

	case "mistakes":
		_ = h.withErrorHandling(h.withUser(from.ID, h.mistakesHandler))(ctx, chatID)

	case "clear":
		_ = h.withErrorHandling(h.withUser(from.ID, h.clearPromptHandler))(ctx, chatID)

	default:
		h.send(newHTMLMessage(chatID, msgUnknownCommand))
	}
}

// resolveUser maps the Telegram account to a learner. It reports ok=false
// and tells the user when the account is not linked.
func (h *Handler) resolveUser(ctx context.Context, telegramID, chatID int64) (int64, bool, error) {
	u, err := h.userService.ResolveTelegramUser(ctx, telegramID)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			h.send(newHTMLMessage(chatID, msgNotLinked))
			return 0, false, nil
		}
		return 0, false, err
	}
	return u.ID, true, nil
}

func (h *Handler) sendError(chatID int64, err string) {
	msg := newHTMLMessage(chatID, err)
	h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}

// answerCallback removes the loading indicator on the pressed button.
func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Warn("callback answer error", zap.Error(err))
	}
}
