package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/vocab-quest/internal/domain/entities"
)

const progressBarLength = 20

func (h *Handler) progressHandler(ctx context.Context, chatID, userID int64) error {
	text, kb, err := h.renderProgress(ctx, userID)
	if err != nil {
		return err
	}

	msg := newHTMLMessage(chatID, text)
	msg.ReplyMarkup = kb
	h.send(msg)
	return nil
}

// renderProgress renders the progress screen. A learner without a single
// game gets an invitation instead of an error.
func (h *Handler) renderProgress(ctx context.Context, userID int64) (string, tgbotapi.InlineKeyboardMarkup, error) {
	kb := buildProgressKeyboard()

	summary, err := h.progressService.GetProgress(ctx, userID)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return msgNoProgress, kb, nil
		}
		return "", kb, fmt.Errorf("get progress: %w", err)
	}

	lp := summary.LevelProgress
	text := fmt.Sprintf(
		"<b>📊 Ваш прогресс</b>\n\n"+
			"🏅 <b>Уровень:</b> %d\n"+
			"%s %.1f%%\n"+
			"⭐ <b>Опыт:</b> %d / %d (ещё %d до уровня %d)\n\n"+
			"🎮 <b>Сыграно игр:</b> %d\n"+
			"✅ <b>Верных ответов:</b> %d\n"+
			"📚 <b>Выучено слов:</b> %d\n"+
			"🏆 <b>Достижений:</b> %d\n",
		lp.Level,
		buildProgressBar(int(lp.XPInCurrentLevel), int(lp.XPForNextLevel), progressBarLength),
		lp.ProgressPercent,
		lp.XPInCurrentLevel,
		lp.XPForNextLevel,
		lp.XPNeeded,
		lp.Level+1,
		summary.GamesPlayed,
		summary.CorrectAnswers,
		summary.WordsLearnedCount,
		summary.AchievementsCount,
	)

	return text, kb, nil
}

// buildProgressBar creates ASCII progress bar.
func buildProgressBar(current, total, length int) string {
	if total <= 0 {
		return fmt.Sprintf("[%s]", strings.Repeat("░", length))
	}

	filled := int(float64(current) / float64(total) * float64(length))
	filled = max(0, min(filled, length))

	empty := length - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return fmt.Sprintf("[%s]", bar)
}
