package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/vocab-quest/internal/domain/entities"
)

func (h *Handler) mistakesHandler(ctx context.Context, chatID, userID int64) error {
	text, kb, err := h.renderMistakes(ctx, userID)
	if err != nil {
		return err
	}

	msg := newHTMLMessage(chatID, text)
	if kb != nil {
		msg.ReplyMarkup = kb
	}
	h.send(msg)
	return nil
}

func (h *Handler) clearPromptHandler(_ context.Context, chatID, _ int64) error {
	msg := newHTMLMessage(chatID, msgClearPrompt)
	msg.ReplyMarkup = buildClearKeyboard()
	h.send(msg)
	return nil
}

// renderMistakes shows the head of the practice queue with one
// "learned" button per word.
func (h *Handler) renderMistakes(ctx context.Context, userID int64) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	list, err := h.mistakeService.List(ctx, userID)
	if err != nil {
		return "", nil, fmt.Errorf("list mistakes: %w", err)
	}

	if len(list) == 0 {
		return msgNoMistakes, nil, nil
	}

	shown := list[:min(len(list), mistakesShown)]
	return formatMistakes(shown, len(list)), buildMistakesKeyboard(shown), nil
}

func formatMistakes(list []*entities.MistakeEntry, total int) string {
	var sb strings.Builder

	sb.WriteString("<b>📝 Слова для повторения</b>\n\n")
	for i, m := range list {
		word := m.Word
		if word == "" {
			word = fmt.Sprintf("#%d", m.WordID)
		}

		fmt.Fprintf(&sb, "%d. <b>%s</b>", i+1, esc(word))
		if m.Translation != "" {
			fmt.Fprintf(&sb, " — %s", esc(m.Translation))
		}
		fmt.Fprintf(&sb, " (ошибок: %d)\n", m.Mistakes)

		if m.Example != "" {
			fmt.Fprintf(&sb, "<i>%s</i>\n", esc(m.Example))
		}
	}

	if total > len(list) {
		fmt.Fprintf(&sb, "\n…и ещё %d", total-len(list))
	}

	return sb.String()
}
