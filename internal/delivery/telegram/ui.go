package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/vocab-quest/internal/domain/entities"
)

// buildProgressKeyboard builds keyboard for progress screen.
func buildProgressKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Обновить", buildProgressCallback()),
			tgbotapi.NewInlineKeyboardButtonData("📝 Ошибки", buildMistakesCallback()),
		),
	)
}

// buildMistakesKeyboard puts a "learned" button under every listed word.
func buildMistakesKeyboard(list []*entities.MistakeEntry) *tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(list)+1)
	for i, m := range list {
		label := fmt.Sprintf("✅ %d. Выучено", i+1)
		if m.Word != "" {
			label = fmt.Sprintf("✅ %s", m.Word)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildLearnedCallback(m.WordID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🧹 Очистить всё", buildClearCallback(clearPrompt)),
	))

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// buildClearKeyboard asks to confirm clearing the queue.
func buildClearKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Да, очистить", buildClearCallback(clearConfirm)),
			tgbotapi.NewInlineKeyboardButtonData("Отмена", buildClearCallback(clearCancel)),
		),
	)
}
