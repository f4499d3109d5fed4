package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID

	userID, ok, err := h.resolveUser(ctx, cb.From.ID, chatID)
	if err != nil {
		h.logger.Error("failed to resolve user", zap.Int64("telegram_id", cb.From.ID), zap.Error(err))
		h.answerCallback(cb.ID, msgInternalError)
		return
	}
	if !ok {
		h.answerCallback(cb.ID, "")
		return
	}

	data := decodeCallback(cb.Data)

	var (
		text   string
		kb     *tgbotapi.InlineKeyboardMarkup
		notice string
	)

	switch data.Action {
	case actionLearned:
		wordID, valid := data.parseWordID()
		if !valid {
			h.logger.Warn("invalid learned callback", zap.String("data", cb.Data))
			h.answerCallback(cb.ID, "")
			return
		}

		removed, err := h.mistakeService.Remove(ctx, userID, wordID)
		if err != nil {
			h.failCallback(cb, err)
			return
		}
		notice = msgMarkedLearned
		if !removed {
			notice = msgAlreadyRemoved
		}

		text, kb, err = h.renderMistakes(ctx, userID)
		if err != nil {
			h.failCallback(cb, err)
			return
		}

	case actionMistakes:
		text, kb, err = h.renderMistakes(ctx, userID)
		if err != nil {
			h.failCallback(cb, err)
			return
		}

	case actionProgress:
		var pkb tgbotapi.InlineKeyboardMarkup
		text, pkb, err = h.renderProgress(ctx, userID)
		if err != nil {
			h.failCallback(cb, err)
			return
		}
		kb = &pkb

	case actionClear:
		var sub string
		if len(data.Params) == 1 {
			sub = data.Params[0]
		}

		switch sub {
		case clearPrompt:
			text = msgClearPrompt
			ckb := buildClearKeyboard()
			kb = &ckb
		case clearConfirm:
			n, err := h.mistakeService.ClearAll(ctx, userID)
			if err != nil {
				h.failCallback(cb, err)
				return
			}
			text = fmt.Sprintf(msgClearDone, n)
		default:
			text = msgClearCancelled
		}

	default:
		h.answerCallback(cb.ID, "")
		return
	}

	edit := newHTMLEdit(chatID, msgID, text)
	if kb != nil {
		edit.ReplyMarkup = kb
	}

	h.send(edit)
	h.answerCallback(cb.ID, notice)
}

func (h *Handler) failCallback(cb *tgbotapi.CallbackQuery, err error) {
	h.logger.Error("callback failed",
		zap.String("data", cb.Data),
		zap.Error(err),
	)
	h.answerCallback(cb.ID, msgInternalError)
}
