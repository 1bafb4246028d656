package handler

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"goeha/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

var btnMarkHard = tele.Btn{
	Unique: "mark_hard",
	Text:   "🔥 Mark hard",
}

// markHardMarkup offers Next and marking the missed card hard
func markHardMarkup(w domain.Word) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(
		btnNext,
		markup.Data(btnMarkHard.Text, btnMarkHard.Unique, fmt.Sprint(w.ID)),
	))
	return markup
}

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	// Already edited by another callback
	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		return c.Respond()
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// handleCallback routes callbacks that reached the generic endpoint
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	// Clean data from all non-printable characters
	data := cleanCallbackData(callback.Data)
	unique := cleanCallbackData(callback.Unique)
	if unique == "" {
		// Buttons without a unique part carry the route in the data
		unique, data, _ = strings.Cut(data, "|")
	}

	h.logger.Debug("handleCallback: Processing callback",
		zap.String("unique", unique),
		zap.String("data", data),
		zap.Int64("user_id", c.Sender().ID),
	)

	switch unique {
	case btnAddWord.Unique:
		return h.handleAddWord(c)
	case btnListWords.Unique:
		return h.handleListWords(c)
	case btnDrillAll.Unique:
		return h.handleDrillAll(c)
	case btnDrillHard.Unique:
		return h.handleDrillHard(c)
	case btnSkipExample.Unique:
		return h.handleSkipExample(c)
	case btnNext.Unique:
		return h.handleNext(c)
	case btnMarkHard.Unique:
		return h.markHard(c, data)
	case btnCancel.Unique:
		return h.handleCancel(c)
	case btnMainMenu.Unique:
		return h.handleStart(c)
	}

	h.logger.Warn("Unhandled callback in handleCallback",
		zap.String("data", data),
		zap.String("unique", unique),
	)
	return c.Respond()
}

// handleMarkHard marks the word behind a missed card as hard
func (h *Handler) handleMarkHard(c tele.Context) error {
	return h.markHard(c, cleanCallbackData(c.Callback().Data))
}

func (h *Handler) markHard(c tele.Context, data string) error {
	id, err := parseID(data)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown word"})
	}

	hard := domain.HardnessHard
	if err := h.wordService.EditWord(context.Background(), id, domain.WordPatch{Hardness: &hard}); err != nil {
		h.logger.Warn("Failed to mark word hard", zap.Int64("word_id", id), zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Could not update the word"})
	}
	return c.Respond(&tele.CallbackResponse{Text: "Marked hard 🔥"})
}

// handleCancel cancels current operation and resets state
func (h *Handler) handleCancel(c tele.Context) error {
	userID := c.Sender().ID

	h.stopDrill(userID)
	h.ResetState(userID)

	if err := c.Edit(msgMainMenu, mainMenuMarkup()); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
		return c.Send(msgMainMenu, mainMenuMarkup())
	}
	return c.Respond()
}
