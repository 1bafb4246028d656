package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"goeha/internal/domain"
	"goeha/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// maxMessageLen stays under the Telegram limit of 4096 characters
const maxMessageLen = 4000

var errUsageEdit = errors.New("usage: /edit <id> <field>=<value>, field is word, meaning, example or hardness")

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	state := h.GetState(userID)

	switch state.State {
	case domain.StateDrilling:
		return h.submitAnswer(c, userID, text)

	case domain.StateWaitingMeaning:
		h.SetState(userID, &domain.StateData{
			State:          domain.StateWaitingExample,
			CurrentWord:    state.CurrentWord,
			CurrentMeaning: text,
		})

		markup := &tele.ReplyMarkup{}
		markup.Inline(markup.Row(btnSkipExample, btnCancel))
		return c.Send("Send an example sentence or skip", markup)

	case domain.StateWaitingExample:
		return h.saveWord(c, userID, state, text)

	default:
		// Idle or waiting for a word: the text is the new word
		h.SetState(userID, &domain.StateData{
			State:       domain.StateWaitingMeaning,
			CurrentWord: text,
		})
		return c.Send(fmt.Sprintf("Send the meaning of %q, separate alternatives with commas", text), cancelMarkup())
	}
}

// handleAddWord starts the add word flow
func (h *Handler) handleAddWord(c tele.Context) error {
	h.SetState(c.Sender().ID, &domain.StateData{State: domain.StateWaitingWord})
	if err := c.Respond(); err != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}
	return c.Send("Send the English word", cancelMarkup())
}

// handleSkipExample saves the pending word without an example
func (h *Handler) handleSkipExample(c tele.Context) error {
	userID := c.Sender().ID
	state := h.GetState(userID)
	if err := c.Respond(); err != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}
	if state.State != domain.StateWaitingExample {
		return nil
	}
	return h.saveWord(c, userID, state, "")
}

func (h *Handler) saveWord(c tele.Context, userID int64, state *domain.StateData, example string) error {
	id, err := h.wordService.AddWord(context.Background(), domain.WordFields{
		Word:    state.CurrentWord,
		Meaning: state.CurrentMeaning,
		Example: example,
	})
	if err != nil {
		h.ResetState(userID)
		if service.IsValidationError(err) {
			return c.Send(fmt.Sprintf("Not saved: %v", err), mainMenuMarkup())
		}
		h.logger.Error("Failed to save word",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return c.Send("Could not save the word. Try again.", mainMenuMarkup())
	}

	// Wait for the next word
	h.SetState(userID, &domain.StateData{State: domain.StateWaitingWord})

	return c.Send(fmt.Sprintf("✅ Saved #%d\n\nSend the next word or go back to /start", id), cancelMarkup())
}

// handleListWords shows all stored words
func (h *Handler) handleListWords(c tele.Context) error {
	if c.Callback() != nil {
		if err := c.Respond(); err != nil {
			h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
		}
	}

	words, err := h.wordService.ListWords(context.Background(), domain.WordFilter{})
	if err != nil {
		h.logger.Error("Failed to list words", zap.Error(err))
		return c.Send(msgError)
	}
	if len(words) == 0 {
		return c.Send("You have no saved words yet", mainMenuMarkup())
	}

	chunks := formatWordList(words)
	for i, chunk := range chunks {
		if i == len(chunks)-1 {
			return c.Send(chunk, mainMenuMarkup())
		}
		if err := c.Send(chunk); err != nil {
			return err
		}
	}
	return nil
}

// handleDelete handles /delete <id>
func (h *Handler) handleDelete(c tele.Context) error {
	id, err := parseID(c.Message().Payload)
	if err != nil {
		return c.Send("Usage: /delete <id>")
	}

	if err := h.wordService.DeleteWord(context.Background(), id); err != nil {
		return h.sendWordError(c, id, err)
	}
	return c.Send(fmt.Sprintf("🗑 Deleted #%d", id))
}

// handleHard handles /hard <id>
func (h *Handler) handleHard(c tele.Context) error {
	id, err := parseID(c.Message().Payload)
	if err != nil {
		return c.Send("Usage: /hard <id>")
	}

	hardness, err := h.wordService.ToggleHard(context.Background(), id)
	if err != nil {
		return h.sendWordError(c, id, err)
	}
	if hardness == domain.HardnessHard {
		return c.Send(fmt.Sprintf("🔥 #%d marked hard", id))
	}
	return c.Send(fmt.Sprintf("#%d is no longer hard", id))
}

// handleEdit handles /edit <id> <field>=<value>
func (h *Handler) handleEdit(c tele.Context) error {
	id, patch, err := parseEditArgs(c.Message().Payload)
	if err != nil {
		return c.Send(err.Error())
	}

	if err := h.wordService.EditWord(context.Background(), id, patch); err != nil {
		return h.sendWordError(c, id, err)
	}
	return c.Send(fmt.Sprintf("✏️ Updated #%d", id))
}

// handleStats handles /stats
func (h *Handler) handleStats(c tele.Context) error {
	summary, err := h.statsService.Summary(context.Background())
	if err != nil {
		h.logger.Error("Failed to load stats", zap.Error(err))
		return c.Send(msgError)
	}
	return c.Send(fmt.Sprintf("📊 Words: %d\n🔥 Hard: %d\nNormal: %d", summary.Total, summary.Hard, summary.Normal()))
}

func (h *Handler) sendWordError(c tele.Context, id int64, err error) error {
	switch {
	case errors.Is(err, service.ErrWordNotFound):
		return c.Send(fmt.Sprintf("No word with id %d", id))
	case service.IsValidationError(err):
		return c.Send(fmt.Sprintf("Rejected: %v", err))
	default:
		h.logger.Error("Word operation failed", zap.Int64("word_id", id), zap.Error(err))
		return c.Send(msgError)
	}
}

func parseID(payload string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(payload), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid word id %q", payload)
	}
	return id, nil
}

// parseEditArgs parses "<id> <field>=<value>". The value runs to the end of
// the payload so meanings may contain spaces and commas.
func parseEditArgs(payload string) (int64, domain.WordPatch, error) {
	idPart, assignment, ok := strings.Cut(strings.TrimSpace(payload), " ")
	if !ok {
		return 0, domain.WordPatch{}, errUsageEdit
	}
	id, err := parseID(idPart)
	if err != nil {
		return 0, domain.WordPatch{}, errUsageEdit
	}

	field, value, ok := strings.Cut(strings.TrimSpace(assignment), "=")
	if !ok {
		return 0, domain.WordPatch{}, errUsageEdit
	}
	value = strings.TrimSpace(value)

	var patch domain.WordPatch
	switch strings.ToLower(strings.TrimSpace(field)) {
	case "word":
		patch.Word = &value
	case "meaning":
		patch.Meaning = &value
	case "example":
		patch.Example = &value
	case "hardness":
		hardness, err := strconv.Atoi(value)
		if err != nil {
			return 0, domain.WordPatch{}, errUsageEdit
		}
		patch.Hardness = &hardness
	default:
		return 0, domain.WordPatch{}, errUsageEdit
	}
	return id, patch, nil
}

func formatWord(w domain.Word) string {
	line := fmt.Sprintf("#%d %s — %s", w.ID, w.Word, w.Meaning)
	if w.IsHard() {
		line += " 🔥"
	}
	if w.Example != "" {
		line += "\n    " + w.Example
	}
	return line
}

// formatWordList renders words as messages that fit the size limit
func formatWordList(words []domain.Word) []string {
	var chunks []string
	var b strings.Builder
	for _, w := range words {
		line := formatWord(w) + "\n"
		if b.Len() > 0 && b.Len()+len(line) > maxMessageLen {
			chunks = append(chunks, b.String())
			b.Reset()
		}
		b.WriteString(line)
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}
