package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"goeha/internal/domain"
	"goeha/internal/drill"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

type chatDrill struct {
	driver *drill.Driver
	cancel context.CancelFunc
}

// handleDrillAll starts a drill over every word
func (h *Handler) handleDrillAll(c tele.Context) error {
	return h.handleDrill(c, false)
}

// handleDrillHard starts a drill over hard words only
func (h *Handler) handleDrillHard(c tele.Context) error {
	return h.handleDrill(c, true)
}

func (h *Handler) handleDrill(c tele.Context, hardOnly bool) error {
	userID := c.Sender().ID
	if c.Callback() != nil {
		if err := c.Respond(); err != nil {
			h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
		}
	}

	if h.drillRunning(userID) {
		return c.Send("A drill is already running. Answer the card or /stop it.")
	}

	words, err := h.drillService.LoadWords(context.Background(), hardOnly)
	if err != nil {
		h.logger.Error("Failed to load drill words", zap.Error(err))
		return c.Send(msgError)
	}

	intro := "🎯 Drill"
	if hardOnly {
		intro = "🔥 Hard words drill"
	}
	return h.startDrill(userID, words, intro)
}

// SendSurprise starts a one-card drill for an idle user. It reports false
// when the user is busy.
func (h *Handler) SendSurprise(userID int64, word domain.Word) (bool, error) {
	if h.GetState(userID).State != domain.StateIdle || h.drillRunning(userID) {
		return false, nil
	}
	if err := h.startDrill(userID, []domain.Word{word}, "⏰ Surprise quiz"); err != nil {
		return false, err
	}
	return true, nil
}

func (h *Handler) startDrill(userID int64, words []domain.Word, intro string) error {
	ctx, cancel := context.WithCancel(context.Background())
	d := h.drillService.NewDriver(h.drillListener(userID, intro))
	cd := &chatDrill{driver: d, cancel: cancel}

	h.drillMux.Lock()
	h.drills[userID] = cd
	h.drillMux.Unlock()
	h.SetState(userID, &domain.StateData{State: domain.StateDrilling})

	go func() {
		d.Run(ctx)
		h.finishDrill(userID, cd)
	}()

	if err := d.Start(words); err != nil {
		h.finishDrill(userID, cd)
		return fmt.Errorf("failed to start drill: %w", err)
	}

	h.logger.Info("Drill started",
		zap.Int64("user_id", userID),
		zap.Int("words", len(words)),
	)
	return nil
}

// finishDrill forgets cd if it is still the chat's drill
func (h *Handler) finishDrill(userID int64, cd *chatDrill) {
	cd.cancel()

	h.drillMux.Lock()
	current, ok := h.drills[userID]
	if ok && current == cd {
		delete(h.drills, userID)
	}
	h.drillMux.Unlock()

	if ok && current == cd && h.GetState(userID).State == domain.StateDrilling {
		h.ResetState(userID)
	}
}

func (h *Handler) currentDrill(userID int64) *chatDrill {
	h.drillMux.Lock()
	defer h.drillMux.Unlock()
	return h.drills[userID]
}

func (h *Handler) drillRunning(userID int64) bool {
	return h.currentDrill(userID) != nil
}

func (h *Handler) stopDrill(userID int64) bool {
	cd := h.currentDrill(userID)
	if cd == nil {
		return false
	}
	h.finishDrill(userID, cd)
	return true
}

// StopDrills cancels every running chat drill and waits for the drivers to
// exit or ctx to end. It returns how many drills were stopped.
func (h *Handler) StopDrills(ctx context.Context) int {
	h.drillMux.Lock()
	running := make(map[int64]*chatDrill, len(h.drills))
	for userID, cd := range h.drills {
		running[userID] = cd
	}
	h.drillMux.Unlock()

	for userID, cd := range running {
		h.finishDrill(userID, cd)
	}
	for userID, cd := range running {
		select {
		case <-cd.driver.Done():
		case <-ctx.Done():
			h.logger.Warn("Drill did not stop in time", zap.Int64("user_id", userID))
			return len(running)
		}
	}
	return len(running)
}

func (h *Handler) submitAnswer(c tele.Context, userID int64, text string) error {
	cd := h.currentDrill(userID)
	if cd == nil {
		h.ResetState(userID)
		return c.Send("The drill has ended", mainMenuMarkup())
	}

	if err := cd.driver.Submit(text); err != nil {
		if errors.Is(err, drill.ErrDriverStopped) {
			h.finishDrill(userID, cd)
			return c.Send("The drill has ended", mainMenuMarkup())
		}
		return err
	}
	return nil
}

// handleNext moves past a missed card
func (h *Handler) handleNext(c tele.Context) error {
	userID := c.Sender().ID
	if err := c.Respond(); err != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}

	cd := h.currentDrill(userID)
	if cd == nil {
		return nil
	}
	if err := cd.driver.Advance(); err != nil && !errors.Is(err, drill.ErrDriverStopped) {
		return err
	}
	return nil
}

// handleStop handles /stop
func (h *Handler) handleStop(c tele.Context) error {
	if !h.stopDrill(c.Sender().ID) {
		return c.Send("No drill is running")
	}
	return c.Send("Drill stopped", mainMenuMarkup())
}

// drillListener turns driver events into chat messages. It runs on the
// driver goroutine.
func (h *Handler) drillListener(userID int64, intro string) drill.Listener {
	to := &tele.User{ID: userID}
	return func(e drill.Event) {
		text, markup := renderEvent(e, intro)
		if text == "" {
			return
		}

		var err error
		if markup != nil {
			_, err = h.sender.Send(to, text, markup)
		} else {
			_, err = h.sender.Send(to, text)
		}
		if err != nil {
			h.logger.Warn("Failed to send drill message",
				zap.Int64("user_id", userID),
				zap.String("event", e.Type.String()),
				zap.Error(err),
			)
		}
	}
}

func renderEvent(e drill.Event, intro string) (string, *tele.ReplyMarkup) {
	switch e.Type {
	case drill.EventStarted:
		return fmt.Sprintf("%s: %d words\n\n%s", intro, e.Total, prompt(e.Next)), nil

	case drill.EventNothingToDrill:
		return "Nothing to drill yet, add some words first", mainMenuMarkup()

	case drill.EventCorrect:
		var b strings.Builder
		b.WriteString("✅ Correct")
		if e.Verdict.Corrected != "" {
			b.WriteString(": " + e.Verdict.Corrected)
		}
		if e.Verdict.Feedback != "" {
			b.WriteString("\n" + e.Verdict.Feedback)
		}
		b.WriteString(fmt.Sprintf("\n%s", progress(e)))
		if e.Next != nil {
			b.WriteString("\n\n" + prompt(e.Next))
		}
		return b.String(), nil

	case drill.EventIncorrect:
		var b strings.Builder
		b.WriteString(fmt.Sprintf("❌ %s — %s", e.Word.Word, e.Word.Meaning))
		if e.Word.Example != "" {
			b.WriteString("\n" + e.Word.Example)
		}
		if e.Verdict.Feedback != "" {
			b.WriteString("\n" + e.Verdict.Feedback)
		}
		if e.Next != nil {
			// auto advance already moved on
			b.WriteString("\n\n" + prompt(e.Next))
			return b.String(), nil
		}
		return b.String(), markHardMarkup(e.Word)

	case drill.EventNext:
		return prompt(e.Next), nil

	case drill.EventComplete:
		return fmt.Sprintf("🏁 Done! %d words, %d mistakes", e.Total, e.Wrong), mainMenuMarkup()

	case drill.EventIgnored:
		return "Type the meaning of the word", nil

	case drill.EventBusy:
		return "Still checking your previous answer…", nil

	case drill.EventRejected:
		if e.Next != nil {
			// the card is still open, a stale Next press lands here
			return "Answer the card first\n\n" + prompt(e.Next), nil
		}
		markup := &tele.ReplyMarkup{}
		markup.Inline(markup.Row(btnNext))
		return "Press Next to continue", markup

	case drill.EventGradingFailed:
		return "Could not check the answer, try again", nil
	}
	return "", nil
}

func prompt(w *domain.Word) string {
	if w == nil {
		return ""
	}
	return fmt.Sprintf("❓ %s", w.Word)
}

func progress(e drill.Event) string {
	return fmt.Sprintf("%d/%d (%.0f%%)", e.Solved, e.Total, e.Progress*100)
}
