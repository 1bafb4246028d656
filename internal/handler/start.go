package handler

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	msgMainMenu = "🏠 Main menu\n\nChoose an action:"
	msgError    = "Something went wrong. Try again later."
)

// handleStart shows the main menu. Authorization is checked by the middleware.
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("User opened main menu",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	h.stopDrill(userID)
	h.ResetState(userID)
	if c.Callback() != nil {
		if err := c.Edit(msgMainMenu, mainMenuMarkup()); err != nil {
			if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
				return nil
			}
			return c.Send(msgMainMenu, mainMenuMarkup())
		}
		return c.Respond()
	}
	return c.Send(msgMainMenu, mainMenuMarkup())
}
