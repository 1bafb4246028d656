package middleware

import (
	"context"
	"strings"

	"goeha/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	msgError         = "Something went wrong. Try again later."
	msgPasswordAsk   = "Hi! This bot is private. Send the password to continue:"
	msgWrongPassword = "Wrong password"
)

// AuthMiddleware gates every update behind the bot password. A correct
// password sent as plain text authorizes the user and hands over to
// onAuthorized.
func AuthMiddleware(authService *service.AuthService, onAuthorized tele.HandlerFunc, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil {
				return nil
			}
			userID := c.Sender().ID
			ctx := context.Background()

			authorized, err := authService.Authorized(ctx, userID)
			if err != nil {
				logger.Error("Failed to check authorization", zap.Int64("user_id", userID), zap.Error(err))
				return c.Send(msgError)
			}
			if authorized {
				return next(c)
			}

			if c.Callback() != nil {
				return c.Respond(&tele.CallbackResponse{Text: msgPasswordAsk, ShowAlert: true})
			}

			text := strings.TrimSpace(c.Text())
			if strings.HasPrefix(text, "/") {
				return c.Send(msgPasswordAsk)
			}
			ok, err := authService.Login(ctx, userID, text)
			if err != nil {
				logger.Error("Failed to authorize user", zap.Int64("user_id", userID), zap.Error(err))
				return c.Send(msgError)
			}
			if !ok {
				return c.Send(msgWrongPassword)
			}
			return onAuthorized(c)
		}
	}
}
