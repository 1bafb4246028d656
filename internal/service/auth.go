package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"goeha/internal/repository"

	"go.uber.org/zap"
)

// AuthService keeps the bot private behind a shared password
type AuthService struct {
	users    repository.UserRepository
	password []byte
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users repository.UserRepository, password string, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		password: []byte(password),
		logger:   logger,
	}
}

// Authorized reports whether the user already passed the password gate.
// Unknown users are registered on first contact.
func (s *AuthService) Authorized(ctx context.Context, userID int64) (bool, error) {
	ok, err := s.users.IsAuthorized(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		if err := s.users.Register(ctx, userID); err != nil {
			return false, fmt.Errorf("register %d: %w", userID, err)
		}
		s.logger.Info("New user", zap.Int64("user_id", userID))
		return false, nil
	case err != nil:
		return false, fmt.Errorf("check %d: %w", userID, err)
	}
	return ok, nil
}

// Login grants access when password matches. An empty configured
// password never matches.
func (s *AuthService) Login(ctx context.Context, userID int64, password string) (bool, error) {
	if len(s.password) == 0 || subtle.ConstantTimeCompare([]byte(password), s.password) != 1 {
		s.logger.Info("Rejected password", zap.Int64("user_id", userID))
		return false, nil
	}
	if err := s.users.Authorize(ctx, userID); err != nil {
		return false, fmt.Errorf("authorize %d: %w", userID, err)
	}
	s.logger.Info("User authorized", zap.Int64("user_id", userID))
	return true, nil
}

// AuthorizedUsers returns ids of all authorized users
func (s *AuthService) AuthorizedUsers(ctx context.Context) ([]int64, error) {
	return s.users.ListAuthorized(ctx)
}
