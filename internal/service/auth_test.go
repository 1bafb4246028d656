package service

import (
	"context"
	"errors"
	"testing"

	"goeha/internal/repository"
	"goeha/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestAuthService_Authorized(t *testing.T) {
	dbErr := repository.Wrap("check user", errors.New("db error"))

	tests := []struct {
		name           string
		authorized     bool
		checkErr       error
		expectRegister bool
		registerErr    error
		expected       bool
		expectError    bool
	}{
		{name: "authorized user", authorized: true, expected: true},
		{name: "known user without access"},
		{name: "first contact registers", checkErr: repository.ErrUserNotFound, expectRegister: true},
		{
			name:           "register fails",
			checkErr:       repository.ErrUserNotFound,
			expectRegister: true,
			registerErr:    errors.New("disk full"),
			expectError:    true,
		},
		{name: "lookup fails", checkErr: dbErr, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(testutil.MockUserRepository)
			users.On("IsAuthorized", mock.Anything, int64(42)).Return(tt.authorized, tt.checkErr)
			if tt.expectRegister {
				users.On("Register", mock.Anything, int64(42)).Return(tt.registerErr)
			}

			ok, err := NewAuthService(users, "secret", zap.NewNop()).Authorized(context.Background(), 42)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, ok)
			users.AssertExpectations(t)
			if !tt.expectRegister {
				users.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
			}
		})
	}

	t.Run("persistence errors stay recognizable", func(t *testing.T) {
		users := new(testutil.MockUserRepository)
		users.On("IsAuthorized", mock.Anything, int64(42)).Return(false, dbErr)

		_, err := NewAuthService(users, "secret", zap.NewNop()).Authorized(context.Background(), 42)

		assert.True(t, repository.IsPersistence(err))
	})
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name            string
		configured      string
		input           string
		authorizeErr    error
		expectAuthorize bool
		expected        bool
		expectError     bool
	}{
		{name: "correct password", configured: "secret123", input: "secret123", expectAuthorize: true, expected: true},
		{name: "wrong password", configured: "secret123", input: "wrong"},
		{name: "case sensitive", configured: "Secret123", input: "secret123"},
		{name: "prefix only", configured: "secret123", input: "secret"},
		{name: "no password configured", configured: "", input: ""},
		{
			name:            "authorize fails",
			configured:      "secret123",
			input:           "secret123",
			authorizeErr:    errors.New("db error"),
			expectAuthorize: true,
			expectError:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(testutil.MockUserRepository)
			if tt.expectAuthorize {
				users.On("Authorize", mock.Anything, int64(7)).Return(tt.authorizeErr)
			}

			ok, err := NewAuthService(users, tt.configured, zap.NewNop()).Login(context.Background(), 7, tt.input)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, ok)
			users.AssertExpectations(t)
		})
	}
}

func TestAuthService_AuthorizedUsers(t *testing.T) {
	users := new(testutil.MockUserRepository)
	users.On("ListAuthorized", mock.Anything).Return([]int64{1, 2}, nil)

	ids, err := NewAuthService(users, "secret", zap.NewNop()).AuthorizedUsers(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)
	users.AssertExpectations(t)
}
