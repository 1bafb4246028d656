package repository

import (
	"context"

	"goeha/internal/domain"
)

// UserRepository stores who passed the bot password gate
type UserRepository interface {
	// Register records a chat user, keeping the access flag of known users
	Register(ctx context.Context, userID int64) error
	// IsAuthorized returns ErrUserNotFound for unknown users
	IsAuthorized(ctx context.Context, userID int64) (bool, error)
	Authorize(ctx context.Context, userID int64) error
	ListAuthorized(ctx context.Context) ([]int64, error)
}

// WordRepository defines word data operations.
// Every call is its own atomic unit and is durable once it returns.
type WordRepository interface {
	// Create persists a new word and returns its id
	Create(ctx context.Context, fields domain.WordFields) (int64, error)
	// ReadAll returns words matching filter, the zero filter matches everything
	ReadAll(ctx context.Context, filter domain.WordFilter) ([]domain.Word, error)
	// Update overwrites the set fields of patch and returns the number of changed rows
	Update(ctx context.Context, id int64, patch domain.WordPatch) (int64, error)
	// Delete removes a word and returns the number of removed rows
	Delete(ctx context.Context, id int64) (int64, error)
}
