package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"goeha/internal/repository"

	"github.com/jmoiron/sqlx"
)

// UserRepo implements repository.UserRepository on SQLite
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Register(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO users (user_id, authorized) VALUES (?, FALSE)`, userID)
	return repository.Wrap("register user", err)
}

func (r *UserRepo) IsAuthorized(ctx context.Context, userID int64) (bool, error) {
	var authorized bool
	err := r.db.GetContext(ctx, &authorized, `SELECT authorized FROM users WHERE user_id = ?`, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, repository.ErrUserNotFound
	case err != nil:
		return false, repository.Wrap("check user", err)
	}
	return authorized, nil
}

// Authorize upserts the user with access granted
func (r *UserRepo) Authorize(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (user_id, authorized) VALUES (?, TRUE)
		ON CONFLICT (user_id) DO UPDATE SET authorized = TRUE
	`, userID)
	return repository.Wrap("authorize user", err)
}

func (r *UserRepo) ListAuthorized(ctx context.Context) ([]int64, error) {
	ids := []int64{}
	if err := r.db.SelectContext(ctx, &ids, `SELECT user_id FROM users WHERE authorized = TRUE ORDER BY user_id`); err != nil {
		return nil, repository.Wrap("list users", err)
	}
	return ids, nil
}
