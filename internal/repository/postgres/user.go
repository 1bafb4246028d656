package postgres

import (
	"context"
	"database/sql"
	"errors"

	"goeha/internal/repository"
)

// UserRepo implements repository.UserRepository on PostgreSQL
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Register inserts the user unless it is already known
func (r *UserRepo) Register(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (user_id, authorized) VALUES ($1, FALSE) ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	return repository.Wrap("register user", err)
}

// IsAuthorized reports the access flag of a user
func (r *UserRepo) IsAuthorized(ctx context.Context, userID int64) (bool, error) {
	var authorized bool
	err := r.db.QueryRowContext(ctx, `SELECT authorized FROM users WHERE user_id = $1`, userID).Scan(&authorized)
	if errors.Is(err, sql.ErrNoRows) {
		return false, repository.ErrUserNotFound
	}
	if err != nil {
		return false, repository.Wrap("check user", err)
	}
	return authorized, nil
}

// Authorize grants access, registering the user if needed
func (r *UserRepo) Authorize(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (user_id, authorized) VALUES ($1, TRUE)
		ON CONFLICT (user_id) DO UPDATE SET authorized = TRUE
	`, userID)
	return repository.Wrap("authorize user", err)
}

// ListAuthorized returns authorized user ids in ascending order
func (r *UserRepo) ListAuthorized(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id FROM users WHERE authorized = TRUE ORDER BY user_id`)
	if err != nil {
		return nil, repository.Wrap("list users", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, repository.Wrap("list users", err)
		}
		ids = append(ids, id)
	}
	return ids, repository.Wrap("list users", rows.Err())
}
