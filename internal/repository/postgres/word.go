package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"goeha/internal/domain"
	"goeha/internal/repository"
)

// WordRepo implements repository.WordRepository
type WordRepo struct {
	db *sql.DB
}

// NewWordRepo creates a new word repository
func NewWordRepo(db *sql.DB) *WordRepo {
	return &WordRepo{db: db}
}

// Create saves a word and returns the id assigned by the database
func (r *WordRepo) Create(ctx context.Context, fields domain.WordFields) (int64, error) {
	query := `
		INSERT INTO words_table (word, meaning, example, hardness)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, fields.Word, fields.Meaning, fields.Example, fields.Hardness).Scan(&id)
	if err != nil {
		return 0, repository.Wrap("create word", err)
	}
	return id, nil
}

// ReadAll returns words matching filter ordered by id
func (r *WordRepo) ReadAll(ctx context.Context, filter domain.WordFilter) ([]domain.Word, error) {
	where, args := repository.WhereClause(filter, repository.DollarPlaceholder, 1)
	query := `SELECT id, word, meaning, example, hardness, created_at FROM words_table` + where + ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, repository.Wrap("read words", err)
	}
	defer rows.Close()

	words := []domain.Word{}
	for rows.Next() {
		var w domain.Word
		if err := rows.Scan(&w.ID, &w.Word, &w.Meaning, &w.Example, &w.Hardness, &w.CreatedAt); err != nil {
			return nil, repository.Wrap("read words", err)
		}
		words = append(words, w)
	}

	if err := rows.Err(); err != nil {
		return nil, repository.Wrap("read words", err)
	}
	return words, nil
}

// Update overwrites the set fields of patch
func (r *WordRepo) Update(ctx context.Context, id int64, patch domain.WordPatch) (int64, error) {
	set, args := repository.SetClause(patch, repository.DollarPlaceholder)
	if set == "" {
		return 0, nil
	}

	query := fmt.Sprintf(`UPDATE words_table SET %s WHERE id = $%d`, set, len(args)+1)
	res, err := r.db.ExecContext(ctx, query, append(args, id)...)
	if err != nil {
		return 0, repository.Wrap("update word", err)
	}

	n, err := res.RowsAffected()
	return n, repository.Wrap("update word", err)
}

// Delete removes a word by id
func (r *WordRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM words_table WHERE id = $1`, id)
	if err != nil {
		return 0, repository.Wrap("delete word", err)
	}

	n, err := res.RowsAffected()
	return n, repository.Wrap("delete word", err)
}
