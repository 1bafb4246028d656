package sqlite

import (
	"context"

	"goeha/internal/domain"
	"goeha/internal/repository"

	"github.com/jmoiron/sqlx"
)

// WordRepo implements repository.WordRepository on SQLite
type WordRepo struct {
	db *sqlx.DB
}

// NewWordRepo creates a new word repository
func NewWordRepo(db *sqlx.DB) *WordRepo {
	return &WordRepo{db: db}
}

// Create saves a word and returns its AUTOINCREMENT id
func (r *WordRepo) Create(ctx context.Context, fields domain.WordFields) (int64, error) {
	row := domain.Word{
		Word:     fields.Word,
		Meaning:  fields.Meaning,
		Example:  fields.Example,
		Hardness: fields.Hardness,
	}

	res, err := r.db.NamedExecContext(ctx, `
		INSERT INTO words_table (word, meaning, example, hardness)
		VALUES (:word, :meaning, :example, :hardness)
	`, row)
	if err != nil {
		return 0, repository.Wrap("create word", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, repository.Wrap("create word", err)
	}
	return id, nil
}

// ReadAll returns words matching filter ordered by id
func (r *WordRepo) ReadAll(ctx context.Context, filter domain.WordFilter) ([]domain.Word, error) {
	where, args := repository.WhereClause(filter, repository.QuestionPlaceholder, 1)
	query := `SELECT id, word, meaning, example, hardness, created_at FROM words_table` + where + ` ORDER BY id`

	words := []domain.Word{}
	if err := r.db.SelectContext(ctx, &words, query, args...); err != nil {
		return nil, repository.Wrap("read words", err)
	}
	return words, nil
}

// Update overwrites the set fields of patch
func (r *WordRepo) Update(ctx context.Context, id int64, patch domain.WordPatch) (int64, error) {
	set, args := repository.SetClause(patch, repository.QuestionPlaceholder)
	if set == "" {
		return 0, nil
	}

	res, err := r.db.ExecContext(ctx, `UPDATE words_table SET `+set+` WHERE id = ?`, append(args, id)...)
	if err != nil {
		return 0, repository.Wrap("update word", err)
	}

	n, err := res.RowsAffected()
	return n, repository.Wrap("update word", err)
}

// Delete removes a word by id
func (r *WordRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM words_table WHERE id = ?`, id)
	if err != nil {
		return 0, repository.Wrap("delete word", err)
	}

	n, err := res.RowsAffected()
	return n, repository.Wrap("delete word", err)
}
