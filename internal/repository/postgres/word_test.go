package postgres

import (
	"context"
	"database/sql/driver"
	"fmt"
	"testing"
	"time"

	"goeha/internal/domain"
	"goeha/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wordColumns = []string{"id", "word", "meaning", "example", "hardness", "created_at"}

func TestWordRepo_Create(t *testing.T) {
	tests := []struct {
		name          string
		mockError     error
		expectedID    int64
		expectedError bool
	}{
		{
			name:       "word saved",
			expectedID: 42,
		},
		{
			name:          "database error",
			mockError:     fmt.Errorf("connection refused"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewWordRepo(db)
			fields := domain.WordFields{Word: "apple", Meaning: "사과", Example: "An apple a day."}

			expect := mock.ExpectQuery("INSERT INTO words_table \\(word, meaning, example, hardness\\)").
				WithArgs("apple", "사과", "An apple a day.", 0)
			if tt.mockError != nil {
				expect.WillReturnError(tt.mockError)
			} else {
				expect.WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(tt.expectedID))
			}

			id, err := repo.Create(context.Background(), fields)

			if tt.expectedError {
				assert.Error(t, err)
				assert.True(t, repository.IsPersistence(err))
				assert.Zero(t, id)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedID, id)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWordRepo_ReadAll(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name          string
		filter        domain.WordFilter
		query         string
		args          []driver.Value
		mockRows      *sqlmock.Rows
		mockError     error
		expectedCount int
		expectedError bool
	}{
		{
			name:   "all words",
			filter: domain.WordFilter{},
			query:  "SELECT id, word, meaning, example, hardness, created_at FROM words_table ORDER BY id",
			mockRows: sqlmock.NewRows(wordColumns).
				AddRow(1, "apple", "사과", "", 0, now).
				AddRow(2, "book", "책", "", 1, now),
			expectedCount: 2,
		},
		{
			name:   "hard words only",
			filter: domain.HardOnly(),
			query:  "SELECT id, word, meaning, example, hardness, created_at FROM words_table WHERE hardness = \\$1 ORDER BY id",
			args:   []driver.Value{1},
			mockRows: sqlmock.NewRows(wordColumns).
				AddRow(2, "book", "책", "", 1, now),
			expectedCount: 1,
		},
		{
			name:          "nothing matches",
			filter:        domain.WordFilter{Word: domain.StringPtr("moon")},
			query:         "SELECT .* FROM words_table WHERE word = \\$1 ORDER BY id",
			args:          []driver.Value{"moon"},
			mockRows:      sqlmock.NewRows(wordColumns),
			expectedCount: 0,
		},
		{
			name:          "database error",
			filter:        domain.WordFilter{},
			query:         "SELECT .* FROM words_table",
			mockError:     fmt.Errorf("db error"),
			expectedError: true,
		},
		{
			name:   "scan error",
			filter: domain.WordFilter{},
			query:  "SELECT .* FROM words_table",
			mockRows: sqlmock.NewRows(wordColumns).
				AddRow("invalid", "apple", "사과", "", 0, now),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewWordRepo(db)

			expect := mock.ExpectQuery(tt.query)
			if len(tt.args) > 0 {
				expect.WithArgs(tt.args...)
			}
			if tt.mockError != nil {
				expect.WillReturnError(tt.mockError)
			} else {
				expect.WillReturnRows(tt.mockRows)
			}

			words, err := repo.ReadAll(context.Background(), tt.filter)

			if tt.expectedError {
				assert.Error(t, err)
				assert.True(t, repository.IsPersistence(err))
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, words)
				assert.Len(t, words, tt.expectedCount)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWordRepo_Update(t *testing.T) {
	tests := []struct {
		name          string
		rowsAffected  int64
		mockError     error
		expectedRows  int64
		expectedError bool
	}{
		{
			name:         "word updated",
			rowsAffected: 1,
			expectedRows: 1,
		},
		{
			name:         "missing id is not an error",
			rowsAffected: 0,
			expectedRows: 0,
		},
		{
			name:          "database error",
			mockError:     fmt.Errorf("db error"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewWordRepo(db)
			patch := domain.WordPatch{Meaning: domain.StringPtr("풋사과"), Hardness: domain.IntPtr(1)}

			expect := mock.ExpectExec("UPDATE words_table SET meaning = \\$1, hardness = \\$2 WHERE id = \\$3").
				WithArgs("풋사과", 1, int64(7))
			if tt.mockError != nil {
				expect.WillReturnError(tt.mockError)
			} else {
				expect.WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))
			}

			n, err := repo.Update(context.Background(), 7, patch)

			if tt.expectedError {
				assert.Error(t, err)
				assert.True(t, repository.IsPersistence(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedRows, n)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWordRepo_Update_EmptyPatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	n, err := repo.Update(context.Background(), 7, domain.WordPatch{})

	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	mock.ExpectExec("DELETE FROM words_table WHERE id = \\$1").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM words_table WHERE id = \\$1").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.Delete(context.Background(), 3)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// Deleting again is a no-op success
	n, err = repo.Delete(context.Background(), 3)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_Delete_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	mock.ExpectExec("DELETE FROM words_table").
		WithArgs(int64(3)).
		WillReturnError(fmt.Errorf("db error"))

	_, err = repo.Delete(context.Background(), 3)

	assert.Error(t, err)
	assert.True(t, repository.IsPersistence(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
