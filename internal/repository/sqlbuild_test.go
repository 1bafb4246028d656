package repository

import (
	"errors"
	"testing"

	"goeha/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestWhereClause(t *testing.T) {
	tests := []struct {
		name         string
		filter       domain.WordFilter
		ph           Placeholder
		expectedSQL  string
		expectedArgs []any
	}{
		{
			name:        "empty filter",
			filter:      domain.WordFilter{},
			ph:          QuestionPlaceholder,
			expectedSQL: "",
		},
		{
			name:         "by id",
			filter:       domain.ByID(7),
			ph:           DollarPlaceholder,
			expectedSQL:  " WHERE id = $1",
			expectedArgs: []any{int64(7)},
		},
		{
			name:         "word and hardness",
			filter:       domain.WordFilter{Word: domain.StringPtr("apple"), Hardness: domain.IntPtr(1)},
			ph:           QuestionPlaceholder,
			expectedSQL:  " WHERE word = ? AND hardness = ?",
			expectedArgs: []any{"apple", 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := WhereClause(tt.filter, tt.ph, 1)
			assert.Equal(t, tt.expectedSQL, sql)
			assert.Equal(t, tt.expectedArgs, args)
		})
	}
}

func TestWhereClause_StartOffset(t *testing.T) {
	sql, args := WhereClause(domain.WordFilter{Meaning: domain.StringPtr("책")}, DollarPlaceholder, 3)

	assert.Equal(t, " WHERE meaning = $3", sql)
	assert.Equal(t, []any{"책"}, args)
}

func TestSetClause(t *testing.T) {
	patch := domain.WordPatch{
		Meaning:  domain.StringPtr("해,태양"),
		Hardness: domain.IntPtr(0),
	}

	sql, args := SetClause(patch, DollarPlaceholder)

	assert.Equal(t, "meaning = $1, hardness = $2", sql)
	assert.Equal(t, []any{"해,태양", 0}, args)
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap("create", nil))

	base := errors.New("disk full")
	err := Wrap("create", base)
	assert.True(t, IsPersistence(err))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "persistence: create: disk full", err.Error())

	// already wrapped errors are not wrapped twice
	assert.Same(t, err, Wrap("update", err))
}
