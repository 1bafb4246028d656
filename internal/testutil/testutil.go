package testutil

import (
	"time"

	"goeha/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestWord creates a test word
func NewTestWord(id int64, word, meaning string) domain.Word {
	return domain.Word{
		ID:        id,
		Word:      word,
		Meaning:   meaning,
		CreatedAt: time.Now(),
	}
}

// SampleWords returns the apple/book/sun word set
func SampleWords() []domain.Word {
	return []domain.Word{
		NewTestWord(1, "apple", "사과"),
		NewTestWord(2, "book", "책"),
		NewTestWord(3, "sun", "해,태양"),
	}
}
