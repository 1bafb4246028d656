package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"goeha/internal/domain"
	"goeha/internal/metrics"
	"goeha/internal/repository"

	"go.uber.org/zap"
)

// ErrWordNotFound is returned when an id matches no word
var ErrWordNotFound = errors.New("word not found")

// WordService handles word-related business logic
type WordService struct {
	wordRepo repository.WordRepository
	logger   *zap.Logger
}

// NewWordService creates a new word service
func NewWordService(wordRepo repository.WordRepository, logger *zap.Logger) *WordService {
	return &WordService{
		wordRepo: wordRepo,
		logger:   logger,
	}
}

// AddWord validates and saves a new word, returning its id
func (s *WordService) AddWord(ctx context.Context, fields domain.WordFields) (int64, error) {
	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		return 0, err
	}

	var id int64
	err := observe("create", func() (err error) {
		id, err = s.wordRepo.Create(ctx, fields)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Word added",
		zap.Int64("word_id", id),
		zap.String("word", fields.Word),
	)
	return id, nil
}

// ListWords returns words matching filter
func (s *WordService) ListWords(ctx context.Context, filter domain.WordFilter) ([]domain.Word, error) {
	var words []domain.Word
	err := observe("read_all", func() (err error) {
		words, err = s.wordRepo.ReadAll(ctx, filter)
		return err
	})
	return words, err
}

// GetWord returns a word by id
func (s *WordService) GetWord(ctx context.Context, id int64) (*domain.Word, error) {
	words, err := s.ListWords(ctx, domain.ByID(id))
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: id %d", ErrWordNotFound, id)
	}
	return &words[0], nil
}

// EditWord applies a partial update to a word
func (s *WordService) EditWord(ctx context.Context, id int64, patch domain.WordPatch) error {
	patch = patch.Normalize()
	if err := patch.Validate(); err != nil {
		return err
	}

	var n int64
	err := observe("update", func() (err error) {
		n, err = s.wordRepo.Update(ctx, id, patch)
		return err
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", ErrWordNotFound, id)
	}

	s.logger.Info("Word updated", zap.Int64("word_id", id))
	return nil
}

// DeleteWord removes a word
func (s *WordService) DeleteWord(ctx context.Context, id int64) error {
	var n int64
	err := observe("delete", func() (err error) {
		n, err = s.wordRepo.Delete(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", ErrWordNotFound, id)
	}

	s.logger.Info("Word deleted", zap.Int64("word_id", id))
	return nil
}

// ToggleHard flips the hardness flag of a word and returns the new value
func (s *WordService) ToggleHard(ctx context.Context, id int64) (int, error) {
	word, err := s.GetWord(ctx, id)
	if err != nil {
		return 0, err
	}

	hardness := domain.HardnessHard
	if word.IsHard() {
		hardness = domain.HardnessNormal
	}

	if err := s.EditWord(ctx, id, domain.WordPatch{Hardness: &hardness}); err != nil {
		return 0, err
	}
	return hardness, nil
}

// DrillWords returns the words to drill, only hard ones if hardOnly is set
func (s *WordService) DrillWords(ctx context.Context, hardOnly bool) ([]domain.Word, error) {
	filter := domain.WordFilter{}
	if hardOnly {
		filter = domain.HardOnly()
	}
	return s.ListWords(ctx, filter)
}

// GetRandomWord returns a random word, nil if the store is empty
func (s *WordService) GetRandomWord(ctx context.Context, rng *rand.Rand) (*domain.Word, error) {
	words, err := s.ListWords(ctx, domain.WordFilter{})
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, nil
	}
	return &words[rng.Intn(len(words))], nil
}

// observe times a store call and counts its failures
func observe(op string, call func() error) error {
	started := time.Now()
	err := call()
	metrics.StoreOpDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues(op).Inc()
	}
	return err
}

// IsValidationError reports whether err is a rejected word input
func IsValidationError(err error) bool {
	return errors.Is(err, domain.ErrEmptyWord) ||
		errors.Is(err, domain.ErrEmptyMeaning) ||
		errors.Is(err, domain.ErrInvalidHardness) ||
		errors.Is(err, domain.ErrEmptyPatch)
}
