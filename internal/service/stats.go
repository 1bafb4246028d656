package service

import (
	"context"

	"goeha/internal/domain"

	"go.uber.org/zap"
)

// StatsService summarizes the word store
type StatsService struct {
	wordService *WordService
	logger      *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(wordService *WordService, logger *zap.Logger) *StatsService {
	return &StatsService{
		wordService: wordService,
		logger:      logger,
	}
}

// Summary counts all words and hard words
func (s *StatsService) Summary(ctx context.Context) (domain.Summary, error) {
	words, err := s.wordService.ListWords(ctx, domain.WordFilter{})
	if err != nil {
		s.logger.Error("Failed to load words for summary", zap.Error(err))
		return domain.Summary{}, err
	}

	summary := domain.Summary{Total: len(words)}
	for _, w := range words {
		if w.IsHard() {
			summary.Hard++
		}
	}
	return summary, nil
}
