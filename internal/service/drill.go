package service

import (
	"context"
	"fmt"

	"goeha/internal/config"
	"goeha/internal/domain"
	"goeha/internal/drill"

	"go.uber.org/zap"
)

// DrillService builds drill sessions over the word store
type DrillService struct {
	wordService *WordService
	match       drill.Matcher
	requeue     drill.RequeueStrategy
	grader      drill.Grader
	logger      *zap.Logger
}

// NewDrillService creates a drill service. grader may be nil.
func NewDrillService(
	wordService *WordService,
	match drill.Matcher,
	requeue drill.RequeueStrategy,
	grader drill.Grader,
	logger *zap.Logger,
) *DrillService {
	return &DrillService{
		wordService: wordService,
		match:       match,
		requeue:     requeue,
		grader:      grader,
		logger:      logger,
	}
}

// NewDrillServiceFromConfig resolves the match mode and requeue strategy names
func NewDrillServiceFromConfig(wordService *WordService, cfg config.DrillConfig, grader drill.Grader, logger *zap.Logger) (*DrillService, error) {
	match, err := drill.MatcherByName(cfg.MatchMode)
	if err != nil {
		return nil, fmt.Errorf("invalid MATCH_MODE: %w", err)
	}
	requeue, err := drill.RequeueByName(cfg.Requeue)
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEUE: %w", err)
	}
	return NewDrillService(wordService, match, requeue, grader, logger), nil
}

// LoadWords snapshots the words for a new session
func (s *DrillService) LoadWords(ctx context.Context, hardOnly bool) ([]domain.Word, error) {
	words, err := s.wordService.DrillWords(ctx, hardOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to load drill words: %w", err)
	}
	return words, nil
}

// NewSession returns an idle session using the configured rules
func (s *DrillService) NewSession() *drill.Session {
	return drill.NewSession(
		drill.WithMatcher(s.match),
		drill.WithRequeue(s.requeue),
	)
}

// NewDriver returns a driver over a fresh session. The caller runs it.
func (s *DrillService) NewDriver(listener drill.Listener, opts ...drill.DriverOption) *drill.Driver {
	base := []drill.DriverOption{drill.WithLogger(s.logger)}
	if s.grader != nil {
		base = append(base, drill.WithGrader(s.grader))
	}
	return drill.NewDriver(s.NewSession(), listener, append(base, opts...)...)
}
