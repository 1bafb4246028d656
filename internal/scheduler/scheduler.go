package scheduler

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"goeha/internal/domain"
	"goeha/internal/metrics"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Notifier delivers a surprise card. It reports false when the user is busy.
type Notifier interface {
	SendSurprise(userID int64, word domain.Word) (bool, error)
}

// Recipients lists the users that may receive surprise cards
type Recipients interface {
	AuthorizedUsers(ctx context.Context) ([]int64, error)
}

// WordPicker picks the card to send
type WordPicker interface {
	GetRandomWord(ctx context.Context, rng *rand.Rand) (*domain.Word, error)
}

// Scheduler sends surprise quiz cards on a fixed interval
type Scheduler struct {
	scheduler  *gocron.Scheduler
	notifier   Notifier
	recipients Recipients
	words      WordPicker
	interval   time.Duration
	rng        *rand.Rand
	logger     *zap.Logger
}

// New creates a new scheduler instance
func New(notifier Notifier, recipients Recipients, words WordPicker, interval time.Duration, logger *zap.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	// rounds never overlap, the first one waits a full interval
	s.SingletonModeAll()
	s.WaitForScheduleAll()

	return &Scheduler{
		scheduler:  s,
		notifier:   notifier,
		recipients: recipients,
		words:      words,
		interval:   interval,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:     logger,
	}
}

// Start begins running the surprise quiz job
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		return fmt.Errorf("surprise interval must be positive, got %s", s.interval)
	}

	if _, err := s.scheduler.Every(s.interval).Do(s.runRound); err != nil {
		return fmt.Errorf("failed to schedule surprise quiz: %w", err)
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	s.logger.Info("Surprise quiz scheduled", zap.Duration("interval", s.interval))
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) runRound() {
	sent, err := s.SendRound(context.Background())
	if err != nil {
		s.logger.Error("Surprise quiz round failed", zap.Error(err))
		return
	}
	s.logger.Info("Surprise quiz round finished", zap.Int("sent", sent))
}

// SendRound sends one random card to every authorized user and returns how
// many accepted it
func (s *Scheduler) SendRound(ctx context.Context) (int, error) {
	users, err := s.recipients.AuthorizedUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list recipients: %w", err)
	}

	sent := 0
	for _, userID := range users {
		word, err := s.words.GetRandomWord(ctx, s.rng)
		if err != nil {
			return sent, fmt.Errorf("failed to pick a word: %w", err)
		}
		if word == nil {
			// empty store, nothing to ask anyone
			return sent, nil
		}

		ok, err := s.notifier.SendSurprise(userID, *word)
		if err != nil {
			s.logger.Warn("Failed to send surprise quiz",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			continue
		}
		if !ok {
			s.logger.Debug("User busy, surprise quiz skipped", zap.Int64("user_id", userID))
			continue
		}

		sent++
		metrics.SurpriseQuizzesSent.Inc()
	}
	return sent, nil
}
