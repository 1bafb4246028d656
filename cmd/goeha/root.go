package main

import (
	"context"
	"fmt"
	"io"

	"goeha/internal/config"
	"goeha/internal/drill"
	"goeha/internal/grader"
	"goeha/internal/repository"
	"goeha/internal/repository/postgres"
	"goeha/internal/repository/sqlite"
	"goeha/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds the wiring shared by all commands
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     io.Closer

	words  *service.WordService
	stats  *service.StatsService
	auth   *service.AuthService
	drills *service.DrillService
}

var cli = &app{}

var rootCmd = &cobra.Command{
	Use:           "goeha",
	Short:         "English-Korean vocabulary trainer",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return cli.setup(cmd.Context())
	},
}

func init() {
	// finalizers also run when a command fails
	cobra.OnFinalize(func() { cli.teardown() })
	rootCmd.AddCommand(botCmd, addCmd, listCmd, editCmd, deleteCmd, hardCmd, statsCmd, drillCmd, importCmd)
}

func (a *app) setup(ctx context.Context) error {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	wordRepo, userRepo, db, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	a.db = db

	logger.Info("Database ready", zap.String("driver", cfg.Database.Driver))

	// Initialize services
	a.words = service.NewWordService(wordRepo, logger)
	a.stats = service.NewStatsService(a.words, logger)
	a.auth = service.NewAuthService(userRepo, cfg.BotPassword, logger)

	answerGrader, err := newGrader(cfg, logger)
	if err != nil {
		return err
	}
	a.drills, err = service.NewDrillServiceFromConfig(a.words, cfg.Drill, answerGrader, logger)
	if err != nil {
		return err
	}
	return nil
}

func (a *app) teardown() {
	if a.db != nil {
		if err := a.db.Close(); err != nil && a.logger != nil {
			a.logger.Warn("Failed to close database", zap.Error(err))
		}
		a.db = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// openStore connects the configured backend and applies migrations
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.WordRepository, repository.UserRepository, io.Closer, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.DSN(), postgres.Retry{
			Attempts: cfg.Database.ConnectAttempts,
			Delay:    cfg.Database.ConnectDelay,
		}, logger)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		return postgres.NewWordRepo(db), postgres.NewUserRepo(db), db, nil
	default:
		db, err := sqlite.Open(cfg.Database.Path, logger)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return sqlite.NewWordRepo(db), sqlite.NewUserRepo(db), db, nil
	}
}

// newGrader returns the LLM grader when an API key is configured
func newGrader(cfg *config.Config, logger *zap.Logger) (drill.Grader, error) {
	if !cfg.LLMEnabled() {
		return nil, nil
	}
	llm, err := grader.NewLLM(grader.LLMConfig{
		APIKey: cfg.LLM.APIKey,
		URL:    cfg.LLM.URL,
		Model:  cfg.LLM.Model,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM grader: %w", err)
	}
	logger.Info("LLM grading enabled")
	return llm, nil
}
