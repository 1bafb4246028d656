package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"goeha/migrations"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Retry bounds how long Open waits for the server
type Retry struct {
	Attempts int
	Delay    time.Duration
}

// Open connects to PostgreSQL and applies pending migrations
func Open(ctx context.Context, dsn string, retry Retry, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := waitReady(ctx, db, retry, logger); err != nil {
		db.Close()
		return nil, err
	}
	if err := migrateUp(db, logger); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// waitReady pings until the server answers or the attempts run out
func waitReady(ctx context.Context, db *sql.DB, retry Retry, logger *zap.Logger) error {
	attempts := max(retry.Attempts, 1)

	var err error
	for i := 1; i <= attempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		logger.Warn("Database not ready",
			zap.Int("attempt", i),
			zap.Int("of", attempts),
			zap.Error(err),
		)
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry.Delay):
		}
	}
	return fmt.Errorf("database unreachable after %d attempts: %w", attempts, err)
}

func migrateUp(db *sql.DB, logger *zap.Logger) error {
	source, err := iofs.New(migrations.Postgres, "postgres")
	if err != nil {
		return fmt.Errorf("failed to open migration source: %w", err)
	}
	target, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", target)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Debug("Schema up to date")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		version, _, _ := m.Version()
		logger.Info("Migrations applied", zap.Uint("version", version))
	}
	return nil
}
