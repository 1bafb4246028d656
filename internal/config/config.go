package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	BotToken    string
	BotPassword string
	Database    DatabaseConfig
	Drill       DrillConfig
	LLM         LLMConfig

	// SurpriseInterval between surprise quiz cards, zero disables them
	SurpriseInterval time.Duration
	// MetricsAddr serves /metrics when set
	MetricsAddr string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver   string
	Path     string
	Host     string
	Port     string
	Name     string
	User     string
	Password string

	// ConnectAttempts and ConnectDelay bound the wait for a PostgreSQL
	// server that is still starting
	ConnectAttempts int
	ConnectDelay    time.Duration
}

// DrillConfig selects the answer matching rule and requeue strategy
type DrillConfig struct {
	MatchMode string
	Requeue   string
}

// LLMConfig holds settings of the optional answer grading service
type LLMConfig struct {
	APIKey string
	Model  string
	URL    string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:    os.Getenv("BOT_TOKEN"),
		BotPassword: os.Getenv("BOT_PASSWORD"),
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
			Path:     getEnv("DB_PATH", "goeha_words.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "goeha"),
			User:     getEnv("DB_USER", "goeha"),
			Password: os.Getenv("DB_PASSWORD"),
		},
		Drill: DrillConfig{
			MatchMode: getEnv("MATCH_MODE", "any"),
			Requeue:   getEnv("REQUEUE", "append"),
		},
		LLM: LLMConfig{
			APIKey: os.Getenv("OPENAI_API_KEY"),
			Model:  os.Getenv("OPENAI_MODEL"),
			URL:    os.Getenv("OPENAI_URL"),
		},
		MetricsAddr: os.Getenv("METRICS_ADDR"),
	}

	interval, err := time.ParseDuration(getEnv("SURPRISE_INTERVAL", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid SURPRISE_INTERVAL: %w", err)
	}
	if interval < 0 {
		return nil, fmt.Errorf("SURPRISE_INTERVAL cannot be negative")
	}
	cfg.SurpriseInterval = interval

	attempts, err := strconv.Atoi(getEnv("DB_CONNECT_ATTEMPTS", "30"))
	if err != nil || attempts < 1 {
		return nil, fmt.Errorf("DB_CONNECT_ATTEMPTS must be a positive number")
	}
	cfg.Database.ConnectAttempts = attempts

	delay, err := time.ParseDuration(getEnv("DB_CONNECT_DELAY", "2s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONNECT_DELAY: %w", err)
	}
	cfg.Database.ConnectDelay = delay

	// Validate required fields
	switch cfg.Database.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.Database.Password == "" {
			return nil, fmt.Errorf("DB_PASSWORD is required for the postgres driver")
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}

	return cfg, nil
}

// ValidateBot checks settings required to run the Telegram bot
func (c *Config) ValidateBot() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.BotPassword == "" {
		return fmt.Errorf("BOT_PASSWORD is required")
	}
	return nil
}

// LLMEnabled reports whether answers can be sent to the grading service
func (c *Config) LLMEnabled() bool {
	return c.LLM.APIKey != ""
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
