package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goeha/internal/handler"
	"goeha/internal/metrics"
	"goeha/internal/scheduler"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBot(cli)
	},
}

func runBot(a *app) error {
	if err := a.cfg.ValidateBot(); err != nil {
		return err
	}
	logger := a.logger

	logger.Info("Starting goeha bot")

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  a.cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return err
	}

	logger.Info("Telegram bot initialized")

	h := handler.NewHandler(bot, a.auth, a.words, a.stats, a.drills, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	metricsServer := startMetrics(a.cfg.MetricsAddr, logger)
	defer stopMetrics(metricsServer, logger)

	var surprise *scheduler.Scheduler
	if a.cfg.SurpriseInterval > 0 {
		surprise = scheduler.New(h, a.auth, a.words, a.cfg.SurpriseInterval, logger)
		if err := surprise.Start(); err != nil {
			return err
		}
	}

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	if surprise != nil {
		surprise.Stop()
	}
	bot.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if n := h.StopDrills(ctx); n > 0 {
		logger.Info("Stopped running drills", zap.Int("drills", n))
	}

	logger.Info("Bot stopped gracefully")
	return nil
}

func stopMetrics(server *http.Server, logger *zap.Logger) {
	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("Failed to stop metrics server", zap.Error(err))
	}
}

// startMetrics serves /metrics on addr, nil when addr is empty
func startMetrics(addr string, logger *zap.Logger) *http.Server {
	if addr == "" {
		return nil
	}

	reg := prometheus.NewRegistry()
	metrics.MustRegister(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Metrics server started", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", zap.Error(err))
		}
	}()
	return server
}
