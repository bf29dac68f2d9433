package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"cashout/internal/amqp"
	"cashout/internal/auth"
	"cashout/internal/cache"
	"cashout/internal/config"
	"cashout/internal/core"
	apphttp "cashout/internal/http"
	applog "cashout/internal/log"
	"cashout/internal/notify"
	"cashout/internal/services"
	"cashout/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Choose data backend (default: memory).
	var (
		ledgers  store.LedgerStore
		accounts store.AccountStore
		ready    func(ctx context.Context) error
	)
	switch cfg.DataBackend {
	case "sqlite":
		db, err := store.NewSQLite(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite store", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer db.Close()
		ledgers, accounts, ready = db, db, db.Ping
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
	default:
		mem := store.NewMemory()
		ledgers, accounts = mem, mem
		logger.Info("Initialized memory backend")
	}

	// AMQP is optional; without it saves simply skip the export event.
	var publisher services.WeekSavedPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		publisher = client
		logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	authSvc := auth.NewService(accounts, auth.TokenConfig{
		Secret: []byte(cfg.JWTSecret),
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.TokenTTL,
	})

	hub := notify.NewHub(notify.DefaultTTL)
	notifier := notify.Multi{hub, notify.Slog{Logger: logger.Logger}}

	ledgerSvc := services.NewLedgerService(ledgers, publisher, notifier)

	weekCache := cache.New[core.Week](128, 5*time.Minute)
	ledgerSvc.UseWeekCache(weekCache)
	janitor := cache.NewJanitor()
	janitor.Register(weekCache)
	janitor.Start(10 * time.Minute)
	defer janitor.Stop()

	srv := apphttp.NewServer(":"+cfg.Port, authSvc, ledgerSvc, hub, logger, ready)

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting cashout server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
