package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"kharcha/internal/config"
	"kharcha/internal/events"
	apphttp "kharcha/internal/http"
	"kharcha/internal/ledger"
	applog "kharcha/internal/log"
	"kharcha/internal/predict"
	"kharcha/internal/storage"
	"kharcha/internal/storage/memory"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := applog.New(slog.LevelInfo, applog.ComponentApp)
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var snapshots ledger.Snapshotter
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite storage",
				"error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		snapshots = repo
		logger.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
	default:
		snapshots = memory.New()
		logger.Info("Initialized memory backend")
	}

	var publisher ledger.Publisher
	if cfg.AMQPURL != "" {
		client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// The broker is optional infrastructure; the ledger works without it.
			logger.Warn("AMQP unavailable, event publishing disabled", "error", err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("Connected to AMQP",
				"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	store, err := ledger.New(ctx, snapshots, publisher)
	if err != nil {
		logger.Error("Failed to restore ledger", "error", err)
		os.Exit(1)
	}

	predictor := predict.NewClient(cfg.PredictBaseURL, cfg.PredictTimeout)

	srv := apphttp.NewServer(":"+cfg.Port, store, predictor, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting kharcha server",
			"port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
