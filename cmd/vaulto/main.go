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

	"vaulto/internal/amqp"
	"vaulto/internal/cache"
	"vaulto/internal/clock"
	"vaulto/internal/config"
	apphttp "vaulto/internal/http"
	"vaulto/internal/log"
	"vaulto/internal/scheduler"
	"vaulto/internal/services"
	"vaulto/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := log.New(log.Config{Level: slog.LevelInfo, Component: log.ComponentApp})
	log.SetDefault(logger)

	logger.Info("Starting vaulto API server")

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite repository (runs migrations)
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Initialize AMQP client for publishing ledger events (optional)
	var events services.LedgerEventPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without event publishing", "error", err)
		} else {
			defer amqpClient.Close()
			events = amqpClient
			logger.Info("AMQP client initialized - ledger events will reach the sync worker")
		}
	} else {
		logger.Info("AMQP disabled - ledger events will not be published")
	}

	// Services
	transactionService := services.NewTransactionService(repo, events)
	reportService := services.NewReportService(repo)
	materializer := services.NewMaterializer(repo, events)

	// Report cache with a sweep janitor
	reportCache := cache.NewLRUCache[[]byte](256, 5*time.Minute)
	janitor := cache.NewJanitor()
	janitor.Register(reportCache)
	janitor.Start(time.Minute)
	defer janitor.Stop()

	// HTTP server
	handlers := apphttp.NewHandlers(reportService, transactionService, repo, reportCache)
	srv := apphttp.NewServer(":"+cfg.Port, handlers)

	// In-process materializer driver. A dedicated worker deployment can run
	// alongside; the per-task claim keeps the two from double-materializing.
	driver := scheduler.NewDriver(materializer, clock.System(), cfg.MaterializeInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		driver.Start(gctx)
		<-gctx.Done()
		driver.Stop()
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

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
