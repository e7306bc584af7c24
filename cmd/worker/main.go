package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"docvault/internal/blob"
	"docvault/internal/config"
	"docvault/internal/queue"
	"docvault/internal/repository/postgres"
	"docvault/internal/service"
	"docvault/internal/service/extract"
	"docvault/internal/worker"
)

// The worker binary consumes metadata extraction jobs and, when
// RECONCILE_INTERVAL is set, periodically sweeps records whose blobs have
// gone missing.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	repoCfg := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	fileRepo := postgres.NewFileRepository(repoCfg)

	blobs, err := blob.NewMinioStore(ctx, blob.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to object storage", "error", err)
		os.Exit(1)
	}

	jobs, err := queue.NewRedisQueue(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Error("failed to connect to job queue", "error", err)
		os.Exit(1)
	}
	defer jobs.Close()

	pipeline := extract.NewPipeline(fileRepo, blobs, logger)
	workers := worker.NewPool(jobs, pipeline, cfg.ExtractionWorkers, logger)

	if cfg.ReconcileInterval > 0 {
		reconciler := service.NewReconciler(fileRepo, blobs, logger)
		go runReconcileLoop(ctx, reconciler, cfg.ReconcileInterval, logger)
	}

	logger.Info("worker starting", "workers", cfg.ExtractionWorkers)
	workers.Run(ctx)
	logger.Info("worker stopped")
}

func runReconcileLoop(ctx context.Context, reconciler *service.Reconciler, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, err := reconciler.Run(ctx)
			if err != nil {
				logger.Error("reconcile sweep failed", "error", err)
				continue
			}
			logger.Info("reconcile sweep finished",
				"checked", result.Checked, "removed", result.Removed)
		}
	}
}
