package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"docvault/internal/auth"
	"docvault/internal/blob"
	"docvault/internal/config"
	"docvault/internal/handler"
	"docvault/internal/middleware"
	"docvault/internal/queue"
	"docvault/internal/repository/postgres"
	"docvault/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Environment),
	}))
	slog.SetDefault(logger)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	if cfg.TokenSecret == "" {
		logger.Error("TOKEN_SECRET is required")
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

	userRepo := postgres.NewUserRepository(repoCfg)
	fileRepo := postgres.NewFileRepository(repoCfg)
	txManager := postgres.NewTransactionManager(pool, logger)

	policy := service.NewAccessPolicy()
	validator := service.NewUploadValidator(policy)

	tokens, err := auth.NewTokenService(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		logger.Error("failed to initialize token service", "error", err)
		os.Exit(1)
	}
	var verifier auth.TokenVerifier = tokens
	if cfg.JWKSURL != "" {
		jwksVerifier, err := auth.NewJWKSVerifier(ctx, cfg.JWKSURL, logger)
		if err != nil {
			logger.Error("failed to initialize JWKS verifier", "error", err)
			os.Exit(1)
		}
		verifier = jwksVerifier
		logger.Info("token verification delegated to JWKS", "url", cfg.JWKSURL)
	}

	authService := service.NewAuthService(userRepo, tokens, verifier, logger)
	userService := service.NewUserService(userRepo, txManager, logger)
	fileService := service.NewFileService(fileRepo, blobs, jobs, policy, validator, logger)
	reconciler := service.NewReconciler(fileRepo, blobs, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	userHandler := handler.NewUserHandler(userService, logger)
	fileHandler := handler.NewFileHandler(fileService, logger)
	maintenanceHandler := handler.NewMaintenanceHandler(reconciler, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", fileHandler.Health)
	mux.Handle("GET /metrics", middleware.MetricsHandler())

	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("POST /auth/token", authHandler.Token)
	mux.HandleFunc("GET /auth/me", authHandler.Me)

	mux.HandleFunc("POST /api/users", userHandler.Create)
	mux.HandleFunc("GET /api/users", userHandler.List)
	mux.HandleFunc("GET /api/users/{id}", userHandler.Get)
	mux.HandleFunc("PUT /api/users/{id}/role", userHandler.UpdateRole)

	mux.HandleFunc("POST /api/files", fileHandler.Upload)
	mux.HandleFunc("GET /api/files", fileHandler.List)
	mux.HandleFunc("GET /api/files/{id}", fileHandler.Get)
	mux.HandleFunc("GET /api/files/{id}/download", fileHandler.Download)
	mux.HandleFunc("DELETE /api/files/{id}", fileHandler.Delete)

	mux.HandleFunc("POST /api/maintenance/reconcile", maintenanceHandler.Reconcile)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	var root http.Handler = mux
	root = middleware.Auth(authService)(root)
	root = middleware.Metrics()(root)
	root = middleware.Recovery(logger)(root)
	root = corsMiddleware.Handler(root)

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     root,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
		// WriteTimeout stays unset so large downloads are not cut off.
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func logLevel(environment string) slog.Level {
	if environment == "prod" {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}
