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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	httpAdapter "github.com/lorrc/ticket-insights/internal/adapters/primary/http"
	mw "github.com/lorrc/ticket-insights/internal/adapters/primary/http/middleware"
	"github.com/lorrc/ticket-insights/internal/adapters/primary/websocket"
	"github.com/lorrc/ticket-insights/internal/adapters/secondary/datasetfile"
	"github.com/lorrc/ticket-insights/internal/adapters/secondary/memory"
	"github.com/lorrc/ticket-insights/internal/adapters/secondary/orgmap"
	"github.com/lorrc/ticket-insights/internal/adapters/secondary/postgres"
	"github.com/lorrc/ticket-insights/internal/adapters/secondary/spreadsheet"
	"github.com/lorrc/ticket-insights/internal/auth"
	"github.com/lorrc/ticket-insights/internal/config"
	"github.com/lorrc/ticket-insights/internal/core/ports"
	"github.com/lorrc/ticket-insights/internal/core/services"
	"github.com/lorrc/ticket-insights/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"config", cfg.String(),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 3. Upload history: PostgreSQL when configured, memory otherwise
	var (
		pool       *pgxpool.Pool
		uploadRepo ports.UploadRepository
	)
	if cfg.Database.Enabled() {
		if err := postgres.Migrate(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		pool, err = postgres.Connect(ctx, postgres.PoolConfig{
			URL:             cfg.Database.URL,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		})
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("database connection established")

		uploadRepo = postgres.NewUploadRepository(pool, cfg.Database.UploadHistory)
	} else {
		logger.Info("DATABASE_URL not set, keeping upload history in memory")
		uploadRepo = memory.NewUploadRepository(cfg.Database.UploadHistory)
	}

	// 4. Dataset and ingestion adapters
	mapper, err := orgmap.Load(cfg.Dataset.OrgMapPath)
	if err != nil {
		logger.Error("failed to load department map", "path", cfg.Dataset.OrgMapPath, "error", err)
		os.Exit(1)
	}

	source := datasetfile.NewSource(cfg.Dataset.Path)
	datasetService := services.NewDatasetService(source, logger)
	if _, err := datasetService.Reload(ctx); err != nil {
		if cfg.Dataset.Required {
			logger.Error("dataset is required but could not be loaded", "path", cfg.Dataset.Path, "error", err)
			os.Exit(1)
		}
		logger.Warn("starting without a dataset; upload a spreadsheet to create one", "path", cfg.Dataset.Path)
	}

	// 5. Initialize Security & Real-time Components
	var tokenManager *auth.TokenManager
	if cfg.Auth.Enabled {
		tokenManager = auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	}
	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	// 6. Initialize Rate Limiters
	var generalRateLimiter, uploadRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})
		defer generalRateLimiter.Stop()

		uploadConfig := mw.UploadRateLimiterConfig()
		uploadConfig.RequestsPerSecond = cfg.RateLimit.UploadRPS
		uploadConfig.BurstSize = cfg.RateLimit.UploadBurst
		uploadRateLimiter = mw.NewRateLimiter(uploadConfig)
		defer uploadRateLimiter.Stop()
	}

	// 7. Dependency Injection (Wiring the Hexagon)
	errorHandler := httpAdapter.NewErrorHandler(logger)

	statsService := services.NewStatsService(datasetService)
	uploadService := services.NewUploadService(services.UploadDeps{
		Reader:      spreadsheet.NewReader(cfg.Dataset.SkipRows),
		Store:       datasetfile.NewSpreadsheetStore(cfg.Dataset.SpreadsheetPath),
		Source:      source,
		Provider:    datasetService,
		Mapper:      mapper,
		Repo:        uploadRepo,
		Broadcaster: hub,
	}, logger,
		services.WithMaxBytes(cfg.Dataset.UploadMaxBytes),
		services.WithIngestTimeout(cfg.Dataset.IngestTimeout),
	)

	datasetHandler := httpAdapter.NewDatasetHandler(datasetService, errorHandler, logger)
	statsHandler := httpAdapter.NewStatsHandler(statsService, errorHandler, logger)
	uploadHandler := httpAdapter.NewUploadHandler(uploadService, errorHandler, cfg.Dataset.UploadMaxBytes, logger)
	wsHandler := httpAdapter.NewWebSocketHandler(hub, tokenManager, cfg, logger)

	var dbChecker httpAdapter.HealthChecker
	if pool != nil {
		dbChecker = pool
	}
	healthHandler := httpAdapter.NewHealthHandler(datasetService, dbChecker, cfg.App.Version)

	// 8. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "If-None-Match", mw.RequestIDHeader},
		ExposedHeaders: []string{"ETag", mw.RequestIDHeader},
		MaxAge:         cfg.CORS.MaxAge,
	}))

	if generalRateLimiter != nil {
		r.Use(generalRateLimiter.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	healthHandler.RegisterRoutes(r)

	// Dashboard contract: dataset document and spreadsheet upload
	datasetHandler.RegisterRoutes(r)

	var uploadMiddleware []func(http.Handler) http.Handler
	if uploadRateLimiter != nil {
		uploadMiddleware = append(uploadMiddleware, uploadRateLimiter.Middleware)
	}
	if tokenManager != nil {
		uploadMiddleware = append(uploadMiddleware, mw.JWTMiddleware(tokenManager, auth.RoleUploader))
	}
	uploadHandler.RegisterRoutes(r, uploadMiddleware...)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		statsHandler.RegisterRoutes(r)
		uploadHandler.RegisterHistoryRoutes(r)

		// WebSocket route (Authentication is handled inside the handler)
		r.Get("/ws", wsHandler.ServeHTTP)
	})

	if cfg.Server.StaticDir != "" {
		logger.Info("serving dashboard assets", "dir", cfg.Server.StaticDir)
		r.Handle("/*", http.FileServer(http.Dir(cfg.Server.StaticDir)))
	}

	// 9. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// In-flight uploads finish before Shutdown returns.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	// Closes every websocket client.
	stop()

	logger.Info("server shutdown complete")
}
