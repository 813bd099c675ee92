package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bimakw/reputation-leaderboard/internal/application/services"
	"github.com/bimakw/reputation-leaderboard/internal/config"
	"github.com/bimakw/reputation-leaderboard/internal/infrastructure/cache"
	"github.com/bimakw/reputation-leaderboard/internal/infrastructure/history"
	"github.com/bimakw/reputation-leaderboard/internal/presentation/handlers"
	"github.com/bimakw/reputation-leaderboard/internal/presentation/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg.Log.Level, cfg.Log.Format)
	defer logger.Sync()

	logger.Info("Starting reputation-leaderboard API",
		zap.Int("port", cfg.API.Port),
		zap.String("cache_backend", cfg.Cache.Backend),
	)

	defaults, err := services.NewQueryDefaults(cfg.Leaderboard)
	if err != nil {
		logger.Fatal("Invalid leaderboard configuration", zap.Error(err))
	}

	// History API client
	historyClient := history.NewClient(cfg.Upstream, logger)

	// Response cache (optional)
	store, err := cache.NewStore(cfg.Cache, cfg.Redis, logger)
	if err != nil {
		logger.Warn("Failed to set up response cache, running without cache", zap.Error(err))
		store = nil
	} else if store != nil {
		defer store.Close()
	}

	// Create services
	leaderboardService := services.NewLeaderboardService(historyClient, historyClient, store, logger)

	// Create handlers
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService, defaults, logger)
	rewardsHandler := handlers.NewRewardsHandler(leaderboardService, defaults, logger)

	var cacheChecker handlers.HealthChecker
	if store != nil {
		cacheChecker = store
	}
	healthHandler := handlers.NewHealthHandler(historyClient, cacheChecker, cfg.Cache.Backend)

	// Setup router
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(chimiddleware.Recoverer)

	// Health endpoints (no rate limiting)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Get("/live", healthHandler.Live)
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimiter(cfg.API.RateLimitRPS))

		r.Route("/api/v1", func(r chi.Router) {
			leaderboardHandler.RegisterRoutes(r)
			rewardsHandler.RegisterRoutes(r)
		})

		// Legacy path kept for existing clients
		r.Get("/api/nft-reputation", leaderboardHandler.GetLeaderboard)
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
	}

	// Run server in goroutine
	go func() {
		logger.Info("API server starting", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Received shutdown signal, shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func setupLogger(level, format string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	encoding := "json"
	if format == "console" {
		encoding = "console"
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         encoding,
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, _ := config.Build()
	return logger
}
