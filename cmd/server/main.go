package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/user/roadwatch/internal/adapter/api"
	"github.com/user/roadwatch/internal/adapter/api/handler"
	"github.com/user/roadwatch/internal/adapter/api/middleware"
	"github.com/user/roadwatch/internal/adapter/metrics"
	"github.com/user/roadwatch/internal/adapter/repository/postgres"
	redisrepo "github.com/user/roadwatch/internal/adapter/repository/redis"
	"github.com/user/roadwatch/internal/adapter/source"
	"github.com/user/roadwatch/internal/domain"
	"github.com/user/roadwatch/internal/pkg/config"
	"github.com/user/roadwatch/internal/pkg/logger"
	"github.com/user/roadwatch/internal/usecase"

	_ "github.com/lib/pq" // Keep for postgres driver
)

// localURLs serves image URLs relative to this service when no remote
// backend is configured.
type localURLs struct{}

func (localURLs) ImageURL(filename string) string {
	return "/get-image/" + filename
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logger.New(cfg.LogLevel)
	slog.SetDefault(logger)

	m := metrics.NewEngineMetrics()

	// --- Start Admin and Metrics Server ---
	adminMux := http.NewServeMux()
	adminMux.Handle("/metrics", promhttp.Handler())
	adminMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	adminServer := &http.Server{
		Addr:    cfg.AdminAddr,
		Handler: adminMux,
	}

	go func() {
		logger.Info("starting admin & metrics server", "addr", adminServer.Addr)
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("admin & metrics server failed", "error", err)
		}
	}()

	// --- Graceful Shutdown Context ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database Connection ---
	db, err := sql.Open("postgres", cfg.PostgresURL)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	imageRepo := postgres.NewImageRepository(db, logger)

	// --- Listing Source Selection ---
	var listingSource domain.ImageSource = imageRepo
	var urls handler.ImageURLBuilder = localURLs{}
	if cfg.SourceBaseURL != "" {
		httpSource := source.NewHTTPSource(cfg.SourceBaseURL, cfg.SourceTimeout, logger)
		listingSource = httpSource
		urls = httpSource
		logger.Info("using remote device backend as listing source", "base_url", cfg.SourceBaseURL)
	}

	// --- Optional Snapshot Cache ---
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("could not connect to redis, proceeding without snapshot cache", "error", err)
		} else {
			cache := redisrepo.NewSnapshotCache(redisClient, cfg.SnapshotTTL, logger)
			listingSource = source.NewCachedSource(listingSource, cache, logger)
			logger.Info("snapshot cache enabled", "ttl", cfg.SnapshotTTL)
		}
	}

	// --- Dashboard Controller ---
	dashboard := usecase.NewDashboard(listingSource, cfg.Vocabulary(), cfg.PageSize, logger)
	if err := dashboard.Refresh(ctx); err != nil {
		logger.Warn("initial listing fetch failed, starting with an empty set", "error", err)
	}

	// --- SSE Broker ---
	sseBroker := handler.NewSSEBroker(ctx, logger)

	// --- HTTP Handlers and Router ---
	dashboardHandler := handler.NewDashboardHandler(dashboard, urls, sseBroker, m, logger)
	uploadHandler := handler.NewUploadHandler(imageRepo, dashboard, sseBroker, cfg.UploadDir, m, logger)
	imageHandler := handler.NewImageHandler(imageRepo, cfg.UploadDir, logger)

	router := api.NewRouter(dashboardHandler, uploadHandler, imageHandler, sseBroker, logger)

	chain := middleware.Logging(logger)(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)(router))
	server := &http.Server{
		Addr:        cfg.ServerAddr,
		Handler:     chain,
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 15 * time.Second,
		// No WriteTimeout: the SSE endpoint holds its response open.
	}

	go func() {
		logger.Info("starting dashboard server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("dashboard server failed", "error", err)
			stop() // Trigger shutdown on server error
		}
	}()

	// --- Wait for shutdown signal ---
	<-ctx.Done()
	logger.Info("shutting down servers...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("admin server shutdown failed", "error", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("dashboard server shutdown failed", "error", err)
	}

	logger.Info("servers shut down gracefully")
}
