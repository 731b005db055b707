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

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/lib/pq"

	"github.com/user/roadwatch/internal/adapter/metrics"
	"github.com/user/roadwatch/internal/adapter/repository/journal"
	"github.com/user/roadwatch/internal/adapter/repository/postgres"
	"github.com/user/roadwatch/internal/adapter/source"
	"github.com/user/roadwatch/internal/pkg/config"
	"github.com/user/roadwatch/internal/pkg/logger"
	"github.com/user/roadwatch/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	runID := uuid.NewString()
	log = log.With("run_id", runID)
	log.Info("starting collector worker")

	if cfg.SourceBaseURL == "" {
		log.Error("SOURCE_BASE_URL is required for the collector")
		os.Exit(1)
	}

	// Create a context that we can cancel on shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stopChan
		log.Info("shutdown signal received, stopping collector...")
		cancel()
	}()

	m := metrics.NewEngineMetrics()

	adminMux := http.NewServeMux()
	adminMux.Handle("/metrics", promhttp.Handler())
	adminServer := &http.Server{Addr: cfg.AdminAddr, Handler: adminMux}
	go func() {
		log.Info("starting metrics server", "addr", adminServer.Addr)
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server failed", "error", err)
		}
	}()

	// Connect to PostgreSQL
	db, err := sql.Open("postgres", cfg.PostgresURL)
	if err != nil {
		log.Error("failed to open postgres connection", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	log.Info("connected to postgres")

	// Instantiate the journal, store and source
	journalRepo, err := journal.NewJournalRepository(cfg.JournalDir, cfg.JournalSegmentSize, cfg.JournalMaxDiskSize, log)
	if err != nil {
		log.Error("failed to initialize record journal", "error", err)
		os.Exit(1)
	}
	defer journalRepo.Close()

	imageRepo := postgres.NewImageRepository(db, log)
	backend := source.NewHTTPSource(cfg.SourceBaseURL, cfg.SourceTimeout, log)

	syncUseCase := usecase.NewSyncRecordsUseCase(backend, imageRepo, journalRepo, log)

	// Start the sync loop
	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	log.Info("collector worker started, mirroring records...", "interval", cfg.PollInterval)

Loop:
	for {
		select {
		case <-ticker.C:
			count, err := syncUseCase.SyncOnce(ctx)
			if err != nil {
				m.SyncBatchesTotal.WithLabelValues("error").Inc()
				m.JournalActive.Set(1)
				log.Error("error syncing record batch", "error", err)
				continue
			}
			m.SyncBatchesTotal.WithLabelValues("ok").Inc()
			m.JournalActive.Set(0)
			if count > 0 {
				log.Info("record batch mirrored", "count", count)
			}
		case <-ctx.Done():
			log.Info("context cancelled, shutting down collector loop")
			break Loop
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		log.Error("metrics server shutdown failed", "error", err)
	}

	log.Info("collector worker shut down gracefully")
}
