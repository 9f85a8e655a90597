// Package main runs the price-series explorer service: scheduled
// ingestion of the gold/silver series, an HTTP API for window
// exploration, and websocket refresh pushes.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"metal-ratio-lab/internal/config"
	"metal-ratio-lab/internal/ingestion"
	"metal-ratio-lab/internal/observability"
	"metal-ratio-lab/internal/simulation"
	"metal-ratio-lab/internal/storage"
	chstore "metal-ratio-lab/internal/storage/clickhouse"
	"metal-ratio-lab/internal/storage/memory"
	pgstore "metal-ratio-lab/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}
	if !*useMemory && cfg.Database.PostgresDSN == "" {
		logger.Fatal("database.postgres_dsn is required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stores
	var (
		seriesStore storage.SeriesStore        = memory.NewSeriesStore()
		runStore    storage.SimulationRunStore = memory.NewSimulationRunStore()
		trajStore   storage.TrajectoryStore    = memory.NewTrajectoryStore()
	)
	if !*useMemory {
		pool, err := pgstore.NewPool(ctx, cfg.Database.PostgresDSN)
		if err != nil {
			logger.Fatalf("connect to postgres: %v", err)
		}
		defer pool.Close()
		seriesStore = pgstore.NewSeriesStore(pool)
		runStore = pgstore.NewSimulationRunStore(pool)

		if cfg.Database.ClickHouseDSN != "" {
			conn, err := chstore.NewConn(ctx, cfg.Database.ClickHouseDSN)
			if err != nil {
				logger.Fatalf("connect to clickhouse: %v", err)
			}
			defer conn.Close()
			trajStore = chstore.NewTrajectoryStore(conn)
		} else {
			logger.Println("no clickhouse dsn, trajectories stay in memory")
		}
	}

	var quotes ingestion.QuoteSource
	if cfg.Source.QuoteURL != "" {
		quotes = ingestion.NewHTTPQuoteSource(cfg.Source.QuoteURL)
	}
	ingestRunner := ingestion.NewRunner(ingestion.RunnerOptions{
		Source:      ingestion.NewHTTPSource(cfg.Source.SeriesURL),
		QuoteSource: quotes,
		Store:       seriesStore,
		Logger:      log.New(os.Stdout, "[ingestion] ", log.LstdFlags),
	})
	simRunner := simulation.NewRunner(simulation.RunnerOptions{
		RunStore:        runStore,
		TrajectoryStore: trajStore,
		Logger:          log.New(os.Stdout, "[simulation] ", log.LstdFlags),
	})

	srv := &server{
		cfg:          cfg,
		seriesStore:  seriesStore,
		runStore:     runStore,
		trajStore:    trajStore,
		ingestRunner: ingestRunner,
		simRunner:    simRunner,
		hub:          newHub(logger),
		logger:       logger,
	}

	// Initial ingest; a failing source at startup is not fatal, the
	// cron refresh retries on schedule.
	srv.refresh(ctx)

	// Scheduled refresh
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Schedule.RefreshCron, func() { srv.refresh(ctx) }); err != nil {
		logger.Fatalf("invalid refresh cron %q: %v", cfg.Schedule.RefreshCron, err)
	}
	scheduler.Start()
	defer scheduler.Stop()
	logger.Printf("refresh scheduled: %q", cfg.Schedule.RefreshCron)

	// HTTP server
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", srv.handleHealthz)
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/api/series", srv.handleSeries)
	mux.HandleFunc("/api/explore", srv.handleExplore)
	mux.HandleFunc("/api/runs", srv.handleRuns)
	mux.HandleFunc("/api/runs/", srv.handleRunTrajectory)
	mux.HandleFunc("/ws", srv.hub.handleWS)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: withRequestMetrics(mux),
	}

	done := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("received signal %v, initiating graceful shutdown...", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		srv.hub.closeAll()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("http shutdown: %v", err)
		}

		select {
		case sig := <-sigCh:
			logger.Printf("received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-done:
		}
	}()

	logger.Printf("listening on %s", cfg.Server.Addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("http server: %v", err)
	}
	close(done)
	logger.Println("shutdown complete")
}

// withRequestMetrics records request duration per path and status.
func withRequestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		observability.RecordHTTPRequest(r.URL.Path, strconv.Itoa(sw.status), time.Since(started).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
