// Package main ingests the gold/silver price series from a CSV source
// and optionally persists it to PostgreSQL.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"metal-ratio-lab/internal/config"
	"metal-ratio-lab/internal/datecode"
	"metal-ratio-lab/internal/ingestion"
	"metal-ratio-lab/internal/storage"
	pgstore "metal-ratio-lab/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	seriesURL := flag.String("series-url", "", "CSV source URL (overrides config)")
	seriesFile := flag.String("series-file", "", "Local CSV file (takes precedence over URL)")
	quoteURL := flag.String("quote-url", "", "Live quote endpoint for same-day top-up (overrides config)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (overrides config)")
	dryRun := flag.Bool("dry-run", false, "Parse and report without persisting")

	flag.Parse()

	logger := log.New(os.Stderr, "[ingest] ", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if *seriesURL != "" {
		cfg.Source.SeriesURL = *seriesURL
	}
	if *quoteURL != "" {
		cfg.Source.QuoteURL = *quoteURL
	}
	if *postgresDSN != "" {
		cfg.Database.PostgresDSN = *postgresDSN
	}

	if *seriesFile == "" && cfg.Source.SeriesURL == "" {
		logger.Fatal("a series source is required: --series-file, --series-url, or source.series_url in config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("received signal %v, shutting down...", sig)
		cancel()
	}()

	var source ingestion.Source
	if *seriesFile != "" {
		source = ingestion.NewFileSource(*seriesFile)
	} else {
		source = ingestion.NewHTTPSource(cfg.Source.SeriesURL)
	}

	var quotes ingestion.QuoteSource
	if cfg.Source.QuoteURL != "" {
		quotes = ingestion.NewHTTPQuoteSource(cfg.Source.QuoteURL)
	}

	var store storage.SeriesStore
	if cfg.Database.PostgresDSN != "" && !*dryRun {
		pool, err := pgstore.NewPool(ctx, cfg.Database.PostgresDSN)
		if err != nil {
			logger.Fatalf("connect to postgres: %v", err)
		}
		defer pool.Close()
		store = pgstore.NewSeriesStore(pool)
	}

	runner := ingestion.NewRunner(ingestion.RunnerOptions{
		Source:      source,
		QuoteSource: quotes,
		Store:       store,
		Logger:      logger,
	})

	series, err := runner.Run(ctx)
	if err != nil {
		logger.Fatalf("ingestion failed: %v", err)
	}

	logger.Printf("done: %d records, %s .. %s",
		len(series), datecode.ToKey(series.First().Date), datecode.ToKey(series.Last().Date))
	if store == nil {
		logger.Println("no store configured, series was not persisted")
	}
}
