// Package main generates a Markdown report, a trajectory CSV, and PNG
// charts for one explored window.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"

	"metal-ratio-lab/internal/config"
	"metal-ratio-lab/internal/domain"
	"metal-ratio-lab/internal/ingestion"
	"metal-ratio-lab/internal/pipeline"
	"metal-ratio-lab/internal/reporting"
	"metal-ratio-lab/internal/storage"
	"metal-ratio-lab/internal/storage/memory"
	pgstore "metal-ratio-lab/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	seriesFile := flag.String("series-file", "", "Local CSV file (takes precedence over stored series)")
	startKey := flag.String("start", "", "Window start date (YYYY-MM-DD)")
	endKey := flag.String("end", "", "Window end date (YYYY-MM-DD)")
	outputDir := flag.String("output-dir", "output", "Output directory for report files")
	withCharts := flag.Bool("charts", true, "Render PNG charts")

	flag.Parse()

	logger := log.New(os.Stderr, "[report] ", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	var (
		seriesStore storage.SeriesStore
		runStore    storage.SimulationRunStore
	)
	switch {
	case *seriesFile != "":
		// Ingest the file into a throwaway store.
		mem := memory.NewSeriesStore()
		runner := ingestion.NewRunner(ingestion.RunnerOptions{
			Source: ingestion.NewFileSource(*seriesFile),
			Store:  mem,
			Logger: logger,
		})
		if _, err := runner.Run(ctx); err != nil {
			logger.Fatalf("ingestion failed: %v", err)
		}
		seriesStore = mem
	case cfg.Database.PostgresDSN != "":
		pool, err := pgstore.NewPool(ctx, cfg.Database.PostgresDSN)
		if err != nil {
			logger.Fatalf("connect to postgres: %v", err)
		}
		defer pool.Close()
		seriesStore = pgstore.NewSeriesStore(pool)
		runStore = pgstore.NewSimulationRunStore(pool)
	default:
		logger.Fatal("a series source is required: --series-file or database.postgres_dsn in config")
	}

	req := pipeline.ExploreRequest{
		StartKey: *startKey,
		EndKey:   *endKey,
		Params: domain.SimulationParams{
			Amount:        cfg.Strategy.Amount,
			GoldToSilver:  cfg.Strategy.GoldToSilver,
			SilverToGold:  cfg.Strategy.SilverToGold,
			StartMetal:    domain.Metal(cfg.Strategy.StartMetal),
			SwitchCostPct: cfg.Strategy.SwitchCostPct,
		},
		ShowGold: true, ShowSilver: true, ShowStrategy: true, ShowRatio: true,
	}

	report, err := reporting.NewGenerator(seriesStore, runStore).Generate(ctx, req)
	if err != nil {
		logger.Fatalf("generate report: %v", err)
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		logger.Fatalf("create output dir: %v", err)
	}

	write := func(name, content string) {
		path := filepath.Join(*outputDir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			logger.Fatalf("write %s: %v", name, err)
		}
		logger.Printf("wrote %s", path)
	}
	write("report.md", reporting.RenderMarkdown(report))
	write("trajectory.csv", reporting.RenderCSV(report.Trajectory))

	if *withCharts && len(report.Trajectory) >= 2 {
		// Re-derive the axis specs for the chart renderer.
		recs, err := seriesStore.GetAll(ctx)
		if err != nil {
			logger.Fatalf("load series: %v", err)
		}
		res, err := pipeline.Explore(recs, req)
		if err != nil {
			logger.Fatalf("explore failed: %v", err)
		}

		png, err := reporting.RenderValueChart(report.Trajectory, res.ValueAxis)
		if err != nil {
			logger.Fatalf("render value chart: %v", err)
		}
		path := filepath.Join(*outputDir, "value_chart.png")
		if err := os.WriteFile(path, png, 0o644); err != nil {
			logger.Fatalf("write value chart: %v", err)
		}
		logger.Printf("wrote %s", path)

		png, err = reporting.RenderRatioChart(report.Trajectory, res.RatioAxis)
		if err != nil {
			logger.Fatalf("render ratio chart: %v", err)
		}
		path = filepath.Join(*outputDir, "ratio_chart.png")
		if err := os.WriteFile(path, png, 0o644); err != nil {
			logger.Fatalf("write ratio chart: %v", err)
		}
		logger.Printf("wrote %s", path)
	}
}
