// Package main runs one switching-strategy simulation over a chosen
// window and prints the summary, optionally persisting the run.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"metal-ratio-lab/internal/config"
	"metal-ratio-lab/internal/domain"
	"metal-ratio-lab/internal/ingestion"
	"metal-ratio-lab/internal/pipeline"
	"metal-ratio-lab/internal/simulation"
	"metal-ratio-lab/internal/storage"
	chstore "metal-ratio-lab/internal/storage/clickhouse"
	pgstore "metal-ratio-lab/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	seriesFile := flag.String("series-file", "", "Local CSV file (takes precedence over config URL)")

	startKey := flag.String("start", "", "Window start date (YYYY-MM-DD), empty for series start")
	endKey := flag.String("end", "", "Window end date (YYYY-MM-DD), empty for series end")
	amount := flag.Float64("amount", 0, "Starting USD amount (0 uses config)")
	goldToSilver := flag.Float64("gold-to-silver", math.NaN(), "GSR threshold for switching gold to silver (NaN disables)")
	silverToGold := flag.Float64("silver-to-gold", math.NaN(), "GSR threshold for switching silver to gold (NaN disables)")
	startMetal := flag.String("start-metal", "", "Starting metal: GOLD or SILVER (empty uses config)")
	switchCost := flag.Float64("switch-cost", 0, "Conversion cost fraction per switch (0 uses default)")

	persist := flag.Bool("persist", false, "Persist the run and trajectory to storage")
	outputJSON := flag.Bool("json", false, "Output summary as JSON")

	flag.Parse()

	logger := log.New(os.Stderr, "[backtest] ", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	params := domain.SimulationParams{
		Amount:        cfg.Strategy.Amount,
		GoldToSilver:  cfg.Strategy.GoldToSilver,
		SilverToGold:  cfg.Strategy.SilverToGold,
		StartMetal:    domain.Metal(cfg.Strategy.StartMetal),
		SwitchCostPct: cfg.Strategy.SwitchCostPct,
	}
	if *amount > 0 {
		params.Amount = *amount
	}
	if flagPassed("gold-to-silver") {
		params.GoldToSilver = *goldToSilver
	}
	if flagPassed("silver-to-gold") {
		params.SilverToGold = *silverToGold
	}
	if *startMetal != "" {
		params.StartMetal = domain.Metal(strings.ToUpper(*startMetal))
	}
	if *switchCost > 0 {
		params.SwitchCostPct = *switchCost
	}
	if !params.StartMetal.Valid() {
		logger.Fatalf("invalid start metal %q, must be GOLD or SILVER", params.StartMetal)
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
	switch {
	case *seriesFile != "":
		source = ingestion.NewFileSource(*seriesFile)
	case cfg.Source.SeriesURL != "":
		source = ingestion.NewHTTPSource(cfg.Source.SeriesURL)
	default:
		logger.Fatal("a series source is required: --series-file or source.series_url in config")
	}

	var quotes ingestion.QuoteSource
	if cfg.Source.QuoteURL != "" {
		quotes = ingestion.NewHTTPQuoteSource(cfg.Source.QuoteURL)
	}

	ingestRunner := ingestion.NewRunner(ingestion.RunnerOptions{
		Source:      source,
		QuoteSource: quotes,
		Logger:      logger,
	})
	series, err := ingestRunner.Run(ctx)
	if err != nil {
		logger.Fatalf("ingestion failed: %v", err)
	}

	res, err := pipeline.Explore(series, pipeline.ExploreRequest{
		StartKey: *startKey,
		EndKey:   *endKey,
		Params:   params,
	})
	if err != nil {
		logger.Fatalf("explore failed: %v", err)
	}

	if *persist {
		var (
			runStore  storage.SimulationRunStore
			trajStore storage.TrajectoryStore
		)
		if cfg.Database.PostgresDSN != "" {
			pool, err := pgstore.NewPool(ctx, cfg.Database.PostgresDSN)
			if err != nil {
				logger.Fatalf("connect to postgres: %v", err)
			}
			defer pool.Close()
			runStore = pgstore.NewSimulationRunStore(pool)
		}
		if cfg.Database.ClickHouseDSN != "" {
			conn, err := chstore.NewConn(ctx, cfg.Database.ClickHouseDSN)
			if err != nil {
				logger.Fatalf("connect to clickhouse: %v", err)
			}
			defer conn.Close()
			trajStore = chstore.NewTrajectoryStore(conn)
		}
		if runStore == nil && trajStore == nil {
			logger.Fatal("--persist requires database.postgres_dsn or database.clickhouse_dsn")
		}

		simRunner := simulation.NewRunner(simulation.RunnerOptions{
			RunStore:        runStore,
			TrajectoryStore: trajStore,
			Logger:          logger,
		})
		runID, err := simRunner.Persist(ctx, res.StartKey, res.EndKey, params, res.Records, res.Summary)
		if err != nil {
			logger.Fatalf("persist failed: %v", err)
		}
		logger.Printf("run id: %s", runID)
	}

	printSummary(res, *outputJSON)
}

// flagPassed reports whether the named flag was set explicitly, so a
// NaN default can mean "disabled" while an explicit NaN still works.
func flagPassed(name string) bool {
	passed := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			passed = true
		}
	})
	return passed
}

func printSummary(res *pipeline.ExploreResult, asJSON bool) {
	s := res.Summary
	if asJSON {
		out, _ := json.MarshalIndent(map[string]any{
			"start":               res.StartKey,
			"end":                 res.EndKey,
			"duration":            s.Duration,
			"end_gold_value":      s.EndGoldValue,
			"end_silver_value":    s.EndSilverValue,
			"end_strategy_value":  s.EndStrategyValue,
			"gold_return_pct":     s.GoldReturnPct,
			"silver_return_pct":   s.SilverReturnPct,
			"strategy_return_pct": s.StrategyReturnPct,
			"vs_gold_pct":         s.VsGoldPct,
			"vs_silver_pct":       s.VsSilverPct,
			"beats_gold_pct":      s.BeatsGoldPct,
			"beats_silver_pct":    s.BeatsSilverPct,
			"switch_count":        s.SwitchCount,
			"final_metal":         s.FinalMetal,
		}, "", "  ")
		fmt.Println(string(out))
		return
	}

	fmt.Printf("Window:   %s .. %s (%s)\n", res.StartKey, res.EndKey, s.Duration)
	fmt.Printf("Gold:     $%.2f (%+.2f%%)\n", s.EndGoldValue, s.GoldReturnPct)
	fmt.Printf("Silver:   $%.2f (%+.2f%%)\n", s.EndSilverValue, s.SilverReturnPct)
	fmt.Printf("Strategy: $%.2f (%+.2f%%), %d switches",
		s.EndStrategyValue, s.StrategyReturnPct, s.SwitchCount)
	if s.FinalMetal != "" {
		fmt.Printf(", ends in %s", s.FinalMetal)
	}
	fmt.Println()
	fmt.Printf("Vs gold:  %+.2f%% | vs silver: %+.2f%%\n", s.VsGoldPct, s.VsSilverPct)
}
