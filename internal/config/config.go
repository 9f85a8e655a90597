// Package config loads application configuration from a YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Source struct {
		SeriesURL string `yaml:"series_url"`
		QuoteURL  string `yaml:"quote_url"`
	} `yaml:"source"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Strategy struct {
		Amount        float64 `yaml:"amount"`
		GoldToSilver  float64 `yaml:"gold_to_silver"`
		SilverToGold  float64 `yaml:"silver_to_gold"`
		StartMetal    string  `yaml:"start_metal"`
		SwitchCostPct float64 `yaml:"switch_cost_pct"`
	} `yaml:"strategy"`
	Database struct {
		PostgresDSN   string `yaml:"postgres_dsn"`
		ClickHouseDSN string `yaml:"clickhouse_dsn"`
	} `yaml:"database"`
}

// Load reads config from a YAML file, then applies environment
// variable overrides and defaults. A missing file is not an error;
// overrides and defaults still apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SERIES_URL"); v != "" {
		cfg.Source.SeriesURL = v
	}
	if v := os.Getenv("QUOTE_URL"); v != "" {
		cfg.Source.QuoteURL = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Database.PostgresDSN = v
	}
	if v := os.Getenv("CLICKHOUSE_DSN"); v != "" {
		cfg.Database.ClickHouseDSN = v
	}
	if v := os.Getenv("STRATEGY_AMOUNT"); v != "" {
		if amount, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Strategy.Amount = amount
		}
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 15 * * *" // daily, after market data updates
	}
	if cfg.Strategy.Amount == 0 {
		cfg.Strategy.Amount = 10000
	}
	if cfg.Strategy.GoldToSilver == 0 {
		cfg.Strategy.GoldToSilver = 90
	}
	if cfg.Strategy.SilverToGold == 0 {
		cfg.Strategy.SilverToGold = 70
	}
	if cfg.Strategy.StartMetal == "" {
		cfg.Strategy.StartMetal = "GOLD"
	}
	if cfg.Strategy.SwitchCostPct == 0 {
		cfg.Strategy.SwitchCostPct = 0.03
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Source.SeriesURL == "" {
		return fmt.Errorf("source.series_url is required")
	}
	if c.Strategy.Amount < 0 {
		return fmt.Errorf("strategy.amount must be >= 0")
	}
	if c.Strategy.StartMetal != "GOLD" && c.Strategy.StartMetal != "SILVER" {
		return fmt.Errorf("strategy.start_metal must be GOLD or SILVER")
	}
	return nil
}
