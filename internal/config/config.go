package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"DoubleDown/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	DataSource struct {
		BaseURL    string `yaml:"base_url"`
		Provider   string `yaml:"provider"`
		CSVDir     string `yaml:"csv_dir"`
		TimeoutSec int    `yaml:"timeout_sec"`
	} `yaml:"data_source"`
	Simulation struct {
		TotalFunds        float64 `yaml:"total_funds"`
		InitialStockCount int     `yaml:"initial_stock_count"`
		Strategy          string  `yaml:"strategy"`
		IntervalMs        int     `yaml:"interval_ms"`
	} `yaml:"simulation"`
	Cache struct {
		TTLMinutes int `yaml:"ttl_minutes"`
	} `yaml:"cache"`
	Schedule struct {
		CacheFlushCron string `yaml:"cache_flush_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Path returns CONFIG_PATH or the default config location.
func Path() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/config.yaml"
}

// Load reads .env when present, then the YAML file, then applies environment
// variable overrides and defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("load .env: %v", err)
	}

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
	if v := os.Getenv("DOUBLEDOWN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("STOCK_DATA_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("CSV_DIR"); v != "" {
		cfg.DataSource.CSVDir = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("TOTAL_FUNDS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Simulation.TotalFunds = f
		}
	}
	if v := os.Getenv("INITIAL_STOCK_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Simulation.InitialStockCount = n
		}
	}
	if v := os.Getenv("STRATEGY"); v != "" {
		cfg.Simulation.Strategy = v
	}
	if v := os.Getenv("CRON_CACHE_FLUSH"); v != "" {
		cfg.Schedule.CacheFlushCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":5000"
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "csv"
	}
	if cfg.DataSource.CSVDir == "" {
		cfg.DataSource.CSVDir = "data/bars"
	}
	if cfg.DataSource.TimeoutSec == 0 {
		cfg.DataSource.TimeoutSec = 30
	}
	if cfg.Simulation.TotalFunds == 0 {
		cfg.Simulation.TotalFunds = 100000
	}
	if cfg.Simulation.InitialStockCount == 0 {
		cfg.Simulation.InitialStockCount = 100
	}
	cfg.Simulation.Strategy = string(model.ParsePriceField(cfg.Simulation.Strategy))
	if cfg.Simulation.IntervalMs == 0 {
		cfg.Simulation.IntervalMs = int(model.DefaultInterval / time.Millisecond)
	}
	if cfg.Cache.TTLMinutes == 0 {
		cfg.Cache.TTLMinutes = 60
	}
	if cfg.Schedule.CacheFlushCron == "" {
		cfg.Schedule.CacheFlushCron = "0 35 17 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/doubledown.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "csv":
		if c.DataSource.CSVDir == "" {
			return fmt.Errorf("data_source.csv_dir is required for the csv provider")
		}
	case "yahoo":
	case "remote":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the remote provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not one of csv, yahoo, remote", c.DataSource.Provider)
	}
	if c.Simulation.TotalFunds <= 0 {
		return fmt.Errorf("simulation.total_funds must be positive")
	}
	if c.Simulation.InitialStockCount <= 0 {
		return fmt.Errorf("simulation.initial_stock_count must be positive")
	}
	if c.Simulation.IntervalMs < 0 {
		return fmt.Errorf("simulation.interval_ms must not be negative")
	}
	return nil
}

// Params returns the configured simulation parameters.
func (c *Config) Params() model.Params {
	return model.Params{
		TotalFunds:        c.Simulation.TotalFunds,
		InitialStockCount: c.Simulation.InitialStockCount,
		Strategy:          model.ParsePriceField(c.Simulation.Strategy),
		Interval:          time.Duration(c.Simulation.IntervalMs) * time.Millisecond,
	}
}

// Timeout is the data source HTTP timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.DataSource.TimeoutSec) * time.Second
}

// CacheTTL is how long fetched series stay cached.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}
