package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Symbol string `yaml:"symbol"`
	Poll   struct {
		IntervalSeconds int `yaml:"interval_seconds"`
	} `yaml:"poll"`
	Signal struct {
		OIThreshold  float64 `yaml:"oi_threshold"`
		StrikeOffset float64 `yaml:"strike_offset"`
	} `yaml:"signal"`
	Window struct {
		HalfWidth float64 `yaml:"half_width"`
	} `yaml:"window"`
	DataSource struct {
		BaseURL        string `yaml:"base_url"` // optional chain-mirror API; empty means NSE direct
		APIKey         string `yaml:"api_key"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"data_source"`
	Artifacts struct {
		SnapshotCSV string `yaml:"snapshot_csv"`
		SignalsCSV  string `yaml:"signals_csv"`
		TradesCSV   string `yaml:"trades_csv"`
	} `yaml:"artifacts"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	UI struct {
		Enabled        bool `yaml:"enabled"`
		RefreshSeconds int  `yaml:"refresh_seconds"`
	} `yaml:"ui"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides (a .env file is honored first), then fills defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.UI.Enabled = true

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
	if v := os.Getenv("SYMBOL"); v != "" {
		cfg.Symbol = v
	}
	if v := os.Getenv("POLL_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Poll.IntervalSeconds = n
		}
	}
	if v := os.Getenv("OI_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Signal.OIThreshold = f
		}
	}
	if v := os.Getenv("CHAIN_API_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("CHAIN_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("DISABLE_TUI"); v == "true" {
		cfg.UI.Enabled = false
	}

	// Defaults
	if cfg.Symbol == "" {
		cfg.Symbol = "NIFTY"
	}
	if cfg.Poll.IntervalSeconds == 0 {
		cfg.Poll.IntervalSeconds = 900
	}
	if cfg.Signal.OIThreshold == 0 {
		cfg.Signal.OIThreshold = 500000
	}
	if cfg.Signal.StrikeOffset == 0 {
		cfg.Signal.StrikeOffset = 200
	}
	if cfg.Window.HalfWidth == 0 {
		cfg.Window.HalfWidth = 250
	}
	if cfg.DataSource.TimeoutSeconds == 0 {
		cfg.DataSource.TimeoutSeconds = 10
	}
	if cfg.Artifacts.SnapshotCSV == "" {
		cfg.Artifacts.SnapshotCSV = "data/latest_snapshot.csv"
	}
	if cfg.Artifacts.SignalsCSV == "" {
		cfg.Artifacts.SignalsCSV = "data/signals_log.csv"
	}
	if cfg.Artifacts.TradesCSV == "" {
		cfg.Artifacts.TradesCSV = "data/trades_log.csv"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/option_sentinel.db"
	}
	if cfg.UI.RefreshSeconds == 0 {
		cfg.UI.RefreshSeconds = 5
	}

	return cfg, nil
}

// Validate checks that all required fields are consistent.
func (c *Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if c.Poll.IntervalSeconds <= 0 {
		return fmt.Errorf("poll.interval_seconds must be positive")
	}
	if c.Signal.OIThreshold <= 0 {
		return fmt.Errorf("signal.oi_threshold must be positive")
	}
	if c.Signal.StrikeOffset < 0 {
		return fmt.Errorf("signal.strike_offset must not be negative")
	}
	if c.Window.HalfWidth <= 0 {
		return fmt.Errorf("window.half_width must be positive")
	}
	if c.DataSource.TimeoutSeconds <= 0 {
		return fmt.Errorf("data_source.timeout_seconds must be positive")
	}
	return nil
}

// PollInterval returns the poll cadence as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Poll.IntervalSeconds) * time.Second
}

// HTTPTimeout returns the per-request fetch timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.DataSource.TimeoutSeconds) * time.Second
}

// UIRefresh returns the display refresh cadence.
func (c *Config) UIRefresh() time.Duration {
	return time.Duration(c.UI.RefreshSeconds) * time.Second
}
