package config

import (
	"fmt"
	"os"

	"InsiderSentinel/internal/model"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Edgar struct {
		FeedURL         string `yaml:"feed_url"`
		UserAgent       string `yaml:"user_agent"`
		FormType        string `yaml:"form_type"`
		LookbackMinutes int    `yaml:"lookback_minutes"`
		TimeoutSeconds  int    `yaml:"timeout_seconds"`
	} `yaml:"edgar"`
	Watchlist []model.WatchlistEntry `yaml:"watchlist"`
	History   struct {
		File       string `yaml:"file"`
		MaxEntries int    `yaml:"max_entries"`
	} `yaml:"history"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
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
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("EDGAR_FEED_URL"); v != "" {
		cfg.Edgar.FeedURL = v
	}
	if v := os.Getenv("EDGAR_USER_AGENT"); v != "" {
		cfg.Edgar.UserAgent = v
	}
	if v := os.Getenv("LOOKBACK_MINUTES"); v != "" {
		var minutes int
		if _, err := fmt.Sscanf(v, "%d", &minutes); err == nil {
			cfg.Edgar.LookbackMinutes = minutes
		}
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("HISTORY_FILE"); v != "" {
		cfg.History.File = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Edgar.FeedURL == "" {
		cfg.Edgar.FeedURL = "https://www.sec.gov/cgi-bin/browse-edgar?action=getcurrent&CIK=&type=4&company=&dateb=&owner=include&start=0&count=100&output=atom"
	}
	if cfg.Edgar.FormType == "" {
		cfg.Edgar.FormType = "4"
	}
	if cfg.Edgar.LookbackMinutes == 0 {
		cfg.Edgar.LookbackMinutes = 30
	}
	if cfg.Edgar.TimeoutSeconds == 0 {
		cfg.Edgar.TimeoutSeconds = 30
	}
	if cfg.History.File == "" {
		cfg.History.File = "data/filing_history.json"
	}
	if cfg.History.MaxEntries == 0 {
		cfg.History.MaxEntries = 500
	}
	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "0 */10 * * * *"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/insider_sentinel.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	// SEC rejects requests without an identifying User-Agent.
	if c.Edgar.UserAgent == "" {
		return fmt.Errorf("edgar.user_agent is required")
	}
	if len(c.Watchlist) == 0 {
		return fmt.Errorf("watchlist must not be empty")
	}
	for i, w := range c.Watchlist {
		if w.Ticker == "" || w.Keyword == "" {
			return fmt.Errorf("watchlist[%d]: ticker and keyword are required", i)
		}
	}
	return nil
}
