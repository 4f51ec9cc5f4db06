package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Scraper  ScraperConfig  `yaml:"scraper"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Store    StoreConfig    `yaml:"store"`
	Dedup    DedupConfig    `yaml:"dedup"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Telegram TelegramConfig `yaml:"telegram"`
	Health   HealthConfig   `yaml:"health"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ScraperConfig struct {
	URL            string        `yaml:"url"`
	Category       string        `yaml:"category"`        // category filter control to click, e.g. "ITF Women"
	TierKeyword    string        `yaml:"tier_keyword"`    // tournament keyword that marks in-scope fixtures
	ExcludeKeyword string        `yaml:"exclude_keyword"` // tournament keyword that marks out-of-scope fixtures
	Interval       time.Duration `yaml:"interval"`
	ContentTimeout time.Duration `yaml:"content_timeout"` // max wait for root content node
	ScrollCycles   int           `yaml:"scroll_cycles"`   // scroll-and-settle passes to trigger lazy loading
	ScrollSettle   time.Duration `yaml:"scroll_settle"`   // pause after each scroll
	UserAgent      string        `yaml:"user_agent"`
}

type IngestConfig struct {
	RateLimit   int           `yaml:"rate_limit"`   // max concurrent create calls (external ops/sec ceiling)
	BatchDelay  time.Duration `yaml:"batch_delay"`  // inter-batch delay amortized across workers
	CallTimeout time.Duration `yaml:"call_timeout"` // per-create network timeout
}

type StoreConfig struct {
	Backend  string          `yaml:"backend"` // "http" or "postgres"
	HTTP     HTTPStoreConfig `yaml:"http"`
	Postgres PostgresConfig  `yaml:"postgres"`
}

type HTTPStoreConfig struct {
	BaseURL  string        `yaml:"base_url"`
	APIToken string        `yaml:"api_token"` // falls back to STORE_API_TOKEN env var
	Timeout  time.Duration `yaml:"timeout"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type DedupConfig struct {
	Backend       string        `yaml:"backend"` // "memory" or "redis"
	WarmFromStore bool          `yaml:"warm_from_store"`
	Redis         RedisConfig   `yaml:"redis"`
	TTL           time.Duration `yaml:"ttl"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type PricingConfig struct {
	Enabled    bool          `yaml:"enabled"`
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"` // falls back to TELEGRAM_BOT_TOKEN env var
	ChatID   int64  `yaml:"chat_id"`
}

type HealthConfig struct {
	Port              int           `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	config.applyEnvOverrides()

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Scraper.ContentTimeout <= 0 {
		c.Scraper.ContentTimeout = 15 * time.Second
	}
	if c.Scraper.ScrollCycles <= 0 {
		c.Scraper.ScrollCycles = 3
	}
	if c.Scraper.ScrollSettle <= 0 {
		c.Scraper.ScrollSettle = 2 * time.Second
	}
	if c.Ingest.RateLimit <= 0 {
		c.Ingest.RateLimit = 3
	}
	if c.Ingest.BatchDelay <= 0 {
		c.Ingest.BatchDelay = time.Second
	}
	if c.Ingest.CallTimeout <= 0 {
		c.Ingest.CallTimeout = 10 * time.Second
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "http"
	}
	if c.Store.HTTP.Timeout <= 0 {
		c.Store.HTTP.Timeout = 10 * time.Second
	}
	if c.Dedup.Backend == "" {
		c.Dedup.Backend = "memory"
	}
	if c.Dedup.TTL <= 0 {
		c.Dedup.TTL = 72 * time.Hour
	}
	if c.Pricing.Timeout <= 0 {
		c.Pricing.Timeout = 10 * time.Second
	}
	if c.Pricing.MaxRetries <= 0 {
		c.Pricing.MaxRetries = 3
	}
	if c.Health.ReadHeaderTimeout <= 0 {
		c.Health.ReadHeaderTimeout = 5 * time.Second
	}
}

// applyEnvOverrides fills secrets from the environment so they never have to
// live in committed config files.
func (c *Config) applyEnvOverrides() {
	if c.Store.HTTP.APIToken == "" {
		c.Store.HTTP.APIToken = os.Getenv("STORE_API_TOKEN")
	}
	if c.Telegram.BotToken == "" {
		c.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	if c.Dedup.Redis.Password == "" {
		c.Dedup.Redis.Password = os.Getenv("REDIS_PASSWORD")
	}
}
