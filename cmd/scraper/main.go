package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mxxx222/TennisBot-sub003/internal/pkg/browser"
	pkgconfig "github.com/mxxx222/TennisBot-sub003/internal/pkg/config"
	"github.com/mxxx222/TennisBot-sub003/internal/pkg/health"
	"github.com/mxxx222/TennisBot-sub003/internal/pkg/logging"
	"github.com/mxxx222/TennisBot-sub003/internal/pkg/models"
	"github.com/mxxx222/TennisBot-sub003/internal/pkg/notify"
	"github.com/mxxx222/TennisBot-sub003/internal/pkg/pipeline"
	"github.com/mxxx222/TennisBot-sub003/internal/pkg/pricing"
	"github.com/mxxx222/TennisBot-sub003/internal/pkg/storage"
)

const defaultConfigPath = "configs/production.yaml"

// warmLimit bounds how many existing records are pulled from the store to
// pre-seed the dedup cache at startup.
const warmLimit = 1000

type flags struct {
	configPath string
	runFor     time.Duration
	once       bool
}

func main() {
	if err := run(); err != nil {
		slog.Error("Scraper failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Best-effort: local development keeps secrets in .env.
	_ = godotenv.Load()

	cfg := parseFlags()
	slog.Info("Loading config", "path", cfg.configPath)

	appConfig, err := pkgconfig.Load(cfg.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logging.SetupLogger(&appConfig.Logging, "scraper")
	slog.Info("Config loaded successfully")

	ctx, cancel := createContext(cfg.runFor)
	defer cancel()
	setupSignalHandler(ctx, cancel)

	store, err := buildStore(appConfig)
	if err != nil {
		return err
	}
	defer store.Close()

	cache, err := buildCache(appConfig)
	if err != nil {
		return err
	}
	defer cache.Close()

	var prices pipeline.PriceFetcher
	if appConfig.Pricing.Enabled {
		prices = pricing.NewClient(appConfig.Pricing)
	}

	var notifier *notify.TelegramNotifier
	if appConfig.Telegram.Enabled && appConfig.Telegram.BotToken != "" {
		notifier = notify.NewTelegramNotifier(appConfig.Telegram.BotToken, appConfig.Telegram.ChatID)
	}

	hooks := pipeline.Hooks{
		OnReport: func(report *models.CycleReport) {
			health.SetReport(report)
			notifier.CycleFinished(report)
		},
		OnAlert: func(message string) {
			notifier.OperationalAlert(message)
		},
	}

	pipe := pipeline.New(
		appConfig.Scraper,
		appConfig.Ingest,
		browser.NewSession(appConfig.Scraper),
		store,
		cache,
		prices,
		hooks,
	)

	if appConfig.Dedup.WarmFromStore {
		if err := pipe.WarmCache(ctx, warmLimit); err != nil {
			slog.Warn("Failed to warm dedup cache, continuing with cold cache", "error", err)
		}
	}

	if appConfig.Health.Port > 0 {
		health.Run(ctx, health.AddrFor(appConfig.Health.Port), "scraper", appConfig.Health.ReadHeaderTimeout)
	}

	if cfg.once {
		report, err := pipe.RunCycle(ctx)
		if err != nil {
			return err
		}
		health.SetReport(report)
		notifier.CycleFinished(report)
		return nil
	}

	if appConfig.Scraper.Interval <= 0 {
		appConfig.Scraper.Interval = 5 * time.Minute
		slog.Info("scraper.interval not set, using default", "interval", appConfig.Scraper.Interval)
	}

	pipe.Run(ctx)
	slog.Info("Scraper stopped gracefully")
	return nil
}

func parseFlags() flags {
	var cfg flags

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}

	flag.StringVar(&cfg.configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.DurationVar(&cfg.runFor, "run-for", 0, "Auto-stop after duration (e.g. 10s, 1m). 0 = run until SIGINT/SIGTERM")
	flag.BoolVar(&cfg.once, "once", false, "Run a single scrape cycle and exit")
	flag.Parse()
	return cfg
}

func buildStore(cfg *pkgconfig.Config) (storage.RecordStore, error) {
	switch cfg.Store.Backend {
	case "http":
		return storage.NewHTTPStore(cfg.Store.HTTP)
	case "postgres":
		return storage.NewPostgresStore(cfg.Store.Postgres)
	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.Store.Backend)
	}
}

func buildCache(cfg *pkgconfig.Config) (storage.DedupCache, error) {
	switch cfg.Dedup.Backend {
	case "memory":
		return storage.NewMemoryCache(), nil
	case "redis":
		return storage.NewRedisCache(cfg.Dedup.Redis, cfg.Dedup.TTL)
	default:
		return nil, fmt.Errorf("unknown dedup backend: %q", cfg.Dedup.Backend)
	}
}

func createContext(runFor time.Duration) (context.Context, context.CancelFunc) {
	if runFor > 0 {
		return context.WithTimeout(context.Background(), runFor)
	}
	return context.WithCancel(context.Background())
}

func setupSignalHandler(ctx context.Context, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal, stopping scraper...", "signal", sig.String())
			cancel()
		case <-ctx.Done():
			signal.Stop(sigChan)
			close(sigChan)
		}
	}()
}
