package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"migaudit/internal/config"
	"migaudit/internal/correspond"
	"migaudit/internal/httpapi"
	"migaudit/internal/ingest"
	"migaudit/internal/notify"
	"migaudit/internal/pipeline"
	"migaudit/internal/probe"
	"migaudit/internal/store"
	"migaudit/pkg/logger"
)

type Application struct {
	configPath string
	debug      bool
}

func main() {
	app := &Application{}

	flag.StringVar(&app.configPath, "config", "config/dev.yaml", "Configuration file path")
	flag.BoolVar(&app.debug, "debug", false, "Enable debug mode")
	flag.Parse()

	if err := app.Run(); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}

func (app *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := config.NewManager()
	cfg, err := manager.Load(app.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if app.debug {
		cfg.Logger.Level = "debug"
	}
	logger.SetLogger(logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		TimeFormat: cfg.Logger.TimeFormat,
	}))

	var notifier notify.Notifier = notify.NoopNotifier{}
	if cfg.Slack.Enabled {
		notifier = notify.NewSlackNotifier(cfg.Slack.WebhookURL, cfg.Slack.Channel)
	}

	projectStore := store.NewMemoryStore()

	controller := pipeline.NewController(
		ingest.NewLocalFileReader(),
		projectStore,
		notifier,
		probe.Config{
			Concurrency:     cfg.Probe.Concurrency,
			DelayMs:         cfg.Probe.DelayMs,
			TimeoutMs:       cfg.Probe.TimeoutMs,
			FollowRedirects: true,
			MaxRedirectHops: cfg.Probe.MaxRedirectHops,
			RetryAttempts:   cfg.Probe.RetryAttempts,
		},
		cfg.Headless.PerformanceDelayMs,
		cfg.Headless.MobileDelayMs,
		cfg.Storage.ScreenshotDir,
		pipeline.Budgets{
			StatusCheckBudget:  cfg.Pipeline.StatusCheckBudget,
			SEOSampleBudget:    cfg.Pipeline.SEOSampleBudget,
			PerfSampleBudget:   cfg.Pipeline.PerfSampleBudget,
			MobileSampleBudget: cfg.Pipeline.MobileSampleBudget,
		},
		correspond.Config{},
	)

	server := httpapi.NewServer(controller, projectStore)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.GetLogger().WithField("addr", addr).Info("starting migration-audit server")
		errCh <- server.Listen(ctx, addr)
	}()

	select {
	case <-sigChan:
		logger.GetLogger().Info("shutdown signal received")
		cancel()
		if err := <-errCh; err != nil {
			return fmt.Errorf("server stopped unexpectedly: %w", err)
		}
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped unexpectedly: %w", err)
		}
	}

	logger.GetLogger().Info("server stopped")
	return nil
}
