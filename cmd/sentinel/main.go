package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"OptionSentinel/internal/collector"
	"OptionSentinel/internal/config"
	"OptionSentinel/internal/notifier"
	"OptionSentinel/internal/poller"
	"OptionSentinel/internal/recorder"
	signaldet "OptionSentinel/internal/signal"
	"OptionSentinel/internal/store"
	"OptionSentinel/internal/ui"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] OptionSentinel starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewAPIFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy, cfg.HTTPTimeout())
	} else {
		fetcher = collector.NewNSEFetcher(cfg.Proxy, cfg.HTTPTimeout())
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init collector
	col := collector.NewCollector(fetcher, cfg.Symbol)

	// Init store
	st, err := store.NewStore(cfg.Artifacts.SnapshotCSV, cfg.Artifacts.SignalsCSV, cfg.Artifacts.TradesCSV)
	if err != nil {
		log.Fatalf("[FATAL] init store: %v", err)
	}

	// Init Telegram notifier (disabled when token is empty)
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init poller
	det := signaldet.NewDetector(cfg.Signal.OIThreshold, cfg.Signal.StrikeOffset)
	p, err := poller.NewPoller(ctx, col, det, st, rec, tn, cfg.Window.HalfWidth, cfg.PollInterval())
	if err != nil {
		log.Fatalf("[FATAL] init poller: %v", err)
	}
	p.Start()
	defer p.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if cfg.UI.Enabled {
		app := ui.NewApp(p, st, cfg.Symbol, cfg.PollInterval(), cfg.Signal.OIThreshold, cfg.UIRefresh())
		go func() {
			if err := app.Run(); err != nil {
				log.Printf("[ERROR] tui: %v", err)
			}
			cancel()
		}()
		select {
		case <-sigCh:
			app.Stop()
		case <-ctx.Done():
		}
	} else {
		log.Println("[INFO] OptionSentinel is running headless. Press Ctrl+C to stop.")
		<-sigCh
	}

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] OptionSentinel stopped")
}
