package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"InsiderSentinel/internal/config"
	"InsiderSentinel/internal/edgar"
	"InsiderSentinel/internal/feed"
	"InsiderSentinel/internal/history"
	"InsiderSentinel/internal/notifier"
	"InsiderSentinel/internal/recorder"
	"InsiderSentinel/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] InsiderSentinel starting...")

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

	timeout := time.Duration(cfg.Edgar.TimeoutSeconds) * time.Second
	lookback := time.Duration(cfg.Edgar.LookbackMinutes) * time.Minute

	// Init pipeline components
	poller := feed.NewPoller(cfg.Edgar.FeedURL, cfg.Edgar.UserAgent, cfg.Proxy, timeout)
	resolver := edgar.NewResolver(cfg.Edgar.UserAgent, cfg.Edgar.FormType, cfg.Proxy, timeout)
	classifier := edgar.NewClassifier(cfg.Edgar.UserAgent, cfg.Proxy, timeout)
	log.Printf("[INFO] watching %d tickers, lookback %v", len(cfg.Watchlist), lookback)

	// Init history store
	hist := history.NewStore(cfg.History.File, cfg.History.MaxEntries)
	log.Printf("[INFO] history loaded: %d processed filings", hist.Len())

	// Init Telegram notifier
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

	// Init scheduler
	sched := scheduler.NewScheduler(poller, resolver, classifier, hist, tn, rec, cfg.Watchlist, lookback)
	if err := sched.RegisterAll(cfg.Schedule.ScanCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	// System check so the operator knows the monitor came up
	if err := tn.Send(fmt.Sprintf("✅ <b>InsiderSentinel online</b> — watching %d tickers", len(cfg.Watchlist))); err != nil {
		log.Printf("[WARN] startup message: %v", err)
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing scan now")
		go sched.RunScanNow()
	}

	log.Println("[INFO] InsiderSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] InsiderSentinel stopped")
}
