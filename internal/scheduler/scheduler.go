package scheduler

import (
	"fmt"
	"log"
	"time"

	"InsiderSentinel/internal/history"
	"InsiderSentinel/internal/model"
	"InsiderSentinel/internal/notifier"
	"InsiderSentinel/internal/recorder"
	"InsiderSentinel/internal/watchlist"

	"github.com/robfig/cron/v3"
)

// FeedSource yields recent filing entries within a lookback window.
type FeedSource interface {
	Fetch(lookback time.Duration) ([]model.FilingEntry, error)
}

// FilingResolver locates a filing's transaction document from its index page.
type FilingResolver interface {
	Resolve(indexURL string) (string, bool)
}

// SignalClassifier computes the buy/sell signal from a transaction document.
type SignalClassifier interface {
	Classify(docURL string) (*model.FilingSignal, string)
}

// Notifier delivers a formatted message; failures are logged, never fatal.
type Notifier interface {
	Send(text string) error
}

// Scheduler runs the periodic filing scan.
type Scheduler struct {
	Cron       *cron.Cron
	Feed       FeedSource
	Resolver   FilingResolver
	Classifier SignalClassifier
	History    *history.Store
	Notifier   Notifier
	Recorder   recorder.Recorder
	Watchlist  []model.WatchlistEntry
	Lookback   time.Duration
}

// NewScheduler creates a new Scheduler.
func NewScheduler(feed FeedSource, res FilingResolver, cls SignalClassifier,
	hist *history.Store, n Notifier, rec recorder.Recorder,
	wl []model.WatchlistEntry, lookback time.Duration) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Feed:       feed,
		Resolver:   res,
		Classifier: cls,
		History:    hist,
		Notifier:   n,
		Recorder:   rec,
		Watchlist:  wl,
		Lookback:   lookback,
	}
}

// RegisterAll registers the periodic scan task.
func (s *Scheduler) RegisterAll(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunScanNow executes the scan immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunScanNow() {
	s.scanTask()
}

// scanTask processes the feed top to bottom: unseen entries matching the
// watchlist are resolved, classified, marked processed, and alerted when the
// filtering policy allows. The history file is written once at the end, so a
// crash mid-run loses only that run's progress.
func (s *Scheduler) scanTask() {
	log.Println("[INFO] running filing scan")
	entries, err := s.Feed.Fetch(s.Lookback)
	if err != nil {
		log.Printf("[WARN] fetch feed: %v", err)
		return
	}

	stats := recorder.ScanStats{Entries: len(entries)}
	for _, e := range entries {
		if s.History.Contains(e.Link) {
			continue
		}
		w, ok := watchlist.Match(e.Title, s.Watchlist)
		if !ok {
			continue
		}
		stats.Matched++

		sig, summary := s.classifyFiling(e.Link)

		// Mark processed whether or not an alert goes out, so a parsed but
		// neutral (or permanently unparseable) filing is never re-fetched.
		s.History.Add(e.Link)

		insider := notifier.InsiderName(e.Title)
		notified := notifier.ShouldNotify(sig, summary)
		if notified {
			msg := notifier.ComposeAlert(w.Ticker, insider, sig, summary, e.Link, e.UpdatedAt)
			s.trySend(msg)
			stats.Alerts++
		} else {
			log.Printf("[INFO] suppressed neutral filing for %s: %s", w.Ticker, e.Link)
			stats.Suppressed++
		}

		if err := s.Recorder.RecordFiling(&recorder.FilingRecord{
			Ticker:         w.Ticker,
			Insider:        insider,
			Link:           e.Link,
			Signal:         string(sig.Signal),
			TotalBuyValue:  sig.TotalBuyValue,
			TotalSellValue: sig.TotalSellValue,
			SharesBought:   sig.SharesBought,
			SharesSold:     sig.SharesSold,
			Notified:       notified,
		}); err != nil {
			log.Printf("[ERROR] record filing: %v", err)
		}
	}

	if err := s.History.Save(); err != nil {
		log.Printf("[ERROR] save history: %v", err)
	}
	if err := s.Recorder.RecordScan(&stats); err != nil {
		log.Printf("[ERROR] record scan: %v", err)
	}
	log.Printf("[INFO] scan done: %d entries, %d matched, %d alerts, %d suppressed",
		stats.Entries, stats.Matched, stats.Alerts, stats.Suppressed)
}

// classifyFiling resolves the filing's transaction document and classifies it.
// A resolver miss means "cannot auto-classify": the filing may still be
// materially relevant, so it surfaces as UNKNOWN with the manual-check summary
// instead of being dropped.
func (s *Scheduler) classifyFiling(indexURL string) (*model.FilingSignal, string) {
	docURL, ok := s.Resolver.Resolve(indexURL)
	if !ok {
		return &model.FilingSignal{Signal: model.SignalUnknown}, model.ManualCheckSummary
	}
	return s.Classifier.Classify(docURL)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/scan":
		s.scanTask()
		return ""
	case "/status":
		return notifier.FormatStatus(s.Watchlist, s.History.Len())
	default:
		return "Available commands:\n• /scan — run a filing scan now\n• /status — watchlist and history state"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.Send(text); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
