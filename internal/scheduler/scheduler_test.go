package scheduler

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"InsiderSentinel/internal/history"
	"InsiderSentinel/internal/model"
	"InsiderSentinel/internal/recorder"
)

type fakeFeed struct {
	entries []model.FilingEntry
}

func (f *fakeFeed) Fetch(_ time.Duration) ([]model.FilingEntry, error) {
	return f.entries, nil
}

type fakeResolver struct {
	calls int
	url   string
	ok    bool
}

func (f *fakeResolver) Resolve(_ string) (string, bool) {
	f.calls++
	return f.url, f.ok
}

type fakeClassifier struct {
	calls   int
	sig     *model.FilingSignal
	summary string
}

func (f *fakeClassifier) Classify(_ string) (*model.FilingSignal, string) {
	f.calls++
	return f.sig, f.summary
}

type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) Send(text string) error {
	f.sent = append(f.sent, text)
	return nil
}

var testWatchlist = []model.WatchlistEntry{
	{Ticker: "ZETA", Keyword: "Zeta Global"},
}

var testEntry = model.FilingEntry{
	Title:     "4 - Zeta Global Holdings Corp. (0001855631) (Issuer)",
	Link:      "https://www.sec.gov/Archives/edgar/data/1855631/000185563126000042-index.htm",
	UpdatedAt: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
}

func newTestScheduler(t *testing.T, ff *fakeFeed, fr *fakeResolver, fc *fakeClassifier, fn *fakeNotifier) *Scheduler {
	t.Helper()
	hist := history.NewStore(filepath.Join(t.TempDir(), "history.json"), 100)
	return NewScheduler(ff, fr, fc, hist, fn, recorder.NewNoopRecorder(),
		testWatchlist, 30*time.Minute)
}

func TestScan_BuySignalAlerted(t *testing.T) {
	ff := &fakeFeed{entries: []model.FilingEntry{testEntry}}
	fr := &fakeResolver{url: "https://www.sec.gov/doc.xml", ok: true}
	fc := &fakeClassifier{
		sig:     &model.FilingSignal{Signal: model.SignalBuy, SharesBought: 1000, TotalBuyValue: 10000},
		summary: "🟢 Bought 1000 shares ≈ $10000",
	}
	fn := &fakeNotifier{}

	s := newTestScheduler(t, ff, fr, fc, fn)
	s.scanTask()

	if len(fn.sent) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(fn.sent))
	}
	if !strings.Contains(fn.sent[0], "ZETA") || !strings.Contains(fn.sent[0], "BUY") {
		t.Errorf("alert missing ticker or signal: %s", fn.sent[0])
	}
	if !s.History.Contains(testEntry.Link) {
		t.Error("alerted filing must be marked processed")
	}
}

func TestScan_DedupAcrossRuns(t *testing.T) {
	ff := &fakeFeed{entries: []model.FilingEntry{testEntry}}
	fr := &fakeResolver{url: "https://www.sec.gov/doc.xml", ok: true}
	fc := &fakeClassifier{
		sig:     &model.FilingSignal{Signal: model.SignalSell, SharesSold: 500, TotalSellValue: 10000},
		summary: "🔴 Sold 500 shares ≈ $10000",
	}
	fn := &fakeNotifier{}

	s := newTestScheduler(t, ff, fr, fc, fn)
	s.scanTask()
	s.scanTask() // unchanged feed, immediate re-run

	if fr.calls != 1 {
		t.Errorf("resolver must not be re-invoked for a processed link, got %d calls", fr.calls)
	}
	if len(fn.sent) != 1 {
		t.Errorf("second run over an unchanged feed must send nothing, got %d alerts", len(fn.sent))
	}
}

func TestScan_NeutralSuppressedButProcessed(t *testing.T) {
	ff := &fakeFeed{entries: []model.FilingEntry{testEntry}}
	fr := &fakeResolver{url: "https://www.sec.gov/doc.xml", ok: true}
	fc := &fakeClassifier{
		sig:     &model.FilingSignal{Signal: model.SignalNeutral},
		summary: "No open-market buys or sells (grants/exercises only)",
	}
	fn := &fakeNotifier{}

	s := newTestScheduler(t, ff, fr, fc, fn)
	s.scanTask()

	if len(fn.sent) != 0 {
		t.Errorf("cleanly parsed neutral filing must be suppressed, got %d alerts", len(fn.sent))
	}
	if !s.History.Contains(testEntry.Link) {
		t.Error("suppressed filing must still be marked processed")
	}
}

func TestScan_ResolverMissSendsManualCheck(t *testing.T) {
	ff := &fakeFeed{entries: []model.FilingEntry{testEntry}}
	fr := &fakeResolver{ok: false}
	fc := &fakeClassifier{}
	fn := &fakeNotifier{}

	s := newTestScheduler(t, ff, fr, fc, fn)
	s.scanTask()

	if fc.calls != 0 {
		t.Errorf("classifier must not run without a transaction document, got %d calls", fc.calls)
	}
	if len(fn.sent) != 1 {
		t.Fatalf("unresolvable filing must be surfaced, got %d alerts", len(fn.sent))
	}
	if !strings.Contains(fn.sent[0], string(model.SignalUnknown)) {
		t.Errorf("expected UNKNOWN signal in alert: %s", fn.sent[0])
	}
	if !strings.Contains(fn.sent[0], model.ManualCheckSummary) {
		t.Errorf("expected manual-check summary in alert: %s", fn.sent[0])
	}
}

func TestScan_UnmatchedEntriesIgnored(t *testing.T) {
	ff := &fakeFeed{entries: []model.FilingEntry{{
		Title:     "4 - Unrelated Corp (0009999999) (Issuer)",
		Link:      "https://www.sec.gov/other-index.htm",
		UpdatedAt: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
	}}}
	fr := &fakeResolver{}
	fc := &fakeClassifier{}
	fn := &fakeNotifier{}

	s := newTestScheduler(t, ff, fr, fc, fn)
	s.scanTask()

	if fr.calls != 0 {
		t.Errorf("resolver must not run for unmatched entries, got %d calls", fr.calls)
	}
	if len(fn.sent) != 0 {
		t.Errorf("unmatched entries must not alert, got %d", len(fn.sent))
	}
	if s.History.Contains("https://www.sec.gov/other-index.htm") {
		t.Error("unmatched entries stay unprocessed so the keyword list can be fixed later")
	}
}

func TestHandleCommand_Status(t *testing.T) {
	s := newTestScheduler(t, &fakeFeed{}, &fakeResolver{}, &fakeClassifier{}, &fakeNotifier{})
	reply := s.HandleCommand("/status")
	if !strings.Contains(reply, "ZETA") {
		t.Errorf("status reply missing watchlist ticker: %s", reply)
	}
}

func TestHandleCommand_Unknown(t *testing.T) {
	s := newTestScheduler(t, &fakeFeed{}, &fakeResolver{}, &fakeClassifier{}, &fakeNotifier{})
	reply := s.HandleCommand("what")
	if !strings.Contains(reply, "/scan") {
		t.Errorf("help reply should list commands: %s", reply)
	}
}
