package notifier

import (
	"fmt"
	"strings"
	"time"

	"InsiderSentinel/internal/model"
)

// InsiderName extracts the reporting person's display name from a feed title
// like "4 - Jane Doe (0001234567) (Reporting)". The title format is a feed
// presentation convention; treat the result as a best-effort display hint.
func InsiderName(title string) string {
	name := title
	if i := strings.Index(title, "("); i >= 0 {
		name = title[:i]
	}
	name = strings.TrimSpace(name)
	for _, prefix := range []string{"4 - ", "4/A - "} {
		if strings.HasPrefix(name, prefix) {
			name = name[len(prefix):]
			break
		}
	}
	return strings.TrimSpace(name)
}

// ShouldNotify decides whether a classified filing reaches the operator.
// A NEUTRAL filing that parsed cleanly is a non-market event of no trading
// interest and is suppressed; everything needing eyes — BUY, SELL, MIXED, and
// the UNKNOWN/ERROR manual-check cases — goes out.
func ShouldNotify(sig *model.FilingSignal, summary string) bool {
	return sig.Signal != model.SignalNeutral || summary == model.ManualCheckSummary
}

// ComposeAlert formats one filing alert for Telegram.
func ComposeAlert(ticker, insider string, sig *model.FilingSignal, summary, link string, updatedAt time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🚨 <b>Insider Alert: %s</b> | %s\n", ticker, sig.Signal))
	if insider != "" {
		b.WriteString(fmt.Sprintf("👤 %s\n", insider))
	}
	b.WriteString(fmt.Sprintf("🕐 %s\n\n", updatedAt.UTC().Format("2006-01-02 15:04 UTC")))
	b.WriteString(summary)
	b.WriteString(fmt.Sprintf("\n\n🔗 <a href=\"%s\">View filing</a>", link))

	return b.String()
}

// FormatStatus formats the current watchlist and history size for display.
func FormatStatus(entries []model.WatchlistEntry, historySize int) string {
	var b strings.Builder
	b.WriteString("📦 <b>InsiderSentinel status</b>\n\n")
	tickers := make([]string, 0, len(entries))
	for _, e := range entries {
		tickers = append(tickers, e.Ticker)
	}
	b.WriteString(fmt.Sprintf("Watching: %s\n", strings.Join(tickers, ", ")))
	b.WriteString(fmt.Sprintf("Processed filings tracked: %d\n", historySize))
	return b.String()
}
