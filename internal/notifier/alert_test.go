package notifier

import (
	"strings"
	"testing"
	"time"

	"InsiderSentinel/internal/model"
)

func TestInsiderName(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"4 - Doe Jane (0001234567) (Reporting)", "Doe Jane"},
		{"4 - Zeta Global Holdings Corp. (0001855631) (Issuer)", "Zeta Global Holdings Corp."},
		{"4/A - Doe Jane (0001234567) (Reporting)", "Doe Jane"},
		{"4 - Smith - Jones John (0001234567) (Reporting)", "Smith - Jones John"},
		{"no parenthesis at all", "no parenthesis at all"},
	}
	for _, c := range cases {
		if got := InsiderName(c.title); got != c.want {
			t.Errorf("InsiderName(%q) = %q, want %q", c.title, got, c.want)
		}
	}
}

func TestShouldNotify(t *testing.T) {
	cases := []struct {
		signal  model.Signal
		summary string
		want    bool
	}{
		{model.SignalBuy, "🟢 Bought 100 shares ≈ $1000", true},
		{model.SignalSell, "🔴 Sold 100 shares ≈ $1000", true},
		{model.SignalMixed, "both sides", true},
		{model.SignalNeutral, "No open-market buys or sells (grants/exercises only)", false},
		{model.SignalNeutral, model.ManualCheckSummary, true},
		{model.SignalUnknown, model.ManualCheckSummary, true},
		{model.SignalError, model.ManualCheckSummary, true},
	}
	for _, c := range cases {
		sig := &model.FilingSignal{Signal: c.signal}
		if got := ShouldNotify(sig, c.summary); got != c.want {
			t.Errorf("ShouldNotify(%s, %q) = %v, want %v", c.signal, c.summary, got, c.want)
		}
	}
}

func TestComposeAlert(t *testing.T) {
	sig := &model.FilingSignal{Signal: model.SignalBuy, SharesBought: 1000, TotalBuyValue: 10000}
	msg := ComposeAlert("ZETA", "Doe Jane", sig, "🟢 Bought 1000 shares ≈ $10000",
		"https://www.sec.gov/filing-index.htm", time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC))

	for _, want := range []string{"ZETA", "BUY", "Doe Jane", "2026-08-25 12:00 UTC", "Bought 1000", "https://www.sec.gov/filing-index.htm"} {
		if !strings.Contains(msg, want) {
			t.Errorf("alert missing %q:\n%s", want, msg)
		}
	}
}
