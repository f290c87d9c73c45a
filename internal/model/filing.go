package model

import (
	"strings"
	"time"
)

// FilingEntry is one item from the EDGAR recent-filings feed.
// Link is the filing's index page and serves as the deduplication key.
type FilingEntry struct {
	Title     string
	Link      string
	UpdatedAt time.Time
}

// TxnCode classifies the economic nature of a single transaction.
type TxnCode int

const (
	CodeOther TxnCode = iota
	CodePurchase
	CodeSale
)

// ParseTxnCode maps an EDGAR transaction-code letter to a TxnCode.
// 'P' is an open-market purchase and 'S' an open-market sale; everything
// else (grants, exercises, gifts, ...) is CodeOther.
func ParseTxnCode(s string) TxnCode {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "P":
		return CodePurchase
	case "S":
		return CodeSale
	default:
		return CodeOther
	}
}

// TransactionRecord is one row of a filing's non-derivative transaction table.
type TransactionRecord struct {
	Code          TxnCode
	Shares        float64
	PricePerShare float64
}

// Signal is the aggregate buy/sell classification of one filing.
type Signal string

const (
	SignalBuy     Signal = "BUY"
	SignalSell    Signal = "SELL"
	SignalMixed   Signal = "MIXED"
	SignalNeutral Signal = "NEUTRAL"
	SignalUnknown Signal = "UNKNOWN"
	SignalError   Signal = "ERROR"
)

// ManualCheckSummary is the fallback summary used when a filing cannot be
// auto-classified. Filings carrying it are always surfaced to the operator.
const ManualCheckSummary = "⚠️ Could not read transaction details — manual check required"

// FilingSignal aggregates all qualifying transaction records of one filing.
// Computed once per filing and never mutated afterwards.
type FilingSignal struct {
	TotalBuyValue  float64
	TotalSellValue float64
	SharesBought   float64
	SharesSold     float64
	Signal         Signal
}
