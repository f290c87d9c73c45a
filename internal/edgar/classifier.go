package edgar

import (
	"encoding/xml"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"InsiderSentinel/internal/model"
)

// Classifier parses a filing's transaction document and computes the net
// buy/sell signal.
type Classifier struct {
	Client    *http.Client
	UserAgent string
}

// NewClassifier creates a classifier with optional proxy support.
func NewClassifier(userAgent, proxyURL string, timeout time.Duration) *Classifier {
	return &Classifier{
		Client:    newHTTPClient(proxyURL, timeout),
		UserAgent: userAgent,
	}
}

// ownershipDocument is the subset of the Form 4 XML we read. Derivative
// transactions (options etc.) are deliberately not mapped.
type ownershipDocument struct {
	NonDerivativeTransactions []nonDerivativeTransaction `xml:"nonDerivativeTable>nonDerivativeTransaction"`
}

type nonDerivativeTransaction struct {
	Coding struct {
		Code string `xml:"transactionCode"`
	} `xml:"transactionCoding"`
	Amounts struct {
		Shares struct {
			Value string `xml:"value"`
		} `xml:"transactionShares"`
		Price struct {
			Value string `xml:"value"`
		} `xml:"transactionPricePerShare"`
	} `xml:"transactionAmounts"`
}

// parseRecord converts one XML transaction into a TransactionRecord.
// ok is false when the record must be skipped: missing transaction code, or a
// zero price per share marking a non-cash event (grant, gift, no-cost
// exercise) that must not distort the dollar signal.
func parseRecord(t nonDerivativeTransaction) (model.TransactionRecord, bool) {
	code := strings.TrimSpace(t.Coding.Code)
	if code == "" {
		return model.TransactionRecord{}, false
	}
	shares := parseValue(t.Amounts.Shares.Value)
	price := parseValue(t.Amounts.Price.Value)
	if price == 0 {
		return model.TransactionRecord{}, false
	}
	return model.TransactionRecord{
		Code:          model.ParseTxnCode(code),
		Shares:        shares,
		PricePerShare: price,
	}, true
}

// parseValue parses a numeric value field; absent or malformed values read as 0.
func parseValue(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// Classify fetches and aggregates a transaction document. A fetch or parse
// failure of the whole document yields SignalError with the manual-check
// summary; a single malformed record is skipped without discarding the rest.
func (c *Classifier) Classify(docURL string) (*model.FilingSignal, string) {
	sig := &model.FilingSignal{Signal: model.SignalError}

	body, err := get(c.Client, docURL, c.UserAgent)
	if err != nil {
		log.Printf("[WARN] classifier: %v", err)
		return sig, model.ManualCheckSummary
	}

	var doc ownershipDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		log.Printf("[WARN] classifier: decode %s: %v", docURL, err)
		return sig, model.ManualCheckSummary
	}

	for _, t := range doc.NonDerivativeTransactions {
		rec, ok := parseRecord(t)
		if !ok {
			continue
		}
		switch rec.Code {
		case model.CodePurchase:
			sig.SharesBought += rec.Shares
			sig.TotalBuyValue += rec.Shares * rec.PricePerShare
		case model.CodeSale:
			sig.SharesSold += rec.Shares
			sig.TotalSellValue += rec.Shares * rec.PricePerShare
		}
		// other codes carry no open-market dollar signal
	}

	switch {
	case sig.TotalBuyValue > 0 && sig.TotalSellValue > 0:
		sig.Signal = model.SignalMixed
	case sig.TotalBuyValue > 0:
		sig.Signal = model.SignalBuy
	case sig.TotalSellValue > 0:
		sig.Signal = model.SignalSell
	default:
		sig.Signal = model.SignalNeutral
	}

	return sig, renderSummary(sig)
}

// renderSummary lists share counts and dollar totals per side present.
func renderSummary(sig *model.FilingSignal) string {
	var b strings.Builder
	if sig.TotalBuyValue > 0 {
		b.WriteString(fmt.Sprintf("🟢 Bought %.0f shares ≈ $%.0f\n", sig.SharesBought, sig.TotalBuyValue))
	}
	if sig.TotalSellValue > 0 {
		b.WriteString(fmt.Sprintf("🔴 Sold %.0f shares ≈ $%.0f\n", sig.SharesSold, sig.TotalSellValue))
	}
	if b.Len() == 0 {
		return "No open-market buys or sells (grants/exercises only)"
	}
	return strings.TrimRight(b.String(), "\n")
}
