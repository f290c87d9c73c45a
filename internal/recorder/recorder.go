package recorder

// FilingRecord holds the classification result of one processed filing.
type FilingRecord struct {
	Ticker         string
	Insider        string
	Link           string
	Signal         string
	TotalBuyValue  float64
	TotalSellValue float64
	SharesBought   float64
	SharesSold     float64
	Notified       bool
}

// ScanStats summarizes one scan run.
type ScanStats struct {
	Entries    int // feed entries inside the lookback window
	Matched    int // entries matching the watchlist
	Alerts     int // notifications sent
	Suppressed int // neutral filings filtered out
}

// Recorder persists historical data for later review, including the
// suppressed neutral filings that never reach Telegram.
type Recorder interface {
	RecordFiling(rec *FilingRecord) error
	RecordScan(st *ScanStats) error
	Close() error
}
