package model

// WatchlistEntry maps a ticker symbol to the case-insensitive company-name
// keyword matched against filing titles.
type WatchlistEntry struct {
	Ticker  string `yaml:"ticker"`
	Keyword string `yaml:"keyword"`
}
