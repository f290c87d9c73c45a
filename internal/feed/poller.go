package feed

import (
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"InsiderSentinel/internal/model"
)

// Poller fetches the EDGAR recent-filings Atom feed.
type Poller struct {
	Client    *http.Client
	FeedURL   string
	UserAgent string

	now func() time.Time
}

// NewPoller creates a feed poller with optional proxy support.
func NewPoller(feedURL, userAgent, proxyURL string, timeout time.Duration) *Poller {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Poller{
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		FeedURL:   feedURL,
		UserAgent: userAgent,
		now:       time.Now,
	}
}

// atomFeed is the subset of the Atom feed structure we read.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title string `xml:"title"`
	Link  struct {
		Href string `xml:"href,attr"`
	} `xml:"link"`
	Updated string `xml:"updated"`
}

// Fetch issues one feed request and returns the entries updated within the
// lookback window, in feed order. An entry whose age equals the window exactly
// is kept. Malformed entries are skipped, not fatal.
func (p *Poller) Fetch(lookback time.Duration) ([]model.FilingEntry, error) {
	req, err := http.NewRequest("GET", p.FeedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.UserAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("feed read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed: status %d", resp.StatusCode)
	}

	var parsed atomFeed
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("feed decode: %w", err)
	}

	now := p.now()
	entries := make([]model.FilingEntry, 0, len(parsed.Entries))
	for _, e := range parsed.Entries {
		if e.Title == "" || e.Link.Href == "" || e.Updated == "" {
			log.Printf("[WARN] feed: skipping malformed entry (title=%q)", e.Title)
			continue
		}
		updated, err := parseUpdated(e.Updated)
		if err != nil {
			log.Printf("[WARN] feed: skipping entry with bad timestamp %q: %v", e.Updated, err)
			continue
		}
		if now.Sub(updated) > lookback {
			continue
		}
		entries = append(entries, model.FilingEntry{
			Title:     e.Title,
			Link:      e.Link.Href,
			UpdatedAt: updated,
		})
	}
	return entries, nil
}

// parseUpdated parses a feed timestamp. A value without an explicit zone is
// treated as UTC.
func parseUpdated(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC)
}
