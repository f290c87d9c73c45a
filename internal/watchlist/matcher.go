package watchlist

import (
	"strings"

	"InsiderSentinel/internal/model"
)

// Match performs a case-insensitive substring match of each watchlist keyword
// against the filing title. When several keywords match, the longest one wins;
// equal lengths fall back to watchlist order. Substring matching is
// intentionally approximate: a keyword contained in an unrelated entity name
// still matches, and legal name variants absent from the keyword do not.
func Match(title string, entries []model.WatchlistEntry) (model.WatchlistEntry, bool) {
	lower := strings.ToLower(title)

	var best model.WatchlistEntry
	bestLen := 0
	for _, e := range entries {
		kw := strings.ToLower(strings.TrimSpace(e.Keyword))
		if kw == "" {
			continue
		}
		if strings.Contains(lower, kw) && len(kw) > bestLen {
			best = e
			bestLen = len(kw)
		}
	}
	return best, bestLen > 0
}
