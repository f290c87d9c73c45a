package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists scan history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so ad hoc reads don't block the bot's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS filings (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			ticker         TEXT,
			insider        TEXT,
			link           TEXT,
			signal         TEXT,
			buy_value      REAL,
			sell_value     REAL,
			shares_bought  REAL,
			shares_sold    REAL,
			notified       INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_filings_ts ON filings(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_filings_ticker ON filings(ticker)`,

		`CREATE TABLE IF NOT EXISTS scan_runs (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			entries    INTEGER,
			matched    INTEGER,
			alerts     INTEGER,
			suppressed INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scans_ts ON scan_runs(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordFiling(rec *FilingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	notified := 0
	if rec.Notified {
		notified = 1
	}
	_, err := r.db.Exec(`INSERT INTO filings
		(timestamp, ticker, insider, link, signal,
		 buy_value, sell_value, shares_bought, shares_sold, notified)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.Ticker, rec.Insider, rec.Link, rec.Signal,
		rec.TotalBuyValue, rec.TotalSellValue, rec.SharesBought, rec.SharesSold,
		notified,
	)
	return err
}

func (r *SQLiteRecorder) RecordScan(st *ScanStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO scan_runs
		(timestamp, entries, matched, alerts, suppressed)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), st.Entries, st.Matched, st.Alerts, st.Suppressed,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
