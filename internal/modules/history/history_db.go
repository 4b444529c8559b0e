package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver for the standalone history file
	"github.com/rs/zerolog"

	"github.com/meridianfp/checkup/pkg/formulas"
)

// Store is the standalone price-history database. It lives in its own
// SQLite file, separate from the operational DB, and supplies real
// daily return series to the metrics calculator when the price-sync
// job has populated it.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewStore opens (creating if needed) the history database
func NewStore(path string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	s := &Store{
		db:  db,
		log: log.With().Str("component", "history_db").Logger(),
	}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS daily_prices (
			ticker      TEXT NOT NULL,
			date        TEXT NOT NULL,
			close_price REAL NOT NULL,
			PRIMARY KEY (ticker, date)
		);
		CREATE INDEX IF NOT EXISTS idx_daily_prices_ticker ON daily_prices(ticker);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to init history schema: %w", err)
	}
	return nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable
func (s *Store) Ping() error {
	return s.db.Ping()
}

// DailyPrice is one stored closing price
type DailyPrice struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// SaveDailyCloses upserts a batch of closing prices for a ticker.
// Dates are stored as YYYY-MM-DD strings so ordering is lexicographic.
func (s *Store) SaveDailyCloses(ticker string, prices []DailyPrice) error {
	if len(prices) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO daily_prices (ticker, date, close_price)
		VALUES (?, ?, ?)
		ON CONFLICT(ticker, date) DO UPDATE SET close_price = excluded.close_price
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range prices {
		if _, err := stmt.Exec(ticker, p.Date, p.Close); err != nil {
			return fmt.Errorf("failed to upsert price for %s: %w", ticker, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit prices: %w", err)
	}

	s.log.Debug().
		Str("ticker", ticker).
		Int("count", len(prices)).
		Msg("Saved daily closes")

	return nil
}

// DailyCloses returns up to limit closing prices for a ticker in
// ascending date order
func (s *Store) DailyCloses(ticker string, limit int) ([]DailyPrice, error) {
	query := `
		SELECT date, close_price
		FROM (
			SELECT date, close_price
			FROM daily_prices
			WHERE ticker = ?
			ORDER BY date DESC
			LIMIT ?
		)
		ORDER BY date ASC
	`

	rows, err := s.db.Query(query, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily closes: %w", err)
	}
	defer rows.Close()

	var prices []DailyPrice
	for rows.Next() {
		var p DailyPrice
		if err := rows.Scan(&p.Date, &p.Close); err != nil {
			return nil, fmt.Errorf("failed to scan daily close: %w", err)
		}
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily closes: %w", err)
	}

	return prices, nil
}

// ReturnSeries converts the most recent lookback+1 closes for a ticker
// into daily returns, oldest first. Fewer than two closes yields an
// empty series rather than an error; the caller falls back to
// simulated data.
func (s *Store) ReturnSeries(ticker string, lookback int) ([]float64, error) {
	closes, err := s.DailyCloses(ticker, lookback+1)
	if err != nil {
		return nil, err
	}

	values := make([]float64, 0, len(closes))
	for _, c := range closes {
		values = append(values, c.Close)
	}

	return returnsFromCloses(values), nil
}

// returnsFromCloses converts a price path into simple periodic returns.
// Non-positive prices terminate the usable window early.
func returnsFromCloses(closes []float64) []float64 {
	usable := len(closes)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 {
			usable = i
			break
		}
	}
	return formulas.CalculateReturns(closes[:usable])
}
