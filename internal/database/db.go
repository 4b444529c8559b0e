package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DB wraps the operational database connection
type DB struct {
	conn *sql.DB
	path string
}

// New creates a new database connection
func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Use WAL mode for better concurrency
	conn, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)

	return &DB{
		conn: conn,
		path: dbPath,
	}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying sql.DB connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Migrate creates the operational tables. Every statement is
// idempotent so startup can run it unconditionally.
func (db *DB) Migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS holdings (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			ticker        TEXT NOT NULL,
			name          TEXT NOT NULL DEFAULT '',
			shares        REAL NOT NULL,
			price         REAL NOT NULL,
			cost_basis    REAL NOT NULL DEFAULT 0,
			account_type  TEXT NOT NULL,
			asset_class   TEXT NOT NULL,
			expense_ratio REAL,
			sector        TEXT
		);

		CREATE TABLE IF NOT EXISTS client_profile (
			id                  INTEGER PRIMARY KEY CHECK (id = 1),
			risk_tolerance      TEXT NOT NULL,
			target_amount       REAL NOT NULL,
			years_to_goal       INTEGER NOT NULL,
			current_age         INTEGER NOT NULL,
			advice_model        TEXT NOT NULL,
			advisor_fee         REAL NOT NULL DEFAULT 0,
			annual_contribution REAL NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS planning_checklist (
			id                    INTEGER PRIMARY KEY CHECK (id = 1),
			has_emergency_fund    INTEGER NOT NULL DEFAULT 0,
			has_estate_documents  INTEGER NOT NULL DEFAULT 0,
			has_beneficiary_check INTEGER NOT NULL DEFAULT 0,
			has_insurance_review  INTEGER NOT NULL DEFAULT 0,
			has_tax_plan          INTEGER NOT NULL DEFAULT 0,
			has_rebalance_plan    INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS expense_profile (
			id                    INTEGER PRIMARY KEY CHECK (id = 1),
			core_monthly          REAL NOT NULL DEFAULT 0,
			discretionary_monthly REAL NOT NULL DEFAULT 0,
			healthcare_monthly    REAL NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS income_sources (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			name               TEXT NOT NULL,
			monthly_amount     REAL NOT NULL,
			start_age          INTEGER NOT NULL,
			cola_adjusted      INTEGER NOT NULL DEFAULT 0,
			lifetime_guarantee INTEGER NOT NULL DEFAULT 0,
			end_age            INTEGER
		);

		CREATE TABLE IF NOT EXISTS settings (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS analysis_snapshots (
			id           TEXT PRIMARY KEY,
			created_at   TEXT NOT NULL,
			total_value  REAL NOT NULL,
			sharpe_ratio REAL,
			success_rate REAL NOT NULL,
			statuses     TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_snapshots_created_at
			ON analysis_snapshots(created_at DESC);
	`

	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Begin starts a new transaction
func (db *DB) Begin() (*sql.Tx, error) {
	return db.conn.Begin()
}

// Exec executes a query without returning rows
func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.conn.Exec(query, args...)
}

// Query executes a query that returns rows
func (db *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.conn.Query(query, args...)
}

// QueryRow executes a query that returns at most one row
func (db *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.conn.QueryRow(query, args...)
}
