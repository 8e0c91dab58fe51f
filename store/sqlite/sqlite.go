/*
Package sqlite provides a SQLite-backed implementation of the workday
calendar store.

PURPOSE:
  Persists the configured working window and both holiday tiers so the
  server keeps its calendar across restarts. In production the same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  workday_window:     Single-row working window (start/stop clock times)
  holidays:           One-time holidays, keyed by Y-M-D
  recurring_holidays: Recurring holidays, keyed by (month, day)

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/workday.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - workday/store.go: interface definition
  - api/handlers.go: the consumer
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/workday-engine/calendar"
)

// Store implements workday.Store using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Single-row working window. The CHECK pins the row id so an upsert
	-- always replaces rather than accumulates.
	CREATE TABLE IF NOT EXISTS workday_window (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		start_hour INTEGER NOT NULL,
		start_minute INTEGER NOT NULL,
		stop_hour INTEGER NOT NULL,
		stop_minute INTEGER NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- One-time holidays, keyed by the zero-padded Y-M-D string. The
	-- components are stored alongside so loading needs no parsing.
	CREATE TABLE IF NOT EXISTS holidays (
		date TEXT PRIMARY KEY,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		day INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Recurring holidays, one row per (month, day) pair.
	CREATE TABLE IF NOT EXISTS recurring_holidays (
		month INTEGER NOT NULL,
		day INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (month, day)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// WINDOW
// =============================================================================

// SaveWindow stores the working window, replacing any previous one. Only
// the clock components are persisted; the date portions of start and stop
// carry no meaning.
func (s *Store) SaveWindow(ctx context.Context, start, stop calendar.Date) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workday_window (id, start_hour, start_minute, stop_hour, stop_minute, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			start_hour = excluded.start_hour,
			start_minute = excluded.start_minute,
			stop_hour = excluded.stop_hour,
			stop_minute = excluded.stop_minute,
			updated_at = excluded.updated_at`,
		start.Hour, start.Minute, stop.Hour, stop.Minute, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save window: %w", err)
	}
	return nil
}

// LoadWindow returns the stored window. The returned dates carry the
// clock components on a year-zero date.
func (s *Store) LoadWindow(ctx context.Context) (start, stop calendar.Date, ok bool, err error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT start_hour, start_minute, stop_hour, stop_minute
		FROM workday_window WHERE id = 1`)

	var sh, sm, th, tm int
	switch err := row.Scan(&sh, &sm, &th, &tm); err {
	case nil:
		return calendar.NewDate(0, 1, 1, sh, sm), calendar.NewDate(0, 1, 1, th, tm), true, nil
	case sql.ErrNoRows:
		return calendar.Date{}, calendar.Date{}, false, nil
	default:
		return calendar.Date{}, calendar.Date{}, false, fmt.Errorf("failed to load window: %w", err)
	}
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// SaveHoliday stores a one-time holiday. Idempotent.
func (s *Store) SaveHoliday(ctx context.Context, d calendar.Date) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO holidays (date, year, month, day, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		d.DateString(), d.Year, d.Month, d.Day, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save holiday: %w", err)
	}
	return nil
}

// SaveRecurringHoliday stores a recurring (month, day) holiday. Idempotent.
func (s *Store) SaveRecurringHoliday(ctx context.Context, d calendar.Date) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO recurring_holidays (month, day, created_at)
		VALUES (?, ?, ?)`,
		d.Month, d.Day, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save recurring holiday: %w", err)
	}
	return nil
}

// ListHolidays returns all one-time holidays, ordered by date.
func (s *Store) ListHolidays(ctx context.Context) ([]calendar.Date, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT year, month, day FROM holidays ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var dates []calendar.Date
	for rows.Next() {
		var y, m, d int
		if err := rows.Scan(&y, &m, &d); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		dates = append(dates, calendar.NewDate(y, m, d, 0, 0))
	}
	return dates, rows.Err()
}

// ListRecurringHolidays returns all recurring holidays ordered by month
// then day, with year zero.
func (s *Store) ListRecurringHolidays(ctx context.Context) ([]calendar.Date, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT month, day FROM recurring_holidays ORDER BY month, day`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring holidays: %w", err)
	}
	defer rows.Close()

	var dates []calendar.Date
	for rows.Next() {
		var m, d int
		if err := rows.Scan(&m, &d); err != nil {
			return nil, fmt.Errorf("failed to scan recurring holiday: %w", err)
		}
		dates = append(dates, calendar.NewDate(0, m, d, 0, 0))
	}
	return dates, rows.Err()
}
