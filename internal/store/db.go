package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"go-university-etl/internal/model"
)

// Store persists run outcomes to sqlite so execution history survives
// restarts. The in-memory scheduler history stays the source for
// status views; this is the durable mirror.
type Store struct {
	db *sql.DB
}

// Open opens the run-history database, creating the schema if needed.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		trigger_type TEXT,
		success INTEGER,
		duration_ms INTEGER,
		records_loaded INTEGER,
		error_message TEXT,
		started_at DATETIME
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// SaveRunOutcome inserts one immutable run record under a fresh id.
func (s *Store) SaveRunOutcome(outcome model.RunOutcome) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (id, trigger_type, success, duration_ms, records_loaded, error_message, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(),
		outcome.TriggerType,
		outcome.Success,
		outcome.DurationMs,
		outcome.RecordsLoaded,
		outcome.ErrorMessage,
		outcome.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]model.RunOutcome, error) {
	rows, err := s.db.Query(
		`SELECT trigger_type, success, duration_ms, records_loaded, error_message, started_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var outcomes []model.RunOutcome
	for rows.Next() {
		var o model.RunOutcome
		if err := rows.Scan(&o.TriggerType, &o.Success, &o.DurationMs, &o.RecordsLoaded, &o.ErrorMessage, &o.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
