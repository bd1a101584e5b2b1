// Package persistence provides a SQLite sink for finished-run metrics
// history. Live simulation state is never persisted; only the append-only
// metrics records and the run parameters that produced them.
package persistence

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/pondlife/internal/metrics"
)

// DB wraps a SQLite connection holding run metrics history.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates the metrics database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		initial_month INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		ticks INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS metrics (
		run_id TEXT NOT NULL REFERENCES runs(id),
		tick_index INTEGER NOT NULL,
		intact INTEGER NOT NULL,
		dividing INTEGER NOT NULL,
		divided INTEGER NOT NULL,
		encysted INTEGER NOT NULL,
		excysted INTEGER NOT NULL,
		stressed INTEGER NOT NULL,
		water_quality INTEGER NOT NULL,
		temperature INTEGER NOT NULL,
		month INTEGER NOT NULL,
		PRIMARY KEY (run_id, tick_index)
	);

	CREATE INDEX IF NOT EXISTS idx_metrics_run ON metrics(run_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RunInfo describes one recorded run.
type RunInfo struct {
	ID           string `json:"id" db:"id"`
	Width        int    `json:"width" db:"width"`
	Height       int    `json:"height" db:"height"`
	InitialMonth int    `json:"initial_month" db:"initial_month"`
	Seed         int64  `json:"seed" db:"seed"`
	Ticks        int    `json:"ticks" db:"ticks"`
	CreatedAt    string `json:"created_at" db:"created_at"`
}

// SaveRun stores a run's parameters and its full metrics history in one
// transaction. Returns the new run's identifier.
func (db *DB) SaveRun(width, height, initialMonth int, seed int64, records []metrics.Record) (string, error) {
	runID := uuid.NewString()

	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, width, height, initial_month, seed, ticks, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, width, height, initialMonth, seed, len(records),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Preparex(`INSERT INTO metrics
		(run_id, tick_index, intact, dividing, divided, encysted, excysted,
		 stressed, water_quality, temperature, month)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.Exec(runID, r.TickIndex, r.Intact, r.Dividing, r.Divided,
			r.Encysted, r.Excysted, r.Stressed, r.WaterQuality, r.Temperature, r.Month)
		if err != nil {
			return "", fmt.Errorf("insert metrics tick %d: %w", r.TickIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// Runs lists recorded runs, newest first.
func (db *DB) Runs(limit int) ([]RunInfo, error) {
	var runs []RunInfo
	err := db.conn.Select(&runs,
		"SELECT * FROM runs ORDER BY created_at DESC LIMIT ?", limit)
	return runs, err
}

// LoadHistory returns a run's metrics records in a tick window, oldest
// first.
func (db *DB) LoadHistory(runID string, fromTick, toTick uint64, limit int) ([]metrics.Record, error) {
	var rows []metrics.Record
	err := db.conn.Select(&rows,
		`SELECT tick_index, intact, dividing, divided, encysted, excysted,
		        stressed, water_quality, temperature, month
		 FROM metrics
		 WHERE run_id = ? AND tick_index >= ? AND tick_index <= ?
		 ORDER BY tick_index ASC LIMIT ?`,
		runID, fromTick, toTick, limit)
	return rows, err
}
