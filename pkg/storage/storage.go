// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package storage provides SQLite-backed implementations of the
// optimize and alert store interfaces, so rules, logs, and events
// survive restarts without touching engine logic.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Storage wraps a SQLite database shared by the store implementations.
type Storage struct {
	db *sql.DB
}

// New opens or creates the SQLite database at dbPath. An empty dbPath
// defaults to $TMPDIR/pulse/data.db.
func New(dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = filepath.Join(os.TempDir(), "pulse", "data.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; WAL allows concurrent readers
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys=ON`); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	s := &Storage{db: db}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS optimize_rules (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			campaign_id       INTEGER NOT NULL,
			name              TEXT NOT NULL,
			channel_type      TEXT,
			metric            TEXT NOT NULL,
			condition         TEXT NOT NULL,
			threshold         REAL NOT NULL,
			lookback_days     INTEGER NOT NULL,
			action_type       TEXT NOT NULL,
			action_params     TEXT NOT NULL DEFAULT '{}',
			status            TEXT NOT NULL,
			last_evaluated_at INTEGER,
			last_triggered_at INTEGER,
			created_at        INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS action_logs (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			rule_id        INTEGER,
			campaign_id    INTEGER NOT NULL,
			action_type    TEXT NOT NULL,
			target_entity  TEXT NOT NULL,
			previous_value TEXT,
			new_value      TEXT,
			reason         TEXT,
			status         TEXT NOT NULL,
			executed_at    INTEGER NOT NULL,
			executed_by    TEXT NOT NULL,
			user_id        INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS suggestions (
			id              TEXT PRIMARY KEY,
			campaign_id     INTEGER NOT NULL,
			action_type     TEXT NOT NULL,
			target          TEXT NOT NULL,
			text            TEXT,
			expected_impact TEXT,
			confidence      REAL NOT NULL,
			priority        TEXT NOT NULL,
			source          TEXT NOT NULL,
			status          TEXT NOT NULL,
			created_at      INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS alert_rules (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			campaign_id      INTEGER NOT NULL,
			name             TEXT NOT NULL,
			metric_name      TEXT NOT NULL,
			condition        TEXT NOT NULL,
			threshold        REAL NOT NULL,
			channel_type     TEXT,
			notify_email     INTEGER NOT NULL DEFAULT 0,
			notify_dashboard INTEGER NOT NULL DEFAULT 1,
			status           TEXT NOT NULL,
			created_at       INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS alert_events (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			rule_id         INTEGER NOT NULL,
			campaign_id     INTEGER NOT NULL,
			metric_name     TEXT NOT NULL,
			condition       TEXT NOT NULL,
			value           REAL NOT NULL,
			threshold       REAL NOT NULL,
			message         TEXT NOT NULL,
			is_acknowledged INTEGER NOT NULL DEFAULT 0,
			acknowledged_by INTEGER,
			acknowledged_at INTEGER,
			triggered_at    INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_optimize_rules_campaign ON optimize_rules(campaign_id)`,
		`CREATE INDEX IF NOT EXISTS idx_action_logs_campaign ON action_logs(campaign_id)`,
		`CREATE INDEX IF NOT EXISTS idx_suggestions_campaign ON suggestions(campaign_id)`,
		`CREATE INDEX IF NOT EXISTS idx_alert_rules_campaign ON alert_rules(campaign_id)`,
		`CREATE INDEX IF NOT EXISTS idx_alert_events_campaign ON alert_events(campaign_id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Nullable timestamp helpers: times are stored as unix nanoseconds.

func timeToNull(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func nullToTime(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := time.Unix(0, n.Int64).UTC()
	return &t
}

func int64ToNull(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullToInt64(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func nanosToTime(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
