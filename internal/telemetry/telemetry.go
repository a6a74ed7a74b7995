// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry records per-request usage in a local SQLite database.
//
// Recording is best-effort: telemetry failures are logged and never block
// request handling. The summary view powers the /api/stats endpoint.
package telemetry

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DatabaseFile is the telemetry database name inside the state directory.
const DatabaseFile = "telemetry.db"

const schema = `
CREATE TABLE IF NOT EXISTS requests (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	provider          TEXT NOT NULL,
	model             TEXT NOT NULL DEFAULT '',
	prompt_tokens     INTEGER NOT NULL DEFAULT 0,
	completion_tokens INTEGER NOT NULL DEFAULT 0,
	simulated         INTEGER NOT NULL DEFAULT 0,
	failed            INTEGER NOT NULL DEFAULT 0,
	latency_ms        INTEGER NOT NULL DEFAULT 0,
	created_at        TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_requests_provider ON requests(provider);
`

// =============================================================================
// STORE
// =============================================================================

// Store is the telemetry request log.
type Store struct {
	db *sql.DB
}

// Open creates or opens the telemetry database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create telemetry directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open telemetry database: %w", err)
	}

	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize telemetry schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// RECORDING
// =============================================================================

// Record holds one request's accounting.
type Record struct {
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
	Simulated        bool
	Failed           bool
	Latency          time.Duration
}

// Add inserts a record. Failures are logged, never returned: telemetry must
// not break the request path.
func (s *Store) Add(rec Record) {
	_, err := s.db.Exec(
		`INSERT INTO requests (provider, model, prompt_tokens, completion_tokens, simulated, failed, latency_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Provider, rec.Model, rec.PromptTokens, rec.CompletionTokens,
		boolToInt(rec.Simulated), boolToInt(rec.Failed), rec.Latency.Milliseconds(),
	)
	if err != nil {
		log.Printf("TELEMETRY_WRITE_FAILED | provider=%s error=%v", rec.Provider, err)
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// =============================================================================
// SUMMARY
// =============================================================================

// ProviderStats aggregates usage for one provider.
type ProviderStats struct {
	Provider     string `json:"provider"`
	Requests     int    `json:"requests"`
	Failed       int    `json:"failed"`
	Simulated    int    `json:"simulated"`
	TotalTokens  int    `json:"total_tokens"`
	AvgLatencyMs int    `json:"avg_latency_ms"`
}

// Summary returns per-provider aggregates ordered by request count.
func (s *Store) Summary() ([]ProviderStats, error) {
	rows, err := s.db.Query(`
		SELECT provider,
		       COUNT(*),
		       COALESCE(SUM(failed), 0),
		       COALESCE(SUM(simulated), 0),
		       COALESCE(SUM(prompt_tokens + completion_tokens), 0),
		       COALESCE(CAST(AVG(latency_ms) AS INTEGER), 0)
		FROM requests
		GROUP BY provider
		ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("query telemetry summary: %w", err)
	}
	defer rows.Close()

	var out []ProviderStats
	for rows.Next() {
		var st ProviderStats
		if err := rows.Scan(&st.Provider, &st.Requests, &st.Failed, &st.Simulated, &st.TotalTokens, &st.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan telemetry row: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// TotalRequests returns the number of recorded requests.
func (s *Store) TotalRequests() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM requests`).Scan(&n)
	return n, err
}
