package testutil

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// HistoryRow is one seeded capture attempt
type HistoryRow struct {
	RunID  string
	Series string
	Name   string
	URL    string
	Status string
	Bytes  int
	At     time.Time
}

// CreateHistoryFixture creates a history database file at dbPath holding rows,
// as an earlier run would have left it
func CreateHistoryFixture(t *testing.T, dbPath string, rows []HistoryRow) {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS captures (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id      TEXT NOT NULL,
		series      TEXT NOT NULL,
		name        TEXT NOT NULL,
		url         TEXT NOT NULL,
		status      TEXT NOT NULL,
		bytes       INTEGER NOT NULL DEFAULT 0,
		path        TEXT,
		error       TEXT,
		captured_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		t.Fatalf("Failed to create captures table: %v", err)
	}

	insertSQL := `INSERT INTO captures (run_id, series, name, url, status, bytes, captured_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	for _, row := range rows {
		at := row.At
		if at.IsZero() {
			at = time.Now()
		}
		if _, err := db.Exec(insertSQL, row.RunID, row.Series, row.Name, row.URL, row.Status, row.Bytes, at.UnixMilli()); err != nil {
			t.Fatalf("Failed to insert history row: %v", err)
		}
	}
}
