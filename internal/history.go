package internal

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// Capture statuses recorded in the history ledger
const (
	StatusCaptured = "captured"
	StatusAbsent   = "absent"
	StatusFailed   = "failed"
)

// CaptureRecord is one capture attempt
type CaptureRecord struct {
	RunID      string
	Series     string
	Name       string
	URL        string
	Status     string
	Bytes      int
	Path       string
	Error      string
	CapturedAt time.Time
}

// HistoryFilter narrows Recent
type HistoryFilter struct {
	Series string
	Limit  int
}

// History is the ledger of capture attempts across runs
type History struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

// OpenHistory opens the ledger at path
func OpenHistory(path string) (*History, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, err
	}
	return &History{path: path, db: db}, nil
}

// NewHistory returns a ledger that opens path on first use, so a run that
// fails before its first capture leaves no database behind.
func NewHistory(path string) *History {
	return &History{path: path}
}

func (h *History) conn() (*sql.DB, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.db == nil {
		db, err := OpenDatabase(h.path)
		if err != nil {
			return nil, err
		}
		h.db = db
	}
	return h.db, nil
}

// Record appends one attempt
func (h *History) Record(ctx context.Context, rec CaptureRecord) error {
	db, err := h.conn()
	if err != nil {
		return err
	}
	if rec.CapturedAt.IsZero() {
		rec.CapturedAt = time.Now()
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO captures (run_id, series, name, url, status, bytes, path, error, captured_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Series, rec.Name, rec.URL, rec.Status, rec.Bytes,
		nullString(rec.Path), nullString(rec.Error), rec.CapturedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to record capture: %w", err)
	}
	return nil
}

// Recent returns the newest attempts first
func (h *History) Recent(ctx context.Context, filter HistoryFilter) ([]CaptureRecord, error) {
	db, err := h.conn()
	if err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT run_id, series, name, url, status, bytes, path, error, captured_at FROM captures`
	args := []interface{}{}
	if filter.Series != "" {
		query += ` WHERE series = ?`
		args = append(args, filter.Series)
	}
	query += ` ORDER BY captured_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var records []CaptureRecord
	for rows.Next() {
		var rec CaptureRecord
		var path, errText sql.NullString
		var capturedAt int64
		if err := rows.Scan(&rec.RunID, &rec.Series, &rec.Name, &rec.URL, &rec.Status, &rec.Bytes, &path, &errText, &capturedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		rec.Path = path.String
		rec.Error = errText.String
		rec.CapturedAt = time.UnixMilli(capturedAt)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, nil
}

// Close closes the underlying database, if it was ever opened
func (h *History) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.db == nil {
		return nil
	}
	err := h.db.Close()
	h.db = nil
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
