package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Run is the outcome of parsing one document within one generator run.
type Run struct {
	ID             string
	Document       string
	URL            string
	Errors         int
	Warnings       int
	PatchesApplied int
	Duration       time.Duration
	Timestamp      time.Time
}

func NewRunID() string {
	return uuid.NewString()
}

func (s *Store) SaveRun(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(run.Document) == "" {
		return fmt.Errorf("run document must not be empty")
	}
	if run.ID == "" {
		run.ID = NewRunID()
	} else if _, err := uuid.Parse(run.ID); err != nil {
		return fmt.Errorf("invalid run id %q: %w", run.ID, err)
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}

	query := `
INSERT INTO runs (run_id, document, url, error_count, warning_count, patches_applied, duration_ms, ts_utc)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(run_id, document) DO UPDATE SET
  url=excluded.url,
  error_count=excluded.error_count,
  warning_count=excluded.warning_count,
  patches_applied=excluded.patches_applied,
  duration_ms=excluded.duration_ms,
  ts_utc=excluded.ts_utc
`
	return s.withRetry("save run", func() error {
		_, err := s.db.ExecContext(ctx, query,
			run.ID,
			run.Document,
			run.URL,
			run.Errors,
			run.Warnings,
			run.PatchesApplied,
			run.Duration.Milliseconds(),
			formatTS(run.Timestamp),
		)
		return err
	})
}

// LoadRuns returns runs at or after since, oldest first. An empty document
// selects all documents.
func (s *Store) LoadRuns(ctx context.Context, document string, since time.Time) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
SELECT run_id, document, url, error_count, warning_count, patches_applied, duration_ms, ts_utc
FROM runs
WHERE 1=1`
	args := make([]any, 0, 2)
	if document = strings.TrimSpace(document); document != "" {
		query += " AND document = ?"
		args = append(args, document)
	}
	if !since.IsZero() {
		query += " AND ts_utc >= ?"
		args = append(args, formatTS(since))
	}
	query += " ORDER BY ts_utc ASC, document ASC"

	var rows *sql.Rows
	err := s.withRetry("load runs", func() error {
		var qErr error
		rows, qErr = s.db.QueryContext(ctx, query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var (
			run        Run
			durationMS int64
			tsRaw      string
		)
		if err := rows.Scan(
			&run.ID,
			&run.Document,
			&run.URL,
			&run.Errors,
			&run.Warnings,
			&run.PatchesApplied,
			&durationMS,
			&tsRaw,
		); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		if run.Timestamp, err = parseTS(tsRaw); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return runs, nil
}
