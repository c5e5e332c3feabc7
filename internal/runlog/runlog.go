package runlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Run statuses
const (
	StatusStarted   = "started"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// Schema creates the pipeline_runs table when it does not exist
const Schema = `
CREATE TABLE IF NOT EXISTS pipeline_runs (
	id            BIGSERIAL PRIMARY KEY,
	run_id        UUID NOT NULL,
	stage         TEXT NOT NULL,
	status        TEXT NOT NULL,
	rows          INTEGER NOT NULL DEFAULT 0,
	skipped       INTEGER NOT NULL DEFAULT 0,
	latency_ms    INTEGER,
	error_message TEXT,
	started_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	finished_at   TIMESTAMPTZ
);
`

// RunLogger records pipeline stage executions to the pipeline_runs table
type RunLogger struct {
	db  *sql.DB
	now func() time.Time
}

// StageLog is the outcome of one stage
type StageLog struct {
	ID           int64
	RunID        string
	Stage        string
	Status       string
	Rows         int
	Skipped      int
	StartedAt    time.Time
	ErrorMessage string
}

// NewRunLogger creates a new run logger
func NewRunLogger(db *sql.DB) *RunLogger {
	return &RunLogger{
		db:  db,
		now: time.Now,
	}
}

// EnsureSchema creates the pipeline_runs table
func (l *RunLogger) EnsureSchema(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create pipeline_runs: %w", err)
	}
	return nil
}

// Start logs the start of a stage and returns its log entry
func (l *RunLogger) Start(ctx context.Context, runID, stage string) (*StageLog, error) {
	entry := &StageLog{
		RunID:     runID,
		Stage:     stage,
		Status:    StatusStarted,
		StartedAt: l.now(),
	}

	query := `
		INSERT INTO pipeline_runs (run_id, stage, status, started_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	if err := l.db.QueryRowContext(ctx, query, runID, stage, StatusStarted, entry.StartedAt).Scan(&entry.ID); err != nil {
		return nil, fmt.Errorf("failed to log stage start: %w", err)
	}
	return entry, nil
}

// Finish records the outcome of a started stage. A nil stageErr marks it succeeded,
// an error with a Skipped() bool method returning true marks it skipped.
func (l *RunLogger) Finish(ctx context.Context, entry *StageLog, rows, skipped int, stageErr error) error {
	entry.Rows = rows
	entry.Skipped = skipped
	entry.Status = StatusSucceeded
	var errMsg sql.NullString
	if stageErr != nil {
		entry.Status = StatusFailed
		var skip interface{ Skipped() bool }
		if errors.As(stageErr, &skip) && skip.Skipped() {
			entry.Status = StatusSkipped
		}
		entry.ErrorMessage = stageErr.Error()
		errMsg = sql.NullString{String: entry.ErrorMessage, Valid: true}
	}

	finished := l.now()
	latency := finished.Sub(entry.StartedAt).Milliseconds()

	query := `
		UPDATE pipeline_runs
		SET status = $1, rows = $2, skipped = $3, latency_ms = $4,
		    error_message = $5, finished_at = $6
		WHERE id = $7
	`

	_, err := l.db.ExecContext(ctx, query,
		entry.Status,
		rows,
		skipped,
		latency,
		errMsg,
		finished,
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to log stage finish: %w", err)
	}
	return nil
}
