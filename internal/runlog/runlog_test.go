package runlog

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newTestLogger(t *testing.T) (*RunLogger, sqlmock.Sqlmock, *time.Time) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	clock := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	l := NewRunLogger(db)
	l.now = func() time.Time { return clock }
	return l, mock, &clock
}

func TestStartFinish(t *testing.T) {
	l, mock, clock := newTestLogger(t)
	ctx := context.Background()
	started := *clock

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO pipeline_runs")).
		WithArgs("run-1", "enrich", StatusStarted, started).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	entry, err := l.Start(ctx, "run-1", "enrich")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if entry.ID != 11 {
		t.Errorf("expected id 11, got %d", entry.ID)
	}

	*clock = clock.Add(1500 * time.Millisecond)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE pipeline_runs")).
		WithArgs(StatusSucceeded, 120, 4, int64(1500), nil, *clock, int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := l.Finish(ctx, entry, 120, 4, nil); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestFinish_Failed(t *testing.T) {
	l, mock, clock := newTestLogger(t)
	entry := &StageLog{ID: 2, RunID: "run-1", Stage: "scrape", StartedAt: *clock}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE pipeline_runs")).
		WithArgs(StatusFailed, 0, 0, int64(0), "no market could be scraped", *clock, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := l.Finish(context.Background(), entry, 0, 0, errors.New("no market could be scraped")); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if entry.Status != StatusFailed {
		t.Errorf("status = %s", entry.Status)
	}
}

type skipErr struct{}

func (skipErr) Error() string { return "no enriched workbook to label" }
func (skipErr) Skipped() bool { return true }

func TestFinish_Skipped(t *testing.T) {
	l, mock, clock := newTestLogger(t)
	entry := &StageLog{ID: 3, RunID: "run-1", Stage: "label", StartedAt: *clock}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE pipeline_runs")).
		WithArgs(StatusSkipped, 0, 0, int64(0), "no enriched workbook to label", *clock, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := l.Finish(context.Background(), entry, 0, 0, skipErr{}); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
