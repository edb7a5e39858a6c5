package loader

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/segmentio/ksuid"
)

// Load statuses recorded in the audit table.
const (
	StatusLoaded = "loaded"
	StatusFailed = "failed"
)

const auditDDL = `CREATE TABLE IF NOT EXISTS load_runs (
	run_id VARCHAR(27) NOT NULL,
	file_name TEXT NOT NULL,
	table_name TEXT NOT NULL,
	row_count INTEGER NOT NULL,
	status VARCHAR(16) NOT NULL,
	started_at DATETIME NOT NULL,
	finished_at DATETIME NOT NULL,
	error TEXT
)`

// Auditor records one row per processed file into a load_runs table in
// the destination database, keyed by a per-run KSUID so a whole batch
// can be queried together.
type Auditor struct {
	db    *sql.DB
	runID ksuid.KSUID
}

// NewAuditor creates an auditor with a fresh run ID.
func NewAuditor(db *sql.DB) *Auditor {
	return &Auditor{db: db, runID: ksuid.New()}
}

// RunID returns this run's identifier.
func (a *Auditor) RunID() string { return a.runID.String() }

// EnsureSchema creates the audit table if it does not exist.
func (a *Auditor) EnsureSchema(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, auditDDL); err != nil {
		return fmt.Errorf("create load_runs: %w", err)
	}
	return nil
}

// FileRecord is the audit row for one processed file.
type FileRecord struct {
	FileName   string
	TableName  string
	Rows       int64
	Status     string
	StartedAt  time.Time
	FinishedAt time.Time
	Error      string // empty on success
}

// RecordFile appends one file's outcome to the audit table.
func (a *Auditor) RecordFile(ctx context.Context, rec FileRecord) error {
	const insert = `INSERT INTO load_runs
	(run_id, file_name, table_name, row_count, status, started_at, finished_at, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	var errText any
	if rec.Error != "" {
		errText = rec.Error
	}
	_, err := a.db.ExecContext(ctx, insert,
		a.runID.String(), rec.FileName, rec.TableName, rec.Rows,
		rec.Status, rec.StartedAt, rec.FinishedAt, errText)
	if err != nil {
		return fmt.Errorf("record load run: %w", err)
	}
	return nil
}
