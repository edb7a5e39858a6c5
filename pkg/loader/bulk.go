package loader

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ssargent/dbf2sql/pkg/dbf"
	"github.com/ssargent/dbf2sql/pkg/schema"
)

// BulkLoader streams records into the destination in large committed
// batches. It is one administrative operation: on failure the caller
// gets an error with no partial-completion report, and rows from
// already-committed batches are not accounted for.
type BulkLoader struct {
	db     *sql.DB
	config Config
}

// NewBulkLoader creates a bulk transfer loader.
func NewBulkLoader(db *sql.DB, config Config) *BulkLoader {
	return &BulkLoader{db: db, config: config}
}

// Load drives the table's record stream into the destination table.
// Unlike the transactional strategy, null values bind as true NULLs.
func (l *BulkLoader) Load(ctx context.Context, table *dbf.Table, dest string) (*Result, error) {
	cols, err := schema.Columns(table.Fields())
	if err != nil {
		return nil, err
	}
	insert := schema.InsertStatement(dest, cols)
	batchSize := l.config.batchSize()

	args := make([]any, len(cols))
	var rows int64

	it := table.Records()
	for {
		// One batch per transaction; the prepared statement lives and
		// dies with it.
		tx, err := l.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("begin batch: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, insert)
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("prepare insert: %w", err)
		}

		batched := 0
		for batched < batchSize && it.Next() {
			rec := it.Record()
			for i, col := range cols {
				args[i] = col.BindValue(rec.Values[i], false)
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				stmt.Close()
				tx.Rollback()
				return nil, fmt.Errorf("record %d: %w", rec.RecordNo, err)
			}
			batched++
			rows++
			l.config.notify(rows)
			l.config.Metrics.RecordRowLoaded()
		}

		stmt.Close()
		if err := it.Err(); err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("commit batch: %w", err)
		}
		if batched < batchSize {
			break
		}
	}

	return &Result{Table: dest, Rows: rows}, nil
}
