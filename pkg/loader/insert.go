package loader

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ssargent/dbf2sql/pkg/dbf"
	"github.com/ssargent/dbf2sql/pkg/schema"
)

// TransactionalLoader inserts records one at a time inside a single
// transaction per file: either every record lands or none does.
type TransactionalLoader struct {
	db     *sql.DB
	config Config
}

// NewTransactionalLoader creates a transactional per-row loader.
func NewTransactionalLoader(db *sql.DB, config Config) *TransactionalLoader {
	return &TransactionalLoader{db: db, config: config}
}

// Load drives the table's record stream into the destination table.
// Null field values are bound as typed defaults, not true NULLs: zero
// for numeric-family columns, empty string for character columns. A
// single failed row rolls back the whole file and the returned
// LoadError carries the count of rows inserted before the failure.
func (l *TransactionalLoader) Load(ctx context.Context, table *dbf.Table, dest string) (*Result, error) {
	cols, err := schema.Columns(table.Fields())
	if err != nil {
		return nil, err
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, schema.InsertStatement(dest, cols))
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(cols))
	var rows int64

	it := table.Records()
	for it.Next() {
		rec := it.Record()
		for i, col := range cols {
			args[i] = col.BindValue(rec.Values[i], true)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return nil, &LoadError{
				RowsInserted: rows,
				Err:          fmt.Errorf("record %d: %w", rec.RecordNo, err),
			}
		}
		rows++
		l.config.notify(rows)
		l.config.Metrics.RecordRowLoaded()
	}
	if err := it.Err(); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, &LoadError{RowsInserted: rows, Err: fmt.Errorf("commit: %w", err)}
	}
	return &Result{Table: dest, Rows: rows}, nil
}
