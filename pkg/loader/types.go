// Package loader drives decoded DBF records into a relational
// destination through database/sql.
//
// Two interchangeable strategies are provided. BulkLoader streams rows
// in large batches with no partial-success reporting; Transactional-
// Loader wraps one file in one transaction and substitutes typed
// defaults for null values. Both are driven purely by the record
// stream and the schema mapping, never printing or logging themselves.
package loader

import (
	"fmt"
)

// Reference tuning values.
const (
	DefaultBatchSize     = 10000
	DefaultProgressEvery = 1000
)

// Progress is called periodically with the number of rows consumed so
// far. It must be cheap; it runs on the load path.
type Progress func(rows int64)

// Config holds shared loader tuning.
type Config struct {
	BatchSize     int      // bulk batch size; 0 means DefaultBatchSize
	ProgressEvery int64    // progress cadence in rows; 0 means DefaultProgressEvery
	Progress      Progress // optional
	Metrics       *Metrics // optional
}

func (c Config) batchSize() int {
	if c.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return c.BatchSize
}

func (c Config) progressEvery() int64 {
	if c.ProgressEvery <= 0 {
		return DefaultProgressEvery
	}
	return c.ProgressEvery
}

func (c Config) notify(rows int64) {
	if c.Progress != nil && rows%c.progressEvery() == 0 {
		c.Progress(rows)
	}
}

// Result reports a completed load.
type Result struct {
	Table string
	Rows  int64
}

// LoadError is a destination write failure from the transactional
// strategy. The whole file has been rolled back; RowsInserted counts
// the rows that had been applied before the failure.
type LoadError struct {
	RowsInserted int64
	Err          error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load aborted, %d rows already inserted: %v", e.RowsInserted, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
