package migration

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"lite2pg/source"
)

const (
	// DefaultBatchSize is the number of rows grouped into one set-based insert.
	DefaultBatchSize = 1000

	// DefaultMaxRetries bounds batch-level retries on connectivity failures.
	DefaultMaxRetries = 3

	// DefaultRetryBackoff is the initial delay between retries; it doubles
	// on each attempt.
	DefaultRetryBackoff = 500 * time.Millisecond
)

// LoadConfig tunes one table's bulk load.
type LoadConfig struct {
	Schema       string
	DestTable    string
	BatchSize    int
	MaxRetries   int
	RetryBackoff time.Duration
}

func (c *LoadConfig) withDefaults() {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = DefaultRetryBackoff
	}
}

// LoadTable copies one table's rows from the source cursor into the
// destination. Rows are read in the cursor's natural order, grouped into
// batches of cfg.BatchSize, and written with one parameterized multi-row
// insert per batch, all inside a single transaction spanning the table. Any
// failure rolls the table back in full; the commit happens once after the
// last batch. The returned Result is final.
func LoadTable(ctx context.Context, dest Destination, rows *sql.Rows, desc *source.TableDescriptor, cfg LoadConfig) Result {
	cfg.withDefaults()

	result := Result{Table: desc.Name, DestTable: cfg.DestTable}

	tx, err := dest.Begin(ctx)
	if err != nil {
		result.Err = classifyPgError(desc.Name, "begin", err)
		return result
	}

	// Rollback after a successful commit is a no-op; this keeps every error
	// path covered.
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	numCols := len(desc.Columns)
	scanVals := make([]any, numCols)
	scanPtrs := make([]any, numCols)
	for i := range scanVals {
		scanPtrs[i] = &scanVals[i]
	}

	// The full-batch insert statement is identical across batches and only
	// rebuilt for the final short batch.
	fullInsert := buildInsert(desc, cfg.Schema, cfg.DestTable, cfg.BatchSize)

	args := make([]any, 0, numCols*cfg.BatchSize)
	batchRows := 0
	batches := 0

	flush := func() error {
		if batchRows == 0 {
			return nil
		}
		insert := fullInsert
		if batchRows != cfg.BatchSize {
			insert = buildInsert(desc, cfg.Schema, cfg.DestTable, batchRows)
		}
		if err := execBatchWithRetry(ctx, tx, desc.Name, insert, args, cfg); err != nil {
			return err
		}
		batches++
		args = args[:0]
		batchRows = 0
		return nil
	}

	for rows.Next() {
		if err := rows.Scan(scanPtrs...); err != nil {
			result.Err = &source.SchemaReadError{Table: desc.Name, Err: err}
			return result
		}
		result.RowsAttempted++

		for i, raw := range scanVals {
			col := desc.Columns[i]
			v, err := coerceValue(raw, col.DestType)
			if err != nil {
				result.Err = &TypeCoercionError{
					Table:    desc.Name,
					Column:   col.SourceName,
					Row:      result.RowsAttempted,
					DestType: col.DestType,
					Value:    raw,
				}
				return result
			}
			args = append(args, v)
		}

		batchRows++
		if batchRows == cfg.BatchSize {
			if err := flush(); err != nil {
				result.Err = err
				return result
			}
		}
	}
	if err := rows.Err(); err != nil {
		result.Err = &ConnectivityError{Op: "source read", Err: err}
		return result
	}

	if err := flush(); err != nil {
		result.Err = err
		return result
	}

	if err := tx.Commit(ctx); err != nil {
		result.Err = classifyPgError(desc.Name, "commit", err)
		return result
	}
	committed = true

	result.RowsCommitted = result.RowsAttempted
	log.Printf("table %s: %d rows in %d batches", desc.Name, result.RowsCommitted, batches)
	return result
}

// execBatchWithRetry runs one batch insert, retrying connectivity failures a
// bounded number of times with doubling backoff. Constraint violations and
// coercion problems are deterministic and never retried.
func execBatchWithRetry(ctx context.Context, tx Tx, table, insert string, args []any, cfg LoadConfig) error {
	backoff := cfg.RetryBackoff
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("table %s: retrying batch after connectivity failure (attempt %d/%d)", table, attempt, cfg.MaxRetries)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return &ConnectivityError{Op: "batch insert", Err: ctx.Err()}
			}
			backoff *= 2
		}

		_, err := tx.ExecBatch(ctx, insert, args)
		if err == nil {
			return nil
		}

		lastErr = classifyPgError(table, "batch insert", err)
		var connErr *ConnectivityError
		if !errors.As(lastErr, &connErr) {
			return lastErr
		}
	}
	return lastErr
}
