package migration

import (
	"context"
	"log"
	"time"

	"lite2pg/mapper"
	"lite2pg/source"
)

// Config holds all configuration for the migration
type Config struct {
	SourceConnStr string
	TargetConnStr string
	TargetSchema  string
	AllTables     bool
	TargetTables  []string
	BatchSize     int
	MaxRetries    int
	RetryBackoff  time.Duration

	// DropExisting selects the idempotence behavior of a re-run: true drops
	// and recreates each destination table before loading; false keeps
	// existing tables, in which case a re-run fails deterministically with a
	// constraint violation on the first duplicate primary key.
	DropExisting bool

	// FailFast aborts the whole migration on the first table failure instead
	// of the default table-level isolation, which continues past failures and
	// reports them in the summary.
	FailFast bool

	SourceDB   source.SourceDB
	NameMapper mapper.NameMapper

	// Destination overrides the pgx connection, for tests. When nil the
	// orchestrator connects to TargetConnStr.
	Destination Destination
}

// RunMigration migrates every selected table, one at a time, parents before
// children. Each table is introspected, its destination schema fully
// resolved, created, and bulk loaded inside its own transaction. Per-table
// failures are isolated: the table rolls back, the run continues (unless
// FailFast), and the summary lists every failure with its error kind. Both
// connections are held for the whole run and released on every exit path.
func RunMigration(ctx context.Context, cfg *Config) (*Summary, error) {
	if cfg.NameMapper == nil {
		cfg.NameMapper = mapper.NewIdentityMapper()
	}

	if err := cfg.SourceDB.Connect(ctx, cfg.SourceConnStr); err != nil {
		return nil, &ConnectivityError{Op: "source connect", Err: err}
	}
	defer cfg.SourceDB.Close()

	if err := cfg.SourceDB.Ping(ctx); err != nil {
		return nil, &ConnectivityError{Op: "source ping", Err: err}
	}

	tables, err := orderTables(ctx, cfg.SourceDB, cfg.AllTables, cfg.TargetTables)
	if err != nil {
		return nil, err
	}
	log.Printf("migrating %d tables in dependency order", len(tables))

	dest := cfg.Destination
	if dest == nil {
		pg, err := ConnectPg(ctx, cfg.TargetConnStr)
		if err != nil {
			return nil, err
		}
		defer pg.Close(ctx)
		dest = pg
	}

	start := time.Now()
	summary := &Summary{}

	for _, table := range tables {
		result := migrateTable(ctx, cfg, dest, table)
		summary.add(result)

		if result.Err != nil {
			log.Printf("table %s failed [%s]: %v", table, ErrorKind(result.Err), result.Err)
			if cfg.FailFast {
				break
			}
			continue
		}
	}

	log.Printf("migration finished in %.2fs: %d/%d tables, %d rows",
		time.Since(start).Seconds(), summary.TablesOK, summary.TablesTotal, summary.RowsCommitted)

	return summary, nil
}

// migrateTable runs the full pipeline for one table: introspect, map and
// reconcile the destination schema, issue DDL, then bulk load. The
// destination schema is fully resolved before any row data is written.
func migrateTable(ctx context.Context, cfg *Config, dest Destination, table string) Result {
	result := Result{Table: table}

	desc, err := cfg.SourceDB.DescribeTable(ctx, table)
	if err != nil {
		result.Err = err
		return result
	}

	if err := mapper.Reconcile(desc, cfg.NameMapper); err != nil {
		result.Err = err
		return result
	}

	destTable := cfg.NameMapper.MapTableName(table)
	result.DestTable = destTable

	if cfg.DropExisting {
		if err := dest.ExecDDL(ctx, BuildDropTable(cfg.TargetSchema, destTable)); err != nil {
			result.Err = classifyPgError(table, "drop table", err)
			return result
		}
	}
	if err := dest.ExecDDL(ctx, BuildCreateTable(desc, cfg.TargetSchema, destTable)); err != nil {
		result.Err = classifyPgError(table, "create table", err)
		return result
	}

	rows, err := cfg.SourceDB.QueryRows(ctx, table, desc.ColumnNames())
	if err != nil {
		result.Err = &ConnectivityError{Op: "source query", Err: err}
		return result
	}
	defer rows.Close()

	return LoadTable(ctx, dest, rows, desc, LoadConfig{
		Schema:       cfg.TargetSchema,
		DestTable:    destTable,
		BatchSize:    cfg.BatchSize,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	})
}
