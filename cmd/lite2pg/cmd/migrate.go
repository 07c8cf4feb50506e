package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"lite2pg/config"
	"lite2pg/mapper"
	"lite2pg/migration"
	"lite2pg/source/sqlite"
)

var (
	migrateTables     []string
	migrateBatchSize  int
	migrateDrop       bool
	migrateFailFast   bool
	migrateColumnCase string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy all tables from the SQLite source into PostgreSQL",
	Long: `Copy tables from the SQLite source into PostgreSQL, parents before
children. Each table is loaded in batches inside a single transaction; a
failed table rolls back completely and the run continues with the next one
unless --fail-fast is set. The exit status is non-zero if any table failed.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().StringSliceVar(&migrateTables, "tables", nil, "migrate only these tables (default: all)")
	migrateCmd.Flags().IntVar(&migrateBatchSize, "batch-size", 0, "rows per bulk insert (default 1000)")
	migrateCmd.Flags().BoolVar(&migrateDrop, "drop-existing", false, "drop and recreate destination tables before loading")
	migrateCmd.Flags().BoolVar(&migrateFailFast, "fail-fast", false, "abort the whole migration on the first table failure")
	migrateCmd.Flags().StringVar(&migrateColumnCase, "column-case", "", "destination identifier style: keep (default), snake, lower, camel")
}

func runMigrate(cobraCmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if len(migrateTables) > 0 {
		cfg.Tables = migrateTables
		cfg.AllTables = false
	}
	if migrateBatchSize > 0 {
		cfg.BatchSize = migrateBatchSize
	}
	if cobraCmd.Flags().Changed("drop-existing") {
		cfg.DropExisting = migrateDrop
	}
	if cobraCmd.Flags().Changed("fail-fast") {
		cfg.FailFast = migrateFailFast
	}
	if migrateColumnCase != "" {
		cfg.ColumnCase = migrateColumnCase
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var nameMapper mapper.NameMapper = mapper.NewIdentityMapper()
	if transform := mapper.ForStyle(cfg.ColumnCase); transform != nil {
		nameMapper = mapper.NewTransformMapper(transform)
	}

	migrationConfig := &migration.Config{
		SourceConnStr: cfg.Source.Path,
		TargetConnStr: cfg.Target.ConnStr,
		TargetSchema:  cfg.Target.Schema,
		AllTables:     cfg.AllTables,
		TargetTables:  cfg.Tables,
		BatchSize:     cfg.BatchSize,
		MaxRetries:    cfg.MaxRetries,
		RetryBackoff:  500 * time.Millisecond,
		DropExisting:  cfg.DropExisting,
		FailFast:      cfg.FailFast,
		SourceDB:      sqlite.New(),
		NameMapper:    nameMapper,
	}

	summary, err := migration.RunMigration(context.Background(), migrationConfig)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	fmt.Println(summary.String())
	if summary.TablesFailed > 0 {
		os.Exit(1)
	}
	return nil
}
