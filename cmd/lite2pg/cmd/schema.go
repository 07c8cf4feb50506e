package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"lite2pg/assist"
	"lite2pg/config"
	"lite2pg/query"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the migrated destination schema as seen by the assistant",
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if cfg.Target.ConnStr == "" {
			return fmt.Errorf("target connection string is required (set PG_URL)")
		}

		runner, err := query.Open(cfg.Target.ConnStr)
		if err != nil {
			return err
		}
		defer runner.Close()

		tables, err := runner.DescribeSchema(context.Background(), cfg.Target.Schema)
		if err != nil {
			return err
		}
		if len(tables) == 0 {
			return fmt.Errorf("no tables found in schema %q; run `lite2pg migrate` first", cfg.Target.Schema)
		}

		fmt.Print(assist.RenderSchemaDoc(tables))
		return nil
	},
}
