package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lite2pg/assist"
	"lite2pg/config"
	"lite2pg/query"
)

var askRun bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Turn one natural-language question into SQL",
	Long: `Generate a PostgreSQL query for a single question about the migrated
data. By default the SQL is only printed for review; pass --run to execute it
read-only against the destination and print the results.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := cfg.ValidateChat(); err != nil {
			return err
		}

		ctx := context.Background()
		runner, err := query.Open(cfg.Target.ConnStr)
		if err != nil {
			return err
		}
		defer runner.Close()

		assistant, err := buildAssistant(ctx, cfg, runner)
		if err != nil {
			return err
		}

		question := strings.Join(args, " ")
		sql, err := assistant.GenerateSQL(ctx, question)
		if err != nil {
			return err
		}
		fmt.Println(sql)

		if !askRun {
			return nil
		}
		if err := assist.EnsureReadOnly(sql); err != nil {
			return err
		}
		rs, err := runner.Run(ctx, sql)
		if err != nil {
			return err
		}
		printResultSet(rs)
		return nil
	},
}

func init() {
	askCmd.Flags().BoolVar(&askRun, "run", false, "execute the generated SQL and print the results")
}

// buildAssistant introspects the destination and wires the OpenAI client.
// The prompt is always built from the migrated schema, never the source.
func buildAssistant(ctx context.Context, cfg *config.Config, runner *query.Runner) (*assist.Assistant, error) {
	tables, err := runner.DescribeSchema(ctx, cfg.Target.Schema)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("no tables found in schema %q; run `lite2pg migrate` first", cfg.Target.Schema)
	}
	return assist.NewOpenAI(cfg.OpenAIKey, assist.RenderSchemaDoc(tables)), nil
}

func printResultSet(rs *query.ResultSet) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(rs.Columns, "\t"))
	for _, row := range rs.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
	fmt.Printf("(%d rows)\n", len(rs.Rows))
}
