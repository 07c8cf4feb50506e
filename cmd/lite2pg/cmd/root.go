package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lite2pg",
	Short: "Migrate a SQLite database to PostgreSQL and query it in plain English",
	Long: `lite2pg copies a SQLite database into PostgreSQL table by table,
mapping SQLite's dynamic column types onto fixed PostgreSQL types, and then
lets you ask questions about the migrated data in natural language. Questions
are turned into SQL by OpenAI and executed read-only against the destination.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(hashpwCmd)
}
