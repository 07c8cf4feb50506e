package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lite2pg/assist"
	"lite2pg/auth"
	"lite2pg/config"
	"lite2pg/query"
)

const maxLoginAttempts = 3

type historyEntry struct {
	question string
	sql      string
	rows     int
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive natural-language session over the migrated data",
	Long: `Start an interactive session: every line you type is answered with a
generated SQL query, which you can run, skip, or edit. Generated queries are
executed read-only. When a password hash is configured the session requires a
login first. Type "history" to list past queries and "exit" to leave.`,
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := cfg.ValidateChat(); err != nil {
			return err
		}

		if cfg.PasswordHash != "" {
			if err := login(cfg.PasswordHash); err != nil {
				return err
			}
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

		return chatLoop(ctx, assistant, runner)
	},
}

// login prompts for the password without echoing and verifies it against the
// stored bcrypt hash.
func login(hash string) error {
	for attempt := 0; attempt < maxLoginAttempts; attempt++ {
		fmt.Print("Password: ")
		pw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		if auth.CheckPassword(hash, string(pw)) {
			return nil
		}
		fmt.Println("Incorrect password")
	}
	return fmt.Errorf("too many failed login attempts")
}

func chatLoop(ctx context.Context, assistant *assist.Assistant, runner *query.Runner) error {
	scanner := bufio.NewScanner(os.Stdin)
	var history []historyEntry

	fmt.Println(`Ask a question about the migrated data ("history", "exit"):`)
	for {
		fmt.Print("? ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "exit" || line == "quit":
			return nil
		case line == "history":
			for i, h := range history {
				fmt.Printf("%d. %s\n   %s\n   (%d rows)\n", i+1, h.question, h.sql, h.rows)
			}
			continue
		}

		sql, err := assistant.GenerateSQL(ctx, line)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		fmt.Printf("\n%s\n\n", sql)

		fmt.Print("Run this query? [y/N] ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if answer := strings.ToLower(strings.TrimSpace(scanner.Text())); answer != "y" && answer != "yes" {
			continue
		}

		if err := assist.EnsureReadOnly(sql); err != nil {
			fmt.Printf("refusing to run: %v\n", err)
			continue
		}
		rs, err := runner.Run(ctx, sql)
		if err != nil {
			fmt.Printf("query failed: %v\n", err)
			continue
		}
		printResultSet(rs)
		history = append(history, historyEntry{question: line, sql: sql, rows: len(rs.Rows)})
	}
}
