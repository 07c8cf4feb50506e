package cmd

import (
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lite2pg/auth"
)

var hashpwCmd = &cobra.Command{
	Use:   "hashpw",
	Short: "Generate the bcrypt hash for the chat password",
	Long: `Prompt for a password and print its bcrypt hash. Store the hash in
APP_PASSWORD_HASH (or password_hash in lite2pg.yaml) to require a login for
the chat session.`,
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		fmt.Print("Password: ")
		pw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		fmt.Print("Confirm: ")
		confirm, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		if string(pw) != string(confirm) {
			return fmt.Errorf("passwords do not match")
		}

		hash, err := auth.HashPassword(string(pw))
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}
