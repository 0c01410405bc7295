package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ticsite/internal/db"
)

func newCreateAdminCmd() *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account if it does not exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
				return errors.New("--email and --password are required")
			}
			if len(strings.TrimSpace(password)) < 8 {
				return errors.New("password must be at least 8 characters")
			}

			_, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			created, err := db.EnsureAdmin(db.DB, email, password, name)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			if !created {
				fmt.Fprintf(cmd.OutOrStdout(), "admin %s already exists\n", db.NormalizeEmail(email))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created\n", db.NormalizeEmail(email))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password (min 8 characters)")
	cmd.Flags().StringVar(&name, "name", "Administrator", "display name")
	return cmd
}
