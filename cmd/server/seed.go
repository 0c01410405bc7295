package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ticsite/internal/db"
	"github.com/ticsite/internal/seed"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo content into an empty database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			report, err := seed.Run(cmd.Context(), db.DB, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"seeded: %d industry stats, %d offices, %d home sections, %d blogs, %d careers\n",
				report.IndustryStats, report.Offices, report.Sections, report.Blogs, report.Careers)
			return nil
		},
	}
}
