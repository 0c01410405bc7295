package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ticsite/internal/db"
	"github.com/ticsite/internal/handler"
)

func newWarmTranslationsCmd() *cobra.Command {
	var langs []string

	cmd := &cobra.Command{
		Use:   "warm-translations",
		Short: "Machine-translate published content into the translation memory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			if strings.TrimSpace(cfg.TranslateAPIURL) == "" {
				return fmt.Errorf("TRANSLATE_API_URL is not configured")
			}

			api, err := handler.NewAPI(handler.Dependencies{DB: db.DB, Config: cfg, Logger: logger})
			if err != nil {
				return err
			}

			report, err := api.WarmTranslations(cmd.Context(), langs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"warmed %s: %d blogs, %d careers, %d offices, %d stats, %d pages, %d new memory entries\n",
				strings.Join(report.Languages, ","), report.Blogs, report.Careers, report.Offices,
				report.Stats, report.Pages, report.NewEntries)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&langs, "langs", nil, "languages to warm, defaults to every non-default language")
	return cmd
}
