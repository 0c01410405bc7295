package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/ticsite/internal/db"
	"github.com/ticsite/internal/handler"
	"github.com/ticsite/internal/router"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			if err := cfg.ValidateForServe(); err != nil {
				return err
			}
			if cfg.ReleaseMode() {
				gin.SetMode(gin.ReleaseMode)
			} else {
				gin.SetMode(cfg.GinMode)
			}

			created, err := db.EnsureAdmin(db.DB, cfg.SuperAdminEmail, cfg.SuperAdminPassword, cfg.SuperAdminName)
			if err != nil {
				return err
			}
			if created {
				logger.Info("bootstrap admin created", zap.String("email", cfg.SuperAdminEmail))
			}

			api, err := handler.NewAPI(handler.Dependencies{DB: db.DB, Config: cfg, Logger: logger})
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              cfg.ListenAddr,
				Handler:           router.SetupRouter(api, cfg, logger),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", zap.String("addr", cfg.ListenAddr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
