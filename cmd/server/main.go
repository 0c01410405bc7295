package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ticsite/internal/config"
	"github.com/ticsite/internal/db"
	"github.com/ticsite/internal/logging"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd 构建命令行；不带子命令时直接启动 API 服务
func newRootCmd() *cobra.Command {
	serve := newServeCmd()
	root := &cobra.Command{
		Use:           "ticsite",
		Short:         "Content API for the corporate website and admin panel",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.AddCommand(serve, newCreateAdminCmd(), newSeedCmd(), newWarmTranslationsCmd())
	return root
}

// bootstrap loads configuration, builds the logger and opens the database.
func bootstrap() (config.AppConfig, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.AppConfig{}, nil, err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return config.AppConfig{}, nil, fmt.Errorf("build logger: %w", err)
	}

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		return config.AppConfig{}, nil, fmt.Errorf("initialize database: %w", err)
	}
	return cfg, logger, nil
}
