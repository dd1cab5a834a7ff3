// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"portalcms/internal/config"
	"portalcms/internal/database"
	"portalcms/internal/logging"
	"portalcms/internal/storage"
)

var (
	envFile   string
	cfg       *config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "portalcms",
	Short: "Government portal content API",
	Long: `portalcms serves the portal's news, gallery and notification API
and loads content into it.

Example usage:
  portalcms serve                          # run the HTTP API
  portalcms migrate                        # apply database migrations
  portalcms seed news --clear              # reload press releases from JSON
  portalcms seed gallery --images-dir img  # import gallery photos`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
}

// initConfig loads configuration and installs the default logger.
func initConfig() error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	var logger *slog.Logger
	logger, logCloser = logging.New(logging.Options{
		Level: cfg.LogLevel,
		JSON:  !cfg.IsDev(),
		File:  cfg.LogFile,
	})
	slog.SetDefault(logger)

	slog.Debug("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())
	return nil
}

// openDatabase connects to PostgreSQL and applies pending migrations.
func openDatabase() (*sql.DB, error) {
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// openBackend returns the configured media backend: the S3 bucket when
// credentials are set, otherwise the local media directory. The local
// backend is also returned so the server can expose its files.
func openBackend() (storage.Backend, *storage.Local, error) {
	if cfg.UseS3() {
		s3, err := storage.NewS3(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize s3 storage: %w", err)
		}
		if s3 != nil {
			slog.Info("s3 storage configured", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
			return s3, nil, nil
		}
	}

	local, err := storage.NewLocal(cfg.MediaRoot, cfg.MediaURLPrefix)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("local media storage", "root", local.Dir(), "prefix", local.Prefix)
	return local, local, nil
}
