// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"portalcms/internal/cache"
	"portalcms/internal/media"
	"portalcms/internal/seed"
	"portalcms/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load content from JSON documents",
	Long: `Load content from JSON documents into the database.

Runs are idempotent: records are matched by slug (notifications by title)
and images by title, so running the same document twice changes nothing.
Seeding needs exclusive access to the content tables; do not run it while
editors are changing content.`,
}

var seedNewsCmd = &cobra.Command{
	Use:   "news",
	Short: "Seed news categories, press releases and notifications",
	Long: `Seed news categories, press releases and notifications.

Examples:
  portalcms seed news                                  # load SEED_NEWS_PATH
  portalcms seed news --clear                          # wipe news first
  portalcms seed news --json-path news.json --skip-images`,
	RunE: runSeedNews,
}

var seedGalleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Seed gallery categories and photos",
	RunE:  runSeedGallery,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.AddCommand(seedNewsCmd, seedGalleryCmd)

	seedNewsCmd.Flags().Bool("clear", false, "delete all press releases and categories before loading")
	seedNewsCmd.Flags().String("json-path", "", "news document (default $SEED_NEWS_PATH)")
	seedNewsCmd.Flags().Bool("skip-images", false, "do not import featured images")
	seedNewsCmd.Flags().String("assets-dir", "", "directory featured image paths are relative to (default $SEED_ASSETS_DIR)")

	seedGalleryCmd.Flags().String("json-path", "", "gallery document (default $SEED_GALLERY_PATH)")
	seedGalleryCmd.Flags().String("images-dir", "", "directory holding the gallery files (default $SEED_GALLERY_DIR)")
}

func runSeedNews(cmd *cobra.Command, args []string) error {
	clearFirst, _ := cmd.Flags().GetBool("clear")
	skipImages, _ := cmd.Flags().GetBool("skip-images")
	path := flagOr(cmd, "json-path", cfg.SeedNewsPath)
	assetsDir := flagOr(cmd, "assets-dir", cfg.SeedAssetsDir)

	doc, err := seed.LoadNewsDocument(path)
	if err != nil {
		return err
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	opts := seed.Options{Clear: clearFirst, SkipImages: skipImages}
	if !skipImages {
		importer, err := newImporter(db, assetsDir, "news")
		if err != nil {
			return err
		}
		opts.Assets = importer
	}

	svc, done := newSeedService(db)
	defer done()
	report, err := svc.RunNews(cmd.Context(), doc, opts)
	if report != nil {
		renderReport(cmd.OutOrStdout(), report)
	}
	return err
}

func runSeedGallery(cmd *cobra.Command, args []string) error {
	path := flagOr(cmd, "json-path", cfg.SeedGalleryPath)
	imagesDir := flagOr(cmd, "images-dir", cfg.SeedGalleryDir)

	doc, err := seed.LoadGalleryDocument(path)
	if err != nil {
		return err
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	importer, err := newImporter(db, imagesDir, "gallery")
	if err != nil {
		return err
	}
	importer.MatchFilename = true

	svc, done := newSeedService(db)
	defer done()
	report, err := svc.RunGallery(cmd.Context(), doc, seed.Options{Assets: importer})
	if report != nil {
		renderReport(cmd.OutOrStdout(), report)
	}
	return err
}

// newSeedService wires the seed service to the database stores and, when
// Valkey is reachable, to the response cache it invalidates. done releases
// the cache connection.
func newSeedService(db *sql.DB) (svc *seed.Service, done func()) {
	done = func() {}
	deps := seed.Deps{
		Categories:    store.NewCategoryStore(db),
		PressReleases: store.NewPressReleaseStore(db),
		Notifications: store.NewNotificationStore(db),
		Gallery:       store.NewGalleryStore(db),
	}
	if client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword); err == nil {
		deps.Cache = cache.NewResponseCache(client, cfg.CacheTTL)
		done = func() { client.Close() }
	} else {
		slog.Warn("valkey unavailable, cached responses will expire on their own", "error", err)
	}
	return seed.NewService(deps), done
}

// newImporter reads files below dir and stores them in the configured
// media backend under keyPrefix. A missing directory is only a warning:
// every image is then reported missing and skipped.
func newImporter(db *sql.DB, dir, keyPrefix string) (*media.Importer, error) {
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		slog.Warn("images directory not found", "dir", dir)
	}
	backend, _, err := openBackend()
	if err != nil {
		return nil, err
	}
	return media.NewImporter(os.DirFS(dir), store.NewMediaStore(db), backend, keyPrefix), nil
}

// flagOr returns the named string flag when it was set, else fallback.
func flagOr(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return fallback
}
