// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package media imports image files referenced by seed documents into the
// configured storage backend and records them as media assets. Files are
// read through an fs.FS so the source layout is injected by the caller.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"portalcms/internal/imaging"
	"portalcms/internal/models"
	"portalcms/internal/storage"
)

// Store is the media persistence the importer needs.
type Store interface {
	FindByTitle(ctx context.Context, title string) (*models.Media, error)
	FindByTitleAndFilename(ctx context.Context, title, filename string) (*models.Media, error)
	Create(ctx context.Context, m *models.Media) (*models.Media, error)
}

// allowedTypes lists the image types accepted for import.
var allowedTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// Importer resolves file paths to media assets, uploading new files once
// and reusing existing assets by title.
type Importer struct {
	// MatchFilename makes reuse require the same file name as well as the
	// same title, so distinct files sharing a title stay distinct assets.
	MatchFilename bool

	files   fs.FS
	store   Store
	backend storage.Backend
	prefix  string // storage key prefix, e.g. "news" or "gallery"
	now     func() time.Time
}

// NewImporter creates an importer reading from files and writing objects
// under keyPrefix in backend.
func NewImporter(files fs.FS, store Store, backend storage.Backend, keyPrefix string) *Importer {
	return &Importer{
		files:   files,
		store:   store,
		backend: backend,
		prefix:  strings.Trim(keyPrefix, "/"),
		now:     time.Now,
	}
}

// Resolve returns the media asset for the file at name, importing it under
// title when no asset with that title exists yet. A missing, unreadable or
// non-image file yields (nil, nil) and is logged; only storage failures
// are returned as errors.
func (im *Importer) Resolve(ctx context.Context, name, title string) (*models.Media, error) {
	p := cleanPath(name)
	if !fs.ValidPath(p) || p == "." {
		slog.Warn("media path invalid, skipping", "path", name)
		return nil, nil
	}

	data, err := fs.ReadFile(im.files, p)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("media file not found, skipping", "path", name)
		return nil, nil
	}
	if err != nil {
		slog.Warn("media file unreadable, skipping", "path", name, "error", err)
		return nil, nil
	}

	existing, err := im.findExisting(ctx, title, path.Base(p))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		slog.Debug("media reused", "title", title, "id", existing.ID)
		return existing, nil
	}

	contentType := DetectContentType(p, data)
	if !allowedTypes[contentType] {
		slog.Warn("media file is not an image, skipping", "path", name, "content_type", contentType)
		return nil, nil
	}

	var dims string
	if imaging.Probeable(contentType) {
		info, err := imaging.Probe(data)
		if err != nil {
			slog.Warn("media file is not a usable image, skipping", "path", name, "error", err)
			return nil, nil
		}
		dims = fmt.Sprintf("%dx%d", info.Width, info.Height)
	}

	now := im.now()
	ext := path.Ext(p)
	if ext == "" {
		ext = extensionFromType(contentType)
	}
	key := fmt.Sprintf("%d/%02d/%s%s", now.Year(), now.Month(), uuid.New().String(), strings.ToLower(ext))
	if im.prefix != "" {
		key = im.prefix + "/" + key
	}

	if err := im.backend.Put(ctx, key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return nil, fmt.Errorf("store media %s: %w", name, err)
	}

	created, err := im.store.Create(ctx, &models.Media{
		Title:       title,
		Filename:    path.Base(p),
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		StorageKey:  key,
	})
	if err != nil {
		if delErr := im.backend.Delete(ctx, key); delErr != nil {
			slog.Warn("orphaned media object", "key", key, "error", delErr)
		}
		return nil, err
	}

	slog.Info("media imported", "title", title, "key", key, "size", created.HumanSize(), "dimensions", dims)
	return created, nil
}

// findExisting looks up a reusable asset. Assets that are not images are
// never reused as featured or gallery images.
func (im *Importer) findExisting(ctx context.Context, title, filename string) (*models.Media, error) {
	var (
		m   *models.Media
		err error
	)
	if im.MatchFilename {
		m, err = im.store.FindByTitleAndFilename(ctx, title, filename)
	} else {
		m, err = im.store.FindByTitle(ctx, title)
	}
	if err != nil || m == nil || !m.IsImage() {
		return nil, err
	}
	return m, nil
}

// DetectContentType sniffs data, correcting SVGs which sniff as XML/text.
func DetectContentType(name string, data []byte) string {
	contentType := http.DetectContentType(data)
	if strings.HasSuffix(strings.ToLower(name), ".svg") &&
		(strings.Contains(contentType, "xml") || strings.Contains(contentType, "text/plain")) {
		return "image/svg+xml"
	}
	return contentType
}

// cleanPath turns a document path such as "/images/news/a.jpg" into an
// fs.FS path.
func cleanPath(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}

// extensionFromType returns a file extension for known MIME types.
func extensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ""
	}
}
