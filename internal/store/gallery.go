// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"portalcms/internal/models"
)

// GalleryStore manages gallery categories and images.
type GalleryStore struct {
	db *sql.DB
}

// NewGalleryStore creates a new GalleryStore.
func NewGalleryStore(db *sql.DB) *GalleryStore {
	return &GalleryStore{db: db}
}

// ListCategories returns all gallery categories ordered by name.
func (s *GalleryStore) ListCategories(ctx context.Context) ([]models.GalleryCategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, slug, created_at
		FROM gallery_categories
		ORDER BY name, slug
	`)
	if err != nil {
		return nil, fmt.Errorf("list gallery categories: %w", err)
	}
	defer rows.Close()

	var items []models.GalleryCategory
	for rows.Next() {
		var c models.GalleryCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan gallery category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// UpsertCategory creates or renames a gallery category keyed by slug.
func (s *GalleryStore) UpsertCategory(ctx context.Context, name, slug string) (*models.GalleryCategory, bool, error) {
	var created bool
	c := &models.GalleryCategory{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO gallery_categories (name, slug)
		VALUES ($1, $2)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, slug, created_at, (xmax = 0) AS inserted`,
		name, slug,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &created)
	if err != nil {
		return nil, false, fmt.Errorf("upsert gallery category: %w", err)
	}
	return c, created, nil
}

// ListImages returns every gallery image, newest date first, with the
// media storage key and category slug resolved.
func (s *GalleryStore) ListImages(ctx context.Context) ([]models.GalleryImage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.media_id, g.title, g.date, g.category_id, g.created_at,
		       m.storage_key, c.slug
		FROM gallery_images g
		JOIN media m ON m.id = g.media_id
		LEFT JOIN gallery_categories c ON c.id = g.category_id
		ORDER BY g.date DESC, g.created_at DESC, g.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list gallery images: %w", err)
	}
	defer rows.Close()

	var items []models.GalleryImage
	for rows.Next() {
		var (
			img     models.GalleryImage
			catSlug sql.NullString
		)
		if err := rows.Scan(
			&img.ID, &img.MediaID, &img.Title, &img.Date, &img.CategoryID, &img.CreatedAt,
			&img.MediaKey, &catSlug,
		); err != nil {
			return nil, fmt.Errorf("scan gallery image: %w", err)
		}
		img.CategorySlug = catSlug.String
		items = append(items, img)
	}
	return items, rows.Err()
}

// UpsertImage creates the gallery entry for a media asset or updates the
// existing one. Each asset appears in the gallery at most once.
func (s *GalleryStore) UpsertImage(ctx context.Context, in models.GalleryImageInput) (*models.GalleryImage, bool, error) {
	var created bool
	img := &models.GalleryImage{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO gallery_images (media_id, title, date, category_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (media_id) DO UPDATE SET
			title = EXCLUDED.title,
			date = EXCLUDED.date,
			category_id = EXCLUDED.category_id
		RETURNING id, media_id, title, date, category_id, created_at, (xmax = 0) AS inserted`,
		in.MediaID, in.Title, in.Date, in.CategoryID,
	).Scan(&img.ID, &img.MediaID, &img.Title, &img.Date, &img.CategoryID, &img.CreatedAt, &created)
	if err != nil {
		return nil, false, fmt.Errorf("upsert gallery image: %w", err)
	}
	return img, created, nil
}
