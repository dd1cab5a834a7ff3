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

// MediaStore handles all media-related database operations.
type MediaStore struct {
	db *sql.DB
}

// NewMediaStore creates a new MediaStore with the given database connection.
func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

// mediaColumns lists the columns selected in media queries.
const mediaColumns = `id, title, filename, content_type, size_bytes, storage_key, created_at`

// scanMedia scans a media row from the result set.
func scanMedia(scanner interface{ Scan(...any) error }) (*models.Media, error) {
	var m models.Media
	err := scanner.Scan(
		&m.ID, &m.Title, &m.Filename, &m.ContentType, &m.SizeBytes, &m.StorageKey, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new media record and returns it with the generated ID.
func (s *MediaStore) Create(ctx context.Context, m *models.Media) (*models.Media, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO media (title, filename, content_type, size_bytes, storage_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+mediaColumns,
		m.Title, m.Filename, m.ContentType, m.SizeBytes, m.StorageKey,
	)
	created, err := scanMedia(row)
	if err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	return created, nil
}

// FindByTitle returns the oldest media record with the given title, or nil.
// Titles are the reuse key for imported assets.
func (s *MediaStore) FindByTitle(ctx context.Context, title string) (*models.Media, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+mediaColumns+` FROM media
		WHERE title = $1
		ORDER BY created_at
		LIMIT 1`, title)
	m, err := scanMedia(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media by title: %w", err)
	}
	return m, nil
}

// FindByTitleAndFilename returns the oldest media record with both the
// given title and file name, or nil.
func (s *MediaStore) FindByTitleAndFilename(ctx context.Context, title, filename string) (*models.Media, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+mediaColumns+` FROM media
		WHERE title = $1 AND filename = $2
		ORDER BY created_at
		LIMIT 1`, title, filename)
	m, err := scanMedia(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media by title and filename: %w", err)
	}
	return m, nil
}
