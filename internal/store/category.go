// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"portalcms/internal/models"
)

// CategoryStore manages news categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, name_te, slug, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(&c.ID, &c.Name, &c.NameLocalized, &c.Slug, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by name.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM news_categories
		ORDER BY name, slug
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Upsert creates the category or updates the one sharing its slug. The
// boolean result is true when a new row was inserted.
func (s *CategoryStore) Upsert(ctx context.Context, in models.CategoryInput) (*models.Category, bool, error) {
	var created bool
	c := &models.Category{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO news_categories (name, name_te, slug)
		VALUES ($1, $2, $3)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			name_te = EXCLUDED.name_te,
			updated_at = CASE
				WHEN news_categories.name IS DISTINCT FROM EXCLUDED.name
				  OR news_categories.name_te IS DISTINCT FROM EXCLUDED.name_te
				THEN NOW() ELSE news_categories.updated_at END
		RETURNING `+categoryColumns+`, (xmax = 0) AS inserted`,
		in.Name, in.NameLocalized, in.Slug,
	).Scan(&c.ID, &c.Name, &c.NameLocalized, &c.Slug, &c.CreatedAt, &c.UpdatedAt, &created)
	if err != nil {
		return nil, false, fmt.Errorf("upsert category: %w", err)
	}
	return c, created, nil
}

// Delete removes a category by ID. Press releases referencing it are
// detached in the same transaction rather than deleted.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE press_releases SET category_id = NULL, updated_at = NOW() WHERE category_id = $1`, id,
	); err != nil {
		return fmt.Errorf("detach press releases: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM news_categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return tx.Commit()
}

// DeleteAll removes every category, detaching any remaining press releases
// first. Returns the number of categories deleted.
func (s *CategoryStore) DeleteAll(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE press_releases SET category_id = NULL WHERE category_id IS NOT NULL`,
	); err != nil {
		return 0, fmt.Errorf("detach press releases: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM news_categories`)
	if err != nil {
		return 0, fmt.Errorf("delete categories: %w", err)
	}
	n, _ := res.RowsAffected()
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}
