// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"portalcms/internal/models"
)

// PressReleaseStore handles press release persistence, including the
// tag set and view counter.
type PressReleaseStore struct {
	db *sql.DB
}

// NewPressReleaseStore creates a new PressReleaseStore.
func NewPressReleaseStore(db *sql.DB) *PressReleaseStore {
	return &PressReleaseStore{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// pressReleaseSelect joins the category and featured image so list and
// detail reads need a single round trip (plus one batched tag query).
const pressReleaseSelect = `
	SELECT p.id, p.slug, p.title, p.title_te, p.excerpt, p.excerpt_te,
	       p.body, p.body_te, p.featured_image_id, p.category_id, p.author,
	       p.is_published, p.is_featured, p.published_date, p.views,
	       p.created_at, p.updated_at,
	       c.id, c.name, c.name_te, c.slug, c.created_at, c.updated_at,
	       m.storage_key`

const pressReleaseFrom = `
	FROM press_releases p
	LEFT JOIN news_categories c ON c.id = p.category_id
	LEFT JOIN media m ON m.id = p.featured_image_id`

// scanPressRelease scans a pressReleaseSelect row. Extra destinations are
// appended after the standard columns (e.g. a window count).
func scanPressRelease(scanner interface{ Scan(...any) error }, extra ...any) (*models.PressRelease, error) {
	var (
		p          models.PressRelease
		catID      *uuid.UUID
		catName    sql.NullString
		catNameTe  sql.NullString
		catSlug    sql.NullString
		catCreated sql.NullTime
		catUpdated sql.NullTime
		imageKey   sql.NullString
	)
	dest := []any{
		&p.ID, &p.Slug, &p.Title, &p.TitleLocalized, &p.Excerpt, &p.ExcerptLocalized,
		&p.Body, &p.BodyLocalized, &p.FeaturedImageID, &p.CategoryID, &p.Author,
		&p.IsPublished, &p.IsFeatured, &p.PublishedDate, &p.Views,
		&p.CreatedAt, &p.UpdatedAt,
		&catID, &catName, &catNameTe, &catSlug, &catCreated, &catUpdated,
		&imageKey,
	}
	if err := scanner.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if catID != nil {
		p.Category = &models.Category{
			ID:            *catID,
			Name:          catName.String,
			NameLocalized: catNameTe.String,
			Slug:          catSlug.String,
			CreatedAt:     catCreated.Time,
			UpdatedAt:     catUpdated.Time,
		}
	}
	p.FeaturedImageKey = imageKey.String
	p.Tags = []string{}
	return &p, nil
}

// findOne runs pressReleaseSelect with the given condition and loads tags.
func (s *PressReleaseStore) findOne(ctx context.Context, where string, args ...any) (*models.PressRelease, error) {
	row := s.db.QueryRowContext(ctx, pressReleaseSelect+pressReleaseFrom+` WHERE `+where, args...)
	p, err := scanPressRelease(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	items := []models.PressRelease{*p}
	if err := loadTags(ctx, s.db, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// FindByID retrieves a press release regardless of publish state. Returns
// nil if not found.
func (s *PressReleaseStore) FindByID(ctx context.Context, id uuid.UUID) (*models.PressRelease, error) {
	p, err := s.findOne(ctx, `p.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("find press release by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a press release regardless of publish state.
// Returns nil if not found.
func (s *PressReleaseStore) FindBySlug(ctx context.Context, slug string) (*models.PressRelease, error) {
	p, err := s.findOne(ctx, `p.slug = $1`, slug)
	if err != nil {
		return nil, fmt.Errorf("find press release by slug: %w", err)
	}
	return p, nil
}

// FindPublishedBySlug retrieves a published press release by its slug.
// Returns nil if it does not exist or is unpublished.
func (s *PressReleaseStore) FindPublishedBySlug(ctx context.Context, slug string) (*models.PressRelease, error) {
	p, err := s.findOne(ctx, `p.slug = $1 AND p.is_published`, slug)
	if err != nil {
		return nil, fmt.Errorf("find published press release: %w", err)
	}
	return p, nil
}

// ListPublished returns published press releases matching the filter,
// newest first, together with the filtered count before truncation.
func (s *PressReleaseStore) ListPublished(ctx context.Context, f models.PressReleaseFilter) ([]models.PressRelease, int, error) {
	var limit sql.NullInt64
	if f.Limit > 0 {
		limit = sql.NullInt64{Int64: int64(f.Limit), Valid: true}
	}

	// COUNT(*) OVER() is evaluated before LIMIT, so every row carries the
	// full filtered total.
	rows, err := s.db.QueryContext(ctx, pressReleaseSelect+`, COUNT(*) OVER() AS total`+pressReleaseFrom+`
		WHERE p.is_published
		  AND ($1::text = '' OR c.slug = $1)
		  AND (NOT $2::boolean OR p.is_featured)
		  AND ($3::text = ''
		       OR strpos(lower(p.title), lower($3)) > 0
		       OR strpos(lower(p.excerpt), lower($3)) > 0)
		ORDER BY p.published_date DESC, p.id
		LIMIT $4::bigint
	`, f.CategorySlug, f.FeaturedOnly, f.Search, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list press releases: %w", err)
	}
	defer rows.Close()

	var (
		items []models.PressRelease
		total int
	)
	for rows.Next() {
		p, err := scanPressRelease(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan press release: %w", err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list press releases: %w", err)
	}

	if err := loadTags(ctx, s.db, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Related returns up to limit published press releases sharing the given
// category, excluding excludeID, newest first.
func (s *PressReleaseStore) Related(ctx context.Context, categoryID, excludeID uuid.UUID, limit int) ([]models.PressRelease, error) {
	rows, err := s.db.QueryContext(ctx, pressReleaseSelect+pressReleaseFrom+`
		WHERE p.is_published AND p.category_id = $1 AND p.id <> $2
		ORDER BY p.published_date DESC, p.id
		LIMIT $3
	`, categoryID, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("list related press releases: %w", err)
	}
	defer rows.Close()

	var items []models.PressRelease
	for rows.Next() {
		p, err := scanPressRelease(rows)
		if err != nil {
			return nil, fmt.Errorf("scan press release: %w", err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list related press releases: %w", err)
	}
	if err := loadTags(ctx, s.db, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Upsert creates the press release or updates the one sharing its slug.
// Tags are replaced wholesale when in.Tags is non-nil. Views are never
// touched. The boolean result is true when a new row was inserted.
func (s *PressReleaseStore) Upsert(ctx context.Context, in models.PressReleaseInput) (*models.PressRelease, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var (
		id      uuid.UUID
		created bool
	)
	// updated_at only moves when a content column actually changes, so a
	// repeated seed run leaves rows untouched.
	err = tx.QueryRowContext(ctx, `
		INSERT INTO press_releases (
			slug, title, title_te, excerpt, excerpt_te, body, body_te,
			featured_image_id, category_id, author, is_published, is_featured,
			published_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title,
			title_te = EXCLUDED.title_te,
			excerpt = EXCLUDED.excerpt,
			excerpt_te = EXCLUDED.excerpt_te,
			body = EXCLUDED.body,
			body_te = EXCLUDED.body_te,
			featured_image_id = EXCLUDED.featured_image_id,
			category_id = EXCLUDED.category_id,
			author = EXCLUDED.author,
			is_published = EXCLUDED.is_published,
			is_featured = EXCLUDED.is_featured,
			published_date = EXCLUDED.published_date,
			updated_at = CASE
				WHEN (press_releases.title, press_releases.title_te, press_releases.excerpt,
				      press_releases.excerpt_te, press_releases.body, press_releases.body_te,
				      press_releases.featured_image_id, press_releases.category_id,
				      press_releases.author, press_releases.is_published,
				      press_releases.is_featured, press_releases.published_date)
				     IS DISTINCT FROM
				     (EXCLUDED.title, EXCLUDED.title_te, EXCLUDED.excerpt,
				      EXCLUDED.excerpt_te, EXCLUDED.body, EXCLUDED.body_te,
				      EXCLUDED.featured_image_id, EXCLUDED.category_id,
				      EXCLUDED.author, EXCLUDED.is_published,
				      EXCLUDED.is_featured, EXCLUDED.published_date)
				THEN NOW() ELSE press_releases.updated_at END
		RETURNING id, (xmax = 0) AS inserted`,
		in.Slug, in.Title, in.TitleLocalized, in.Excerpt, in.ExcerptLocalized,
		in.Body, in.BodyLocalized, in.FeaturedImageID, in.CategoryID, in.Author,
		in.IsPublished, in.IsFeatured, in.PublishedDate,
	).Scan(&id, &created)
	if err != nil {
		return nil, false, fmt.Errorf("upsert press release: %w", err)
	}

	if in.Tags != nil {
		if err := replaceTags(ctx, tx, id, models.NormalizeTags(in.Tags)); err != nil {
			return nil, false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit press release: %w", err)
	}

	p, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return p, created, nil
}

// replaceTags swaps the stored tag set for tags inside tx.
func replaceTags(ctx context.Context, tx *sql.Tx, id uuid.UUID, tags []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM press_release_tags WHERE press_release_id = $1`, id); err != nil {
		return fmt.Errorf("clear tags: %w", err)
	}
	if len(tags) == 0 {
		return nil
	}

	values := make([]string, len(tags))
	args := make([]any, 0, len(tags)+1)
	args = append(args, id)
	for i, tag := range tags {
		values[i] = fmt.Sprintf("($1, $%d)", i+2)
		args = append(args, tag)
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO press_release_tags (press_release_id, tag)
		VALUES `+strings.Join(values, ", ")+`
		ON CONFLICT DO NOTHING`, args...)
	if err != nil {
		return fmt.Errorf("insert tags: %w", err)
	}
	return nil
}

// loadTags fills the Tags field of every item with one batched query.
func loadTags(ctx context.Context, q querier, items []models.PressRelease) error {
	if len(items) == 0 {
		return nil
	}

	// Build placeholder list for IN clause.
	placeholders := ""
	args := make([]any, len(items))
	index := make(map[uuid.UUID][]int, len(items))
	for i := range items {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += fmt.Sprintf("$%d", i+1)
		args[i] = items[i].ID
		index[items[i].ID] = append(index[items[i].ID], i)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT press_release_id, tag
		FROM press_release_tags
		WHERE press_release_id IN (`+placeholders+`)
		ORDER BY press_release_id, tag
	`, args...)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id  uuid.UUID
			tag string
		)
		if err := rows.Scan(&id, &tag); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		for _, i := range index[id] {
			items[i].Tags = append(items[i].Tags, tag)
		}
	}
	return rows.Err()
}

// IncrementViews atomically adds one to the view counter and returns the
// new value. Concurrent callers never lose an increment.
func (s *PressReleaseStore) IncrementViews(ctx context.Context, id uuid.UUID) (int64, error) {
	var views int64
	err := s.db.QueryRowContext(ctx,
		`UPDATE press_releases SET views = views + 1 WHERE id = $1 RETURNING views`, id,
	).Scan(&views)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("increment views: press release %s not found", id)
	}
	if err != nil {
		return 0, fmt.Errorf("increment views: %w", err)
	}
	return views, nil
}

// DeleteAll removes every press release and returns how many were deleted.
func (s *PressReleaseStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM press_releases`)
	if err != nil {
		return 0, fmt.Errorf("delete press releases: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
