// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package seed loads news, notification and gallery documents into the
// stores. Runs are idempotent: records are upserted by slug (or title for
// notifications) and images are reused by title, so repeating a run with
// the same input changes nothing.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"portalcms/internal/markdown"
	"portalcms/internal/metrics"
	"portalcms/internal/models"
	"portalcms/internal/slug"
)

// imageTitleRunes is how much of an article title goes into the title of
// its imported featured image.
const imageTitleRunes = 50

// CategoryWriter persists news categories.
type CategoryWriter interface {
	Upsert(ctx context.Context, in models.CategoryInput) (*models.Category, bool, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// PressReleaseWriter persists press releases.
type PressReleaseWriter interface {
	Upsert(ctx context.Context, in models.PressReleaseInput) (*models.PressRelease, bool, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// NotificationWriter persists ticker notifications.
type NotificationWriter interface {
	Upsert(ctx context.Context, in models.NotificationInput) (*models.Notification, bool, error)
}

// GalleryWriter persists gallery categories and images.
type GalleryWriter interface {
	UpsertCategory(ctx context.Context, name, slug string) (*models.GalleryCategory, bool, error)
	UpsertImage(ctx context.Context, in models.GalleryImageInput) (*models.GalleryImage, bool, error)
}

// AssetResolver turns a file reference into a stored media asset. It
// returns (nil, nil) when the file cannot be used.
type AssetResolver interface {
	Resolve(ctx context.Context, name, title string) (*models.Media, error)
}

// Invalidator drops cached API responses after a run.
type Invalidator interface {
	InvalidateAll(ctx context.Context)
}

// Deps bundles the stores a Service writes to. Notifications, Gallery and
// Cache may be nil when the corresponding documents are never seeded.
type Deps struct {
	Categories    CategoryWriter
	PressReleases PressReleaseWriter
	Notifications NotificationWriter
	Gallery       GalleryWriter
	Cache         Invalidator
}

// Options controls a single run.
type Options struct {
	Clear      bool          // delete press releases and categories first
	SkipImages bool          // do not import featured images
	Assets     AssetResolver // resolves image files; nil behaves like SkipImages
}

// Service runs seed documents against the stores.
type Service struct {
	deps     Deps
	validate *validator.Validate
	policy   *bluemonday.Policy
	now      func() time.Time
}

// NewService creates a seeding service.
func NewService(deps Deps) *Service {
	return &Service{
		deps:     deps,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		policy:   bluemonday.UGCPolicy(),
		now:      time.Now,
	}
}

// RunNews seeds categories, press releases and notifications from doc.
// Per-record problems are logged, counted and skipped; store failures
// abort the run.
func (s *Service) RunNews(ctx context.Context, doc *NewsDocument, opts Options) (*Report, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: empty news document", ErrInput)
	}
	r := &Report{}

	if opts.Clear {
		if err := s.clear(ctx, r); err != nil {
			return r, err
		}
	}

	categoryIDs, err := s.seedCategories(ctx, doc.Categories, r)
	if err != nil {
		return r, err
	}
	if err := s.seedPressReleases(ctx, doc.News, categoryIDs, opts, r); err != nil {
		return r, err
	}
	if len(doc.Notifications) > 0 {
		if err := s.seedNotifications(ctx, doc.Notifications, r); err != nil {
			return r, err
		}
	}

	s.invalidate(ctx)
	slog.Info("news seed complete",
		"categories", r.Categories.total(),
		"press_releases", r.PressReleases.total(),
		"images", r.Images,
		"skipped", len(r.Problems),
	)
	return r, nil
}

func (s *Service) clear(ctx context.Context, r *Report) error {
	n, err := s.deps.PressReleases.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("clear press releases: %w", err)
	}
	r.ClearedPressReleases = n

	n, err = s.deps.Categories.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}
	r.ClearedCategories = n

	slog.Info("cleared existing news", "press_releases", r.ClearedPressReleases, "categories", r.ClearedCategories)
	return nil
}

func (s *Service) seedCategories(ctx context.Context, records []CategoryRecord, r *Report) (map[LogicalID]uuid.UUID, error) {
	ids := make(map[LogicalID]uuid.UUID, len(records))
	for i, rec := range records {
		key := fmt.Sprintf("categories[%d]", i)
		if err := s.validate.Struct(rec); err != nil {
			r.skip(KindCategory, key, err.Error())
			continue
		}
		sl, ok := s.resolveSlug(rec.Slug, rec.Name, models.CategorySlugMaxLen)
		if !ok {
			r.skip(KindCategory, key, slugProblem(rec.Slug))
			continue
		}

		c, created, err := s.deps.Categories.Upsert(ctx, models.CategoryInput{
			Name:          rec.Name,
			NameLocalized: rec.NameTe,
			Slug:          sl,
		})
		if err != nil {
			return nil, fmt.Errorf("seed category %s: %w", sl, err)
		}
		r.Categories.count(created)
		metrics.RecordSeed(KindCategory, outcome(created))

		if rec.ID != "" {
			ids[rec.ID] = c.ID
		}
	}
	return ids, nil
}

func (s *Service) seedPressReleases(ctx context.Context, records []NewsRecord, categoryIDs map[LogicalID]uuid.UUID, opts Options, r *Report) error {
	for i, rec := range records {
		key := fmt.Sprintf("news[%d]", i)
		if err := s.validate.Struct(rec); err != nil {
			r.skip(KindPressRelease, key, err.Error())
			continue
		}
		sl, ok := s.resolveSlug(rec.Slug, rec.Title, models.SlugMaxLen)
		if !ok {
			r.skip(KindPressRelease, key, slugProblem(rec.Slug))
			continue
		}

		published := s.now()
		if rec.PublishedDate != "" {
			t, err := ParseDate(rec.PublishedDate)
			if err != nil {
				r.skip(KindPressRelease, sl, err.Error())
				continue
			}
			published = t
		}

		body, bodyTe, err := s.renderBodies(rec)
		if err != nil {
			r.skip(KindPressRelease, sl, err.Error())
			continue
		}

		in := models.PressReleaseInput{
			Slug:             sl,
			Title:            rec.Title,
			TitleLocalized:   rec.TitleTe,
			Excerpt:          rec.Excerpt,
			ExcerptLocalized: rec.ExcerptTe,
			Body:             body,
			BodyLocalized:    bodyTe,
			Author:           rec.Author,
			Tags:             rec.Tags,
			IsPublished:      boolOr(rec.IsPublished, true),
			IsFeatured:       boolOr(rec.IsFeatured, false),
			PublishedDate:    published,
		}
		if in.Author == "" {
			in.Author = models.DefaultAuthor
		}
		if rec.Category != nil {
			if id, ok := categoryIDs[*rec.Category]; ok {
				in.CategoryID = &id
			} else {
				slog.Warn("unknown category reference", "slug", sl, "category", string(*rec.Category))
			}
		}

		if rec.FeaturedImage != "" && !opts.SkipImages && opts.Assets != nil {
			m, err := opts.Assets.Resolve(ctx, rec.FeaturedImage, imageTitle(rec.Title))
			if err != nil {
				return fmt.Errorf("seed image for %s: %w", sl, err)
			}
			if m != nil {
				in.FeaturedImageID = &m.ID
				r.Images++
			}
		}

		_, created, err := s.deps.PressReleases.Upsert(ctx, in)
		if err != nil {
			return fmt.Errorf("seed press release %s: %w", sl, err)
		}
		r.PressReleases.count(created)
		metrics.RecordSeed(KindPressRelease, outcome(created))
	}
	return nil
}

func (s *Service) seedNotifications(ctx context.Context, records []NotificationRecord, r *Report) error {
	if s.deps.Notifications == nil {
		return fmt.Errorf("seed notifications: no notification store configured")
	}
	for i, rec := range records {
		if err := s.validate.Struct(rec); err != nil {
			r.skip(KindNotification, fmt.Sprintf("notifications[%d]", i), err.Error())
			continue
		}
		_, created, err := s.deps.Notifications.Upsert(ctx, models.NotificationInput{
			Title:     rec.Title,
			URL:       rec.URL,
			IsActive:  boolOr(rec.IsActive, true),
			SortOrder: rec.Order,
		})
		if err != nil {
			return fmt.Errorf("seed notification %q: %w", rec.Title, err)
		}
		r.Notifications.count(created)
		metrics.RecordSeed(KindNotification, outcome(created))
	}
	return nil
}

// renderBodies converts Markdown bodies to HTML and sanitizes both
// language variants.
func (s *Service) renderBodies(rec NewsRecord) (string, string, error) {
	body, bodyTe := rec.Body, rec.BodyTe
	if rec.BodyFormat == "markdown" {
		var err error
		if body, err = markdown.ToHTML(body); err != nil {
			return "", "", fmt.Errorf("render body: %w", err)
		}
		if bodyTe, err = markdown.ToHTML(bodyTe); err != nil {
			return "", "", fmt.Errorf("render body_te: %w", err)
		}
	}
	return s.policy.Sanitize(body), s.policy.Sanitize(bodyTe), nil
}

// resolveSlug returns the explicit slug when it is well-formed, or one
// derived from fallback and cut to maxLen when none was given.
func (s *Service) resolveSlug(explicit, fallback string, maxLen int) (string, bool) {
	if explicit == "" {
		derived := slug.Truncate(slug.Generate(fallback), maxLen)
		return derived, derived != ""
	}
	return explicit, slug.Valid(explicit) && len(explicit) <= maxLen
}

// slugProblem is the skip reason for a record resolveSlug rejected. Slugs
// are ASCII, so names written only in other scripts derive nothing.
func slugProblem(explicit string) string {
	if explicit == "" {
		return "no slug derivable from a non-Latin name; set slug explicitly"
	}
	return fmt.Sprintf("invalid slug %q", explicit)
}

func (s *Service) invalidate(ctx context.Context) {
	if s.deps.Cache != nil {
		s.deps.Cache.InvalidateAll(ctx)
	}
}

func imageTitle(title string) string {
	runes := []rune(title)
	if len(runes) > imageTitleRunes {
		runes = runes[:imageTitleRunes]
	}
	return "News: " + string(runes)
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func outcome(created bool) string {
	if created {
		return "created"
	}
	return "updated"
}
