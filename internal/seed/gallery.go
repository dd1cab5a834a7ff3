// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"portalcms/internal/metrics"
	"portalcms/internal/models"
)

// RunGallery seeds gallery categories and images from doc. Images whose
// file cannot be resolved are skipped. Images are keyed by their media
// asset, so a repeated run updates rather than duplicates; the resolver
// should match assets by file name as well as title so that distinct
// photos sharing a caption stay distinct.
func (s *Service) RunGallery(ctx context.Context, doc *GalleryDocument, opts Options) (*Report, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: empty gallery document", ErrInput)
	}
	if s.deps.Gallery == nil {
		return nil, fmt.Errorf("seed gallery: no gallery store configured")
	}
	r := &Report{}

	categories := make(map[string]uuid.UUID, len(doc.Categories))
	for i, rec := range doc.Categories {
		key := fmt.Sprintf("categories[%d]", i)
		if err := s.validate.Struct(rec); err != nil {
			r.skip(KindGalleryCategory, key, err.Error())
			continue
		}
		sl, ok := s.resolveSlug(rec.Slug, rec.Name, models.CategorySlugMaxLen)
		if !ok {
			r.skip(KindGalleryCategory, key, slugProblem(rec.Slug))
			continue
		}
		c, created, err := s.deps.Gallery.UpsertCategory(ctx, rec.Name, sl)
		if err != nil {
			return r, fmt.Errorf("seed gallery category %s: %w", sl, err)
		}
		categories[c.Slug] = c.ID
		r.GalleryCategories.count(created)
		metrics.RecordSeed(KindGalleryCategory, outcome(created))
	}

	for i, rec := range doc.Images {
		key := fmt.Sprintf("images[%d]", i)
		if err := s.validate.Struct(rec); err != nil {
			r.skip(KindGalleryImage, key, err.Error())
			continue
		}
		date, err := ParseDate(rec.Date)
		if err != nil {
			r.skip(KindGalleryImage, rec.Filename, err.Error())
			continue
		}
		if opts.Assets == nil || opts.SkipImages {
			r.skip(KindGalleryImage, rec.Filename, "image import disabled")
			continue
		}

		m, err := opts.Assets.Resolve(ctx, rec.Filename, rec.Title)
		if err != nil {
			return r, fmt.Errorf("seed gallery image %s: %w", rec.Filename, err)
		}
		if m == nil {
			r.skip(KindGalleryImage, rec.Filename, "file not found")
			continue
		}
		r.Images++

		in := models.GalleryImageInput{MediaID: m.ID, Title: rec.Title, Date: date}
		if rec.Category != "" {
			if id, ok := categories[rec.Category]; ok {
				in.CategoryID = &id
			} else {
				slog.Warn("unknown gallery category", "file", rec.Filename, "category", rec.Category)
			}
		}

		_, created, err := s.deps.Gallery.UpsertImage(ctx, in)
		if err != nil {
			return r, fmt.Errorf("seed gallery image %s: %w", rec.Filename, err)
		}
		r.GalleryImages.count(created)
		metrics.RecordSeed(KindGalleryImage, outcome(created))
	}

	s.invalidate(ctx)
	slog.Info("gallery seed complete",
		"categories", r.GalleryCategories.total(),
		"images", r.GalleryImages.total(),
		"skipped", len(r.Problems),
	)
	return r, nil
}
