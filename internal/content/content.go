// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content is the read side of the portal: press release listings
// and detail pages, news categories, the photo gallery and notifications.
// Every public operation only ever sees published press releases.
package content

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"portalcms/internal/models"
)

// RelatedLimit caps the related articles returned with a detail view.
const RelatedLimit = 3

// ErrNotFound is returned when no published press release has the slug.
var ErrNotFound = errors.New("press release not found")

// PressReleaseReader is the press release storage the service reads from.
type PressReleaseReader interface {
	ListPublished(ctx context.Context, f models.PressReleaseFilter) ([]models.PressRelease, int, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.PressRelease, error)
	Related(ctx context.Context, categoryID, excludeID uuid.UUID, limit int) ([]models.PressRelease, error)
	IncrementViews(ctx context.Context, id uuid.UUID) (int64, error)
}

// CategoryLister lists news categories.
type CategoryLister interface {
	List(ctx context.Context) ([]models.Category, error)
}

// GalleryReader lists gallery categories and images.
type GalleryReader interface {
	ListCategories(ctx context.Context) ([]models.GalleryCategory, error)
	ListImages(ctx context.Context) ([]models.GalleryImage, error)
}

// NotificationLister lists active notifications.
type NotificationLister interface {
	ListActive(ctx context.Context) ([]models.Notification, error)
}

// Service answers the public read API.
type Service struct {
	releases      PressReleaseReader
	categories    CategoryLister
	gallery       GalleryReader
	notifications NotificationLister

	// OnView, when set, is called after each successful view increment.
	OnView func()
}

// NewService creates a query service over the given stores.
func NewService(releases PressReleaseReader, categories CategoryLister, gallery GalleryReader, notifications NotificationLister) *Service {
	return &Service{
		releases:      releases,
		categories:    categories,
		gallery:       gallery,
		notifications: notifications,
	}
}

// ListQuery holds the raw listing parameters as received from a client.
type ListQuery struct {
	Category string
	Featured string
	Search   string
	Limit    string
}

// Filter converts raw parameters into a store filter. Only the literal
// "true" enables the featured filter; the limit is parsed leniently.
func (q ListQuery) Filter() models.PressReleaseFilter {
	return models.PressReleaseFilter{
		CategorySlug: strings.TrimSpace(q.Category),
		FeaturedOnly: q.Featured == "true",
		Search:       strings.TrimSpace(q.Search),
		Limit:        ParseLimit(q.Limit),
	}
}

// ParseLimit returns the limit as a positive integer, or 0 (no limit) when
// the value is absent, non-numeric or not positive.
func ParseLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// ListResult is a page of press releases plus the filtered total before
// the limit was applied.
type ListResult struct {
	Items []models.PressRelease
	Total int
}

// ListPressReleases returns published press releases matching f, newest first.
func (s *Service) ListPressReleases(ctx context.Context, f models.PressReleaseFilter) (*ListResult, error) {
	items, total, err := s.releases.ListPublished(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list press releases: %w", err)
	}
	if items == nil {
		items = []models.PressRelease{}
	}
	return &ListResult{Items: items, Total: total}, nil
}

// Detail is a single press release with its related articles.
type Detail struct {
	models.PressRelease
	Related []models.PressRelease
}

// PressReleaseDetail returns the published press release for slug and
// counts one view. The returned record carries the incremented count.
// Returns ErrNotFound for unknown or unpublished slugs.
func (s *Service) PressReleaseDetail(ctx context.Context, slug string) (*Detail, error) {
	p, err := s.releases.FindPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("find press release: %w", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}

	d := &Detail{PressRelease: *p, Related: []models.PressRelease{}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		views, err := s.releases.IncrementViews(gctx, p.ID)
		if err != nil {
			return err
		}
		d.Views = views
		return nil
	})
	if p.CategoryID != nil {
		categoryID := *p.CategoryID
		g.Go(func() error {
			related, err := s.releases.Related(gctx, categoryID, p.ID, RelatedLimit)
			if err != nil {
				return err
			}
			if related != nil {
				d.Related = related
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("press release detail: %w", err)
	}

	if s.OnView != nil {
		s.OnView()
	}
	return d, nil
}

// ListCategories returns all news categories.
func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	items, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if items == nil {
		items = []models.Category{}
	}
	return items, nil
}

// ListGalleryCategories returns all gallery categories.
func (s *Service) ListGalleryCategories(ctx context.Context) ([]models.GalleryCategory, error) {
	items, err := s.gallery.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list gallery categories: %w", err)
	}
	if items == nil {
		items = []models.GalleryCategory{}
	}
	return items, nil
}

// ListGalleryImages returns all gallery images, newest first.
func (s *Service) ListGalleryImages(ctx context.Context) ([]models.GalleryImage, error) {
	items, err := s.gallery.ListImages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list gallery images: %w", err)
	}
	if items == nil {
		items = []models.GalleryImage{}
	}
	return items, nil
}

// ListNotifications returns active notifications.
func (s *Service) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	items, err := s.notifications.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	if items == nil {
		items = []models.Notification{}
	}
	return items, nil
}
