// Package memstore is an in-memory implementation of the store contracts,
// used by service and handler tests and by tooling that runs without a
// database. All sub-stores share one lock so cross-table invariants
// (category detach, joins) hold under concurrent use.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"portalcms/internal/models"
)

// DB holds every table in memory.
type DB struct {
	mu  sync.RWMutex
	now func() time.Time

	categories    map[uuid.UUID]models.Category
	releases      map[uuid.UUID]models.PressRelease
	media         map[uuid.UUID]models.Media
	notifications map[uuid.UUID]models.Notification
	galleryCats   map[uuid.UUID]models.GalleryCategory
	galleryImages map[uuid.UUID]models.GalleryImage
}

// New returns an empty in-memory database.
func New() *DB {
	return &DB{
		now:           time.Now,
		categories:    map[uuid.UUID]models.Category{},
		releases:      map[uuid.UUID]models.PressRelease{},
		media:         map[uuid.UUID]models.Media{},
		notifications: map[uuid.UUID]models.Notification{},
		galleryCats:   map[uuid.UUID]models.GalleryCategory{},
		galleryImages: map[uuid.UUID]models.GalleryImage{},
	}
}

// Categories returns the news category store.
func (db *DB) Categories() *CategoryStore { return &CategoryStore{db: db} }

// PressReleases returns the press release store.
func (db *DB) PressReleases() *PressReleaseStore { return &PressReleaseStore{db: db} }

// Media returns the media store.
func (db *DB) Media() *MediaStore { return &MediaStore{db: db} }

// Notifications returns the notification store.
func (db *DB) Notifications() *NotificationStore { return &NotificationStore{db: db} }

// Gallery returns the gallery store.
func (db *DB) Gallery() *GalleryStore { return &GalleryStore{db: db} }

// CategoryStore is the in-memory news category store.
type CategoryStore struct{ db *DB }

// List returns all categories ordered by name.
func (s *CategoryStore) List(_ context.Context) ([]models.Category, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	items := make([]models.Category, 0, len(s.db.categories))
	for _, c := range s.db.categories {
		items = append(items, c)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].Slug < items[j].Slug
	})
	return items, nil
}

// FindByID returns the category or nil.
func (s *CategoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	c, ok := s.db.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// FindBySlug returns the category or nil.
func (s *CategoryStore) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	if c := s.db.categoryBySlug(slug); c != nil {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

// Upsert creates or updates by slug.
func (s *CategoryStore) Upsert(_ context.Context, in models.CategoryInput) (*models.Category, bool, error) {
	if in.Slug == "" {
		return nil, false, fmt.Errorf("upsert category: empty slug")
	}
	if len(in.Slug) > models.CategorySlugMaxLen {
		return nil, false, fmt.Errorf("upsert category: slug longer than %d", models.CategorySlugMaxLen)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	now := s.db.now()
	if existing := s.db.categoryBySlug(in.Slug); existing != nil {
		c := *existing
		if c.Name != in.Name || c.NameLocalized != in.NameLocalized {
			c.Name, c.NameLocalized, c.UpdatedAt = in.Name, in.NameLocalized, now
		}
		s.db.categories[c.ID] = c
		return &c, false, nil
	}

	c := models.Category{
		ID: uuid.New(), Name: in.Name, NameLocalized: in.NameLocalized, Slug: in.Slug,
		CreatedAt: now, UpdatedAt: now,
	}
	s.db.categories[c.ID] = c
	return &c, true, nil
}

// Delete removes a category and clears references to it.
func (s *CategoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.detachCategory(id)
	delete(s.db.categories, id)
	return nil
}

// DeleteAll removes every category.
func (s *CategoryStore) DeleteAll(_ context.Context) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	n := int64(len(s.db.categories))
	for id := range s.db.categories {
		s.db.detachCategory(id)
	}
	s.db.categories = map[uuid.UUID]models.Category{}
	return n, nil
}

// Count returns the number of categories.
func (s *CategoryStore) Count(_ context.Context) (int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return len(s.db.categories), nil
}

func (db *DB) categoryBySlug(slug string) *models.Category {
	for _, c := range db.categories {
		if c.Slug == slug {
			return &c
		}
	}
	return nil
}

// detachCategory must be called with the write lock held.
func (db *DB) detachCategory(id uuid.UUID) {
	for pid, p := range db.releases {
		if p.CategoryID != nil && *p.CategoryID == id {
			p.CategoryID = nil
			p.UpdatedAt = db.now()
			db.releases[pid] = p
		}
	}
}

// PressReleaseStore is the in-memory press release store.
type PressReleaseStore struct{ db *DB }

// hydrate copies p and resolves its joins. Read lock must be held.
func (db *DB) hydrate(p models.PressRelease) models.PressRelease {
	p.Tags = append([]string{}, p.Tags...)
	p.Category = nil
	if p.CategoryID != nil {
		if c, ok := db.categories[*p.CategoryID]; ok {
			p.Category = &c
		}
	}
	p.FeaturedImageKey = ""
	if p.FeaturedImageID != nil {
		if m, ok := db.media[*p.FeaturedImageID]; ok {
			p.FeaturedImageKey = m.StorageKey
		}
	}
	return p
}

func (s *PressReleaseStore) find(match func(models.PressRelease) bool) *models.PressRelease {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	for _, p := range s.db.releases {
		if match(p) {
			h := s.db.hydrate(p)
			return &h
		}
	}
	return nil
}

// FindByID returns the press release or nil.
func (s *PressReleaseStore) FindByID(_ context.Context, id uuid.UUID) (*models.PressRelease, error) {
	return s.find(func(p models.PressRelease) bool { return p.ID == id }), nil
}

// FindBySlug returns the press release regardless of publish state, or nil.
func (s *PressReleaseStore) FindBySlug(_ context.Context, slug string) (*models.PressRelease, error) {
	return s.find(func(p models.PressRelease) bool { return p.Slug == slug }), nil
}

// FindPublishedBySlug returns the published press release or nil.
func (s *PressReleaseStore) FindPublishedBySlug(_ context.Context, slug string) (*models.PressRelease, error) {
	return s.find(func(p models.PressRelease) bool { return p.Slug == slug && p.IsPublished }), nil
}

// ListPublished filters, orders and truncates like the SQL store.
func (s *PressReleaseStore) ListPublished(_ context.Context, f models.PressReleaseFilter) ([]models.PressRelease, int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var items []models.PressRelease
	for _, p := range s.db.releases {
		h := s.db.hydrate(p)
		if f.Matches(&h) {
			items = append(items, h)
		}
	}
	models.SortByPublishedDesc(items)

	total := len(items)
	if f.Limit > 0 && len(items) > f.Limit {
		items = items[:f.Limit]
	}
	return items, total, nil
}

// Related returns published press releases sharing the category.
func (s *PressReleaseStore) Related(_ context.Context, categoryID, excludeID uuid.UUID, limit int) ([]models.PressRelease, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var items []models.PressRelease
	for _, p := range s.db.releases {
		if !p.IsPublished || p.ID == excludeID || p.CategoryID == nil || *p.CategoryID != categoryID {
			continue
		}
		items = append(items, s.db.hydrate(p))
	}
	models.SortByPublishedDesc(items)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// Upsert creates or updates by slug with the same tag semantics as the
// SQL store.
func (s *PressReleaseStore) Upsert(_ context.Context, in models.PressReleaseInput) (*models.PressRelease, bool, error) {
	if in.Slug == "" {
		return nil, false, fmt.Errorf("upsert press release: empty slug")
	}
	if len(in.Slug) > models.SlugMaxLen {
		return nil, false, fmt.Errorf("upsert press release: slug longer than %d", models.SlugMaxLen)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if in.CategoryID != nil {
		if _, ok := s.db.categories[*in.CategoryID]; !ok {
			return nil, false, fmt.Errorf("upsert press release: unknown category %s", in.CategoryID)
		}
	}
	if in.FeaturedImageID != nil {
		if _, ok := s.db.media[*in.FeaturedImageID]; !ok {
			return nil, false, fmt.Errorf("upsert press release: unknown media %s", in.FeaturedImageID)
		}
	}

	now := s.db.now()
	var (
		p       models.PressRelease
		created bool
	)
	for _, existing := range s.db.releases {
		if existing.Slug == in.Slug {
			p = existing
			break
		}
	}
	if p.ID == uuid.Nil {
		created = true
		p = models.PressRelease{ID: uuid.New(), Slug: in.Slug, CreatedAt: now, UpdatedAt: now, Tags: []string{}}
	}

	next := p
	next.Title, next.TitleLocalized = in.Title, in.TitleLocalized
	next.Excerpt, next.ExcerptLocalized = in.Excerpt, in.ExcerptLocalized
	next.Body, next.BodyLocalized = in.Body, in.BodyLocalized
	next.FeaturedImageID = copyID(in.FeaturedImageID)
	next.CategoryID = copyID(in.CategoryID)
	next.Author = in.Author
	next.IsPublished, next.IsFeatured = in.IsPublished, in.IsFeatured
	next.PublishedDate = in.PublishedDate
	if in.Tags != nil {
		next.Tags = models.NormalizeTags(in.Tags)
	}
	if !created && contentChanged(p, next) {
		next.UpdatedAt = now
	}

	s.db.releases[next.ID] = next
	h := s.db.hydrate(next)
	return &h, created, nil
}

// IncrementViews adds one to the counter under the write lock.
func (s *PressReleaseStore) IncrementViews(_ context.Context, id uuid.UUID) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.releases[id]
	if !ok {
		return 0, fmt.Errorf("increment views: press release %s not found", id)
	}
	p.Views++
	s.db.releases[id] = p
	return p.Views, nil
}

// Delete removes a press release.
func (s *PressReleaseStore) Delete(_ context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	delete(s.db.releases, id)
	return nil
}

// DeleteAll removes every press release.
func (s *PressReleaseStore) DeleteAll(_ context.Context) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	n := int64(len(s.db.releases))
	s.db.releases = map[uuid.UUID]models.PressRelease{}
	return n, nil
}

// Count returns the number of press releases.
func (s *PressReleaseStore) Count(_ context.Context) (int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return len(s.db.releases), nil
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func idEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func contentChanged(a, b models.PressRelease) bool {
	return a.Title != b.Title || a.TitleLocalized != b.TitleLocalized ||
		a.Excerpt != b.Excerpt || a.ExcerptLocalized != b.ExcerptLocalized ||
		a.Body != b.Body || a.BodyLocalized != b.BodyLocalized ||
		!idEqual(a.FeaturedImageID, b.FeaturedImageID) || !idEqual(a.CategoryID, b.CategoryID) ||
		a.Author != b.Author || a.IsPublished != b.IsPublished || a.IsFeatured != b.IsFeatured ||
		!a.PublishedDate.Equal(b.PublishedDate)
}

// MediaStore is the in-memory media store.
type MediaStore struct{ db *DB }

// Create stores a media record. Storage keys are unique.
func (s *MediaStore) Create(_ context.Context, m *models.Media) (*models.Media, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.media {
		if existing.StorageKey == m.StorageKey {
			return nil, fmt.Errorf("create media: duplicate storage key %q", m.StorageKey)
		}
	}
	created := *m
	created.ID = uuid.New()
	created.CreatedAt = s.db.now()
	s.db.media[created.ID] = created
	return &created, nil
}

// FindByID returns the media record or nil.
func (s *MediaStore) FindByID(_ context.Context, id uuid.UUID) (*models.Media, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	m, ok := s.db.media[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

// FindByTitle returns the oldest media record with the title, or nil.
func (s *MediaStore) FindByTitle(_ context.Context, title string) (*models.Media, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	var found *models.Media
	for _, m := range s.db.media {
		if m.Title != title {
			continue
		}
		if found == nil || m.CreatedAt.Before(found.CreatedAt) {
			cp := m
			found = &cp
		}
	}
	return found, nil
}

// FindByTitleAndFilename returns the oldest media record with both the
// title and file name, or nil.
func (s *MediaStore) FindByTitleAndFilename(_ context.Context, title, filename string) (*models.Media, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	var found *models.Media
	for _, m := range s.db.media {
		if m.Title != title || m.Filename != filename {
			continue
		}
		if found == nil || m.CreatedAt.Before(found.CreatedAt) {
			cp := m
			found = &cp
		}
	}
	return found, nil
}

// Count returns the number of media records.
func (s *MediaStore) Count(_ context.Context) (int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return len(s.db.media), nil
}

// NotificationStore is the in-memory notification store.
type NotificationStore struct{ db *DB }

// ListActive returns active notifications by sort order, newest first.
func (s *NotificationStore) ListActive(_ context.Context) ([]models.Notification, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	var items []models.Notification
	for _, n := range s.db.notifications {
		if n.IsActive {
			items = append(items, n)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].SortOrder != items[j].SortOrder {
			return items[i].SortOrder < items[j].SortOrder
		}
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID.String() < items[j].ID.String()
	})
	return items, nil
}

// Upsert creates or updates a notification keyed by title.
func (s *NotificationStore) Upsert(_ context.Context, in models.NotificationInput) (*models.Notification, bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for id, n := range s.db.notifications {
		if n.Title == in.Title {
			n.URL, n.IsActive, n.SortOrder = in.URL, in.IsActive, in.SortOrder
			s.db.notifications[id] = n
			return &n, false, nil
		}
	}
	n := models.Notification{
		ID: uuid.New(), Title: in.Title, URL: in.URL, IsActive: in.IsActive,
		SortOrder: in.SortOrder, CreatedAt: s.db.now(),
	}
	s.db.notifications[n.ID] = n
	return &n, true, nil
}

// GalleryStore is the in-memory gallery store.
type GalleryStore struct{ db *DB }

// ListCategories returns gallery categories ordered by name.
func (s *GalleryStore) ListCategories(_ context.Context) ([]models.GalleryCategory, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	items := make([]models.GalleryCategory, 0, len(s.db.galleryCats))
	for _, c := range s.db.galleryCats {
		items = append(items, c)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].Slug < items[j].Slug
	})
	return items, nil
}

// UpsertCategory creates or renames a gallery category by slug.
func (s *GalleryStore) UpsertCategory(_ context.Context, name, slug string) (*models.GalleryCategory, bool, error) {
	if len(slug) > models.CategorySlugMaxLen {
		return nil, false, fmt.Errorf("upsert gallery category: slug longer than %d", models.CategorySlugMaxLen)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for id, c := range s.db.galleryCats {
		if c.Slug == slug {
			c.Name = name
			s.db.galleryCats[id] = c
			return &c, false, nil
		}
	}
	c := models.GalleryCategory{ID: uuid.New(), Name: name, Slug: slug, CreatedAt: s.db.now()}
	s.db.galleryCats[c.ID] = c
	return &c, true, nil
}

// ListImages returns gallery images newest date first with joins resolved.
func (s *GalleryStore) ListImages(_ context.Context) ([]models.GalleryImage, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	items := make([]models.GalleryImage, 0, len(s.db.galleryImages))
	for _, img := range s.db.galleryImages {
		if m, ok := s.db.media[img.MediaID]; ok {
			img.MediaKey = m.StorageKey
		}
		img.CategorySlug = ""
		if img.CategoryID != nil {
			if c, ok := s.db.galleryCats[*img.CategoryID]; ok {
				img.CategorySlug = c.Slug
			}
		}
		items = append(items, img)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.After(items[j].Date)
		}
		return strings.Compare(items[i].ID.String(), items[j].ID.String()) < 0
	})
	return items, nil
}

// UpsertImage creates or updates the gallery entry for a media asset.
func (s *GalleryStore) UpsertImage(_ context.Context, in models.GalleryImageInput) (*models.GalleryImage, bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.media[in.MediaID]; !ok {
		return nil, false, fmt.Errorf("upsert gallery image: unknown media %s", in.MediaID)
	}
	for id, img := range s.db.galleryImages {
		if img.MediaID == in.MediaID {
			img.Title, img.Date, img.CategoryID = in.Title, in.Date, copyID(in.CategoryID)
			s.db.galleryImages[id] = img
			return &img, false, nil
		}
	}
	img := models.GalleryImage{
		ID: uuid.New(), MediaID: in.MediaID, Title: in.Title, Date: in.Date,
		CategoryID: copyID(in.CategoryID), CreatedAt: s.db.now(),
	}
	s.db.galleryImages[img.ID] = img
	return &img, true, nil
}

// CountImages returns the number of gallery images.
func (s *GalleryStore) CountImages(_ context.Context) (int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return len(s.db.galleryImages), nil
}
