package store

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"portalcms/internal/models"
)

// seedCategory upserts a throwaway category and registers its cleanup.
func seedCategory(t *testing.T, db *sql.DB) *models.Category {
	t.Helper()
	slug := "test-prcat-" + uuid.NewString()[:8]
	c, _, err := NewCategoryStore(db).Upsert(context.Background(), models.CategoryInput{Name: "Test " + slug, Slug: slug})
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	t.Cleanup(func() { cleanCategories(t, db, slug) })
	return c
}

func TestPressReleaseStoreUpsertAndTags(t *testing.T) {
	db := testDB(t)
	s := NewPressReleaseStore(db)
	ctx := context.Background()

	slug := "test-upsert-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPressReleases(t, db, slug) })

	in := models.PressReleaseInput{
		Slug:          slug,
		Title:         "Scholarship portal opens",
		Excerpt:       "Applications accepted",
		Author:        models.DefaultAuthor,
		Tags:          []string{"education", "scholarship", "education", " "},
		IsPublished:   true,
		PublishedDate: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	p, created, err := s.Upsert(ctx, in)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !created {
		t.Error("expected create on first upsert")
	}
	if len(p.Tags) != 2 || p.Tags[0] != "education" || p.Tags[1] != "scholarship" {
		t.Errorf("tags: got %v", p.Tags)
	}

	// Absent tags leave the set unchanged.
	in.Tags = nil
	in.Title = "Scholarship portal opens today"
	p2, created, err := s.Upsert(ctx, in)
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if created {
		t.Error("expected update on second upsert")
	}
	if p2.ID != p.ID {
		t.Error("upsert must keep the id")
	}
	if p2.Title != "Scholarship portal opens today" {
		t.Errorf("title: got %q", p2.Title)
	}
	if len(p2.Tags) != 2 {
		t.Errorf("nil tags must keep set, got %v", p2.Tags)
	}

	// Provided tags replace wholesale.
	in.Tags = []string{"portal"}
	p3, _, err := s.Upsert(ctx, in)
	if err != nil {
		t.Fatalf("third Upsert: %v", err)
	}
	if len(p3.Tags) != 1 || p3.Tags[0] != "portal" {
		t.Errorf("tags after replace: got %v", p3.Tags)
	}

	// Identical input does not move updated_at.
	p4, _, err := s.Upsert(ctx, in)
	if err != nil {
		t.Fatalf("fourth Upsert: %v", err)
	}
	if !p4.UpdatedAt.Equal(p3.UpdatedAt) {
		t.Errorf("updated_at moved on identical upsert: %v -> %v", p3.UpdatedAt, p4.UpdatedAt)
	}
}

func TestPressReleaseStorePublishedVisibility(t *testing.T) {
	db := testDB(t)
	s := NewPressReleaseStore(db)
	ctx := context.Background()

	slug := "test-draft-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPressReleases(t, db, slug) })

	if _, _, err := s.Upsert(ctx, models.PressReleaseInput{
		Slug: slug, Title: "Draft", Author: models.DefaultAuthor, PublishedDate: time.Now(),
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	p, err := s.FindPublishedBySlug(ctx, slug)
	if err != nil {
		t.Fatalf("FindPublishedBySlug: %v", err)
	}
	if p != nil {
		t.Error("unpublished press release must not be found")
	}

	p, err = s.FindBySlug(ctx, slug)
	if err != nil || p == nil {
		t.Fatalf("FindBySlug: %v, %v", p, err)
	}
}

func TestPressReleaseStoreListPublished(t *testing.T) {
	db := testDB(t)
	s := NewPressReleaseStore(db)
	ctx := context.Background()
	cat := seedCategory(t, db)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var slugs []string
	for i := 0; i < 6; i++ {
		slug := "test-list-" + uuid.NewString()[:8]
		slugs = append(slugs, slug)
		_, _, err := s.Upsert(ctx, models.PressReleaseInput{
			Slug:          slug,
			Title:         "Listing article",
			Excerpt:       "Road safety drive",
			Author:        models.DefaultAuthor,
			CategoryID:    &cat.ID,
			IsPublished:   true,
			IsFeatured:    i%2 == 0,
			PublishedDate: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("Upsert %d: %v", i, err)
		}
	}
	draft := "test-list-draft-" + uuid.NewString()[:8]
	slugs = append(slugs, draft)
	s.Upsert(ctx, models.PressReleaseInput{
		Slug: draft, Title: "Draft", Author: models.DefaultAuthor, CategoryID: &cat.ID, PublishedDate: base,
	})
	t.Cleanup(func() { cleanPressReleases(t, db, slugs...) })

	items, total, err := s.ListPublished(ctx, models.PressReleaseFilter{CategorySlug: cat.Slug, Limit: 3})
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("items: got %d, want 3", len(items))
	}
	if total != 6 {
		t.Errorf("total: got %d, want 6", total)
	}
	for i := 1; i < len(items); i++ {
		if items[i].PublishedDate.After(items[i-1].PublishedDate) {
			t.Error("expected newest first")
		}
	}
	for _, it := range items {
		if it.Category == nil || it.Category.Slug != cat.Slug {
			t.Errorf("category not joined: %+v", it.Category)
		}
	}

	_, total, err = s.ListPublished(ctx, models.PressReleaseFilter{CategorySlug: cat.Slug, FeaturedOnly: true})
	if err != nil {
		t.Fatalf("ListPublished featured: %v", err)
	}
	if total != 3 {
		t.Errorf("featured total: got %d, want 3", total)
	}

	_, total, err = s.ListPublished(ctx, models.PressReleaseFilter{CategorySlug: cat.Slug, Search: "ROAD"})
	if err != nil {
		t.Fatalf("ListPublished search: %v", err)
	}
	if total != 6 {
		t.Errorf("search total: got %d, want 6", total)
	}
}

func TestPressReleaseStoreRelated(t *testing.T) {
	db := testDB(t)
	s := NewPressReleaseStore(db)
	ctx := context.Background()
	cat := seedCategory(t, db)

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	var slugs []string
	for i := 0; i < 5; i++ {
		slug := "test-rel-" + uuid.NewString()[:8]
		slugs = append(slugs, slug)
		p, _, err := s.Upsert(ctx, models.PressReleaseInput{
			Slug: slug, Title: "Related", Author: models.DefaultAuthor, CategoryID: &cat.ID,
			IsPublished: true, PublishedDate: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("Upsert: %v", err)
		}
		ids = append(ids, p.ID)
	}
	t.Cleanup(func() { cleanPressReleases(t, db, slugs...) })

	related, err := s.Related(ctx, cat.ID, ids[4], 3)
	if err != nil {
		t.Fatalf("Related: %v", err)
	}
	if len(related) != 3 {
		t.Fatalf("related: got %d, want 3", len(related))
	}
	for i, want := range []uuid.UUID{ids[3], ids[2], ids[1]} {
		if related[i].ID != want {
			t.Errorf("related[%d]: got %s, want %s", i, related[i].ID, want)
		}
	}
}

func TestPressReleaseStoreIncrementViewsConcurrent(t *testing.T) {
	db := testDB(t)
	s := NewPressReleaseStore(db)
	ctx := context.Background()

	slug := "test-views-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPressReleases(t, db, slug) })

	p, _, err := s.Upsert(ctx, models.PressReleaseInput{
		Slug: slug, Title: "Views", Author: models.DefaultAuthor, IsPublished: true, PublishedDate: time.Now(),
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.IncrementViews(ctx, p.ID); err != nil {
				t.Errorf("IncrementViews: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := s.FindBySlug(ctx, slug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if got.Views != n {
		t.Errorf("views: got %d, want %d", got.Views, n)
	}

	if _, err := s.IncrementViews(ctx, uuid.New()); err == nil {
		t.Error("expected error for unknown id")
	}
}
