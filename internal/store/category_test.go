package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"portalcms/internal/models"
)

func TestCategoryStoreUpsert(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()

	slug := "test-cat-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanCategories(t, db, slug) })

	c, created, err := s.Upsert(ctx, models.CategoryInput{Name: "Schemes", NameLocalized: "పథకాలు", Slug: slug})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !created {
		t.Error("expected first upsert to create")
	}
	if c.Name != "Schemes" || c.NameLocalized != "పథకాలు" {
		t.Errorf("got %q/%q", c.Name, c.NameLocalized)
	}

	again, created, err := s.Upsert(ctx, models.CategoryInput{Name: "Welfare Schemes", Slug: slug})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if created {
		t.Error("expected second upsert to update")
	}
	if again.ID != c.ID {
		t.Errorf("id changed: %s -> %s", c.ID, again.ID)
	}
	if again.Name != "Welfare Schemes" || again.NameLocalized != "" {
		t.Errorf("update not applied: %+v", again)
	}

	items, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var matches int
	for _, item := range items {
		if item.Slug == slug {
			matches++
		}
	}
	if matches != 1 {
		t.Errorf("expected exactly one category with slug %s, got %d", slug, matches)
	}
}

func TestCategoryStoreList(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()

	suffix := uuid.NewString()[:8]
	slugs := []string{"test-list-b-" + suffix, "test-list-a-" + suffix}
	t.Cleanup(func() { cleanCategories(t, db, slugs...) })

	s.Upsert(ctx, models.CategoryInput{Name: "zz list " + suffix, Slug: slugs[0]})
	s.Upsert(ctx, models.CategoryInput{Name: "aa list " + suffix, Slug: slugs[1]})

	items, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	posA, posB := -1, -1
	for i, c := range items {
		switch c.Slug {
		case slugs[1]:
			posA = i
		case slugs[0]:
			posB = i
		}
	}
	if posA < 0 || posB < 0 {
		t.Fatalf("categories missing from list")
	}
	if posA > posB {
		t.Error("expected list ordered by name")
	}
}

func TestCategoryStoreDeleteDetachesPressReleases(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	prs := NewPressReleaseStore(db)
	ctx := context.Background()

	catSlug := "test-del-cat-" + uuid.NewString()[:8]
	prSlug := "test-del-pr-" + uuid.NewString()[:8]
	t.Cleanup(func() {
		cleanPressReleases(t, db, prSlug)
		cleanCategories(t, db, catSlug)
	})

	c, _, err := cats.Upsert(ctx, models.CategoryInput{Name: "Temp", Slug: catSlug})
	if err != nil {
		t.Fatalf("Upsert category: %v", err)
	}
	if _, _, err := prs.Upsert(ctx, models.PressReleaseInput{
		Slug: prSlug, Title: "Detached", Author: models.DefaultAuthor,
		CategoryID: &c.ID, IsPublished: true, PublishedDate: time.Now(),
	}); err != nil {
		t.Fatalf("Upsert press release: %v", err)
	}

	if err := cats.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	p, err := prs.FindBySlug(ctx, prSlug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if p == nil {
		t.Fatal("press release must survive category deletion")
	}
	if p.CategoryID != nil || p.Category != nil {
		t.Errorf("expected category reference cleared, got %v", p.CategoryID)
	}
}
