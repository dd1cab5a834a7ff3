package memstore

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portalcms/internal/models"
)

func TestCategoryDeleteDetachesPressReleases(t *testing.T) {
	ctx := context.Background()
	db := New()

	cat, created, err := db.Categories().Upsert(ctx, models.CategoryInput{Name: "Events", Slug: "events"})
	require.NoError(t, err)
	require.True(t, created)

	p, _, err := db.PressReleases().Upsert(ctx, models.PressReleaseInput{
		Slug: "launch", Title: "Launch", CategoryID: &cat.ID, IsPublished: true, PublishedDate: time.Now(),
	})
	require.NoError(t, err)
	require.NotNil(t, p.Category)
	assert.Equal(t, "events", p.Category.Slug)

	require.NoError(t, db.Categories().Delete(ctx, cat.ID))

	got, err := db.PressReleases().FindBySlug(ctx, "launch")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.CategoryID)
	assert.Nil(t, got.Category)
}

func TestPressReleaseUpsertTagSemantics(t *testing.T) {
	ctx := context.Background()
	s := New().PressReleases()

	in := models.PressReleaseInput{Slug: "a", Title: "A", Tags: []string{"b", "a", "b"}, PublishedDate: time.Now()}
	p, created, err := s.Upsert(ctx, in)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, []string{"a", "b"}, p.Tags)

	in.Tags = nil
	p, created, err = s.Upsert(ctx, in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, []string{"a", "b"}, p.Tags)

	in.Tags = []string{}
	p, _, err = s.Upsert(ctx, in)
	require.NoError(t, err)
	assert.Empty(t, p.Tags)
}

func TestPressReleaseUpsertRejectsUnknownReferences(t *testing.T) {
	ctx := context.Background()
	s := New().PressReleases()
	missing := uuid.New()

	_, _, err := s.Upsert(ctx, models.PressReleaseInput{Slug: "x", Title: "X", CategoryID: &missing})
	assert.Error(t, err)
	_, _, err = s.Upsert(ctx, models.PressReleaseInput{Slug: "x", Title: "X", FeaturedImageID: &missing})
	assert.Error(t, err)
	_, _, err = s.Upsert(ctx, models.PressReleaseInput{Title: "no slug"})
	assert.Error(t, err)
}

func TestIncrementViewsConcurrent(t *testing.T) {
	ctx := context.Background()
	s := New().PressReleases()
	p, _, err := s.Upsert(ctx, models.PressReleaseInput{Slug: "v", Title: "V", IsPublished: true})
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.IncrementViews(ctx, p.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, n, got.Views)
}

func TestListPublishedLimitAndTotal(t *testing.T) {
	ctx := context.Background()
	s := New().PressReleases()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		_, _, err := s.Upsert(ctx, models.PressReleaseInput{
			Slug: string(rune('a' + i)), Title: "Item", IsPublished: true,
			PublishedDate: base.AddDate(0, 0, i),
		})
		require.NoError(t, err)
	}
	_, _, err := s.Upsert(ctx, models.PressReleaseInput{Slug: "draft", Title: "Item", PublishedDate: base})
	require.NoError(t, err)

	items, total, err := s.ListPublished(ctx, models.PressReleaseFilter{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, 6, total)
	assert.Equal(t, "f", items[0].Slug)
}

func TestGalleryImageJoins(t *testing.T) {
	ctx := context.Background()
	db := New()

	m, err := db.Media().Create(ctx, &models.Media{Title: "photo", StorageKey: "gallery/p.jpg", ContentType: "image/jpeg"})
	require.NoError(t, err)
	cat, _, err := db.Gallery().UpsertCategory(ctx, "Events", "events")
	require.NoError(t, err)

	_, created, err := db.Gallery().UpsertImage(ctx, models.GalleryImageInput{MediaID: m.ID, Title: "Photo", CategoryID: &cat.ID})
	require.NoError(t, err)
	assert.True(t, created)
	_, created, err = db.Gallery().UpsertImage(ctx, models.GalleryImageInput{MediaID: m.ID, Title: "Photo 2"})
	require.NoError(t, err)
	assert.False(t, created)

	images, err := db.Gallery().ListImages(ctx)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "gallery/p.jpg", images[0].MediaKey)
	assert.Equal(t, "Photo 2", images[0].Title)
	assert.Empty(t, images[0].CategorySlug)
}

func TestMediaCreateDuplicateKey(t *testing.T) {
	ctx := context.Background()
	s := New().Media()
	_, err := s.Create(ctx, &models.Media{Title: "a", StorageKey: "k"})
	require.NoError(t, err)
	_, err = s.Create(ctx, &models.Media{Title: "b", StorageKey: "k"})
	assert.Error(t, err)

	found, err := s.FindByTitle(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "k", found.StorageKey)
}

func TestUpsertRejectsSlugWiderThanColumn(t *testing.T) {
	ctx := context.Background()
	db := New()

	_, _, err := db.PressReleases().Upsert(ctx, models.PressReleaseInput{
		Slug: strings.Repeat("a", models.SlugMaxLen+1), Title: "Long", PublishedDate: time.Now(),
	})
	assert.Error(t, err)

	_, _, err = db.Categories().Upsert(ctx, models.CategoryInput{
		Name: "Long", Slug: strings.Repeat("c", models.CategorySlugMaxLen+1),
	})
	assert.Error(t, err)

	_, _, err = db.Gallery().UpsertCategory(ctx, "Long", strings.Repeat("g", models.CategorySlugMaxLen+1))
	assert.Error(t, err)

	_, _, err = db.PressReleases().Upsert(ctx, models.PressReleaseInput{
		Slug: strings.Repeat("a", models.SlugMaxLen), Title: "Fits", PublishedDate: time.Now(),
	})
	assert.NoError(t, err)
}
