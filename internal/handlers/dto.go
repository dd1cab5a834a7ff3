// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"time"

	"github.com/google/uuid"

	"portalcms/internal/content"
	"portalcms/internal/models"
)

// Response shapes of the read API. Field names follow the JSON contract
// the portal frontend consumes.

type notificationJSON struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	URL   *string   `json:"url"`
}

type galleryCategoryJSON struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type galleryImageJSON struct {
	ID       uuid.UUID `json:"id"`
	Image    *string   `json:"image"`
	Title    string    `json:"title"`
	Date     string    `json:"date"`
	Category *string   `json:"category"`
}

type categoryJSON struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	NameTe string    `json:"name_te"`
	Slug   string    `json:"slug"`
}

type newsItemJSON struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	TitleTe        string     `json:"title_te"`
	Slug           string     `json:"slug"`
	Excerpt        string     `json:"excerpt"`
	ExcerptTe      string     `json:"excerpt_te"`
	Body           string     `json:"body"`
	BodyTe         string     `json:"body_te"`
	FeaturedImage  *string    `json:"featured_image"`
	Category       *uuid.UUID `json:"category"`
	CategoryName   string     `json:"category_name,omitempty"`
	CategorySlug   string     `json:"category_slug,omitempty"`
	CategoryNameTe string     `json:"category_name_te,omitempty"`
	Author         string     `json:"author"`
	Tags           []string   `json:"tags"`
	IsFeatured     bool       `json:"is_featured"`
	IsPublished    bool       `json:"is_published"`
	PublishedDate  time.Time  `json:"published_date"`
	Views          *int64     `json:"views,omitempty"`
}

type newsDetailJSON struct {
	newsItemJSON
	Category    *categoryJSON  `json:"category"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	RelatedNews []newsItemJSON `json:"related_news"`
}

// urlFunc maps a media storage key to an absolute URL.
type urlFunc func(key string) string

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toNotifications(items []models.Notification) []notificationJSON {
	out := make([]notificationJSON, 0, len(items))
	for _, n := range items {
		out = append(out, notificationJSON{ID: n.ID, Title: n.Title, URL: optional(n.URL)})
	}
	return out
}

func toGalleryCategories(items []models.GalleryCategory) []galleryCategoryJSON {
	out := make([]galleryCategoryJSON, 0, len(items))
	for _, c := range items {
		out = append(out, galleryCategoryJSON{ID: c.Slug, Label: c.Name})
	}
	return out
}

func toGalleryImages(items []models.GalleryImage, mediaURL urlFunc) []galleryImageJSON {
	out := make([]galleryImageJSON, 0, len(items))
	for _, img := range items {
		j := galleryImageJSON{
			ID:       img.ID,
			Title:    img.Title,
			Date:     img.Date.Format(time.DateOnly),
			Category: optional(img.CategorySlug),
		}
		if img.MediaKey != "" {
			j.Image = optional(mediaURL(img.MediaKey))
		}
		out = append(out, j)
	}
	return out
}

func toCategory(c models.Category) categoryJSON {
	return categoryJSON{ID: c.ID, Name: c.Name, NameTe: c.NameLocalized, Slug: c.Slug}
}

func toCategories(items []models.Category) []categoryJSON {
	out := make([]categoryJSON, 0, len(items))
	for _, c := range items {
		out = append(out, toCategory(c))
	}
	return out
}

func toNewsItem(p models.PressRelease, mediaURL urlFunc) newsItemJSON {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	j := newsItemJSON{
		ID:            p.ID,
		Title:         p.Title,
		TitleTe:       p.TitleLocalized,
		Slug:          p.Slug,
		Excerpt:       p.Excerpt,
		ExcerptTe:     p.ExcerptLocalized,
		Body:          p.Body,
		BodyTe:        p.BodyLocalized,
		Category:      p.CategoryID,
		Author:        p.Author,
		Tags:          tags,
		IsFeatured:    p.IsFeatured,
		IsPublished:   p.IsPublished,
		PublishedDate: p.PublishedDate,
		Views:         &p.Views,
	}
	if p.FeaturedImageKey != "" {
		j.FeaturedImage = optional(mediaURL(p.FeaturedImageKey))
	}
	if p.Category != nil {
		j.CategoryName = p.Category.Name
		j.CategorySlug = p.Category.Slug
		j.CategoryNameTe = p.Category.NameLocalized
	}
	return j
}

func toNewsItems(items []models.PressRelease, mediaURL urlFunc) []newsItemJSON {
	out := make([]newsItemJSON, 0, len(items))
	for _, p := range items {
		out = append(out, toNewsItem(p, mediaURL))
	}
	return out
}

// toListedNewsItems shapes listing items. Listings are cached, so view
// counts are left out rather than served stale.
func toListedNewsItems(items []models.PressRelease, mediaURL urlFunc) []newsItemJSON {
	out := toNewsItems(items, mediaURL)
	for i := range out {
		out[i].Views = nil
	}
	return out
}

func toNewsDetail(d *content.Detail, mediaURL urlFunc) newsDetailJSON {
	j := newsDetailJSON{
		newsItemJSON: toNewsItem(d.PressRelease, mediaURL),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		RelatedNews:  toNewsItems(d.Related, mediaURL),
	}
	if d.Category != nil {
		c := toCategory(*d.Category)
		j.Category = &c
	}
	return j
}
