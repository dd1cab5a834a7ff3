// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SlugMaxLen is the width of press_releases.slug.
const SlugMaxLen = 200

// DefaultAuthor is attributed to press releases that name no author.
const DefaultAuthor = "Ministry of Minority Welfare"

// PressRelease is a bilingual news article. Localized fields hold the
// parallel-language variant; an empty string means "not translated".
type PressRelease struct {
	ID               uuid.UUID  `json:"id"`
	Slug             string     `json:"slug"`
	Title            string     `json:"title"`
	TitleLocalized   string     `json:"title_te"`
	Excerpt          string     `json:"excerpt"`
	ExcerptLocalized string     `json:"excerpt_te"`
	Body             string     `json:"body"`
	BodyLocalized    string     `json:"body_te"`
	FeaturedImageID  *uuid.UUID `json:"featured_image_id,omitempty"`
	CategoryID       *uuid.UUID `json:"category_id,omitempty"`
	Author           string     `json:"author"`
	Tags             []string   `json:"tags"`
	IsPublished      bool       `json:"is_published"`
	IsFeatured       bool       `json:"is_featured"`
	PublishedDate    time.Time  `json:"published_date"`
	Views            int64      `json:"views"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Virtual fields populated by store joins.
	Category         *Category `json:"category,omitempty"`
	FeaturedImageKey string    `json:"-"`
}

// PressReleaseInput carries the writable fields of a press release for
// upserts. Views are never part of an upsert.
//
// Tags follows replace-or-keep semantics: a nil slice leaves the stored
// tag set untouched, any non-nil slice (even empty) replaces it.
type PressReleaseInput struct {
	Slug             string
	Title            string
	TitleLocalized   string
	Excerpt          string
	ExcerptLocalized string
	Body             string
	BodyLocalized    string
	FeaturedImageID  *uuid.UUID
	CategoryID       *uuid.UUID
	Author           string
	Tags             []string
	IsPublished      bool
	IsFeatured       bool
	PublishedDate    time.Time
}

// PressReleaseFilter narrows a published press release listing. Zero
// values mean "no restriction"; Limit <= 0 means no truncation.
type PressReleaseFilter struct {
	CategorySlug string
	FeaturedOnly bool
	Search       string
	Limit        int
}

// Matches reports whether a press release passes the filter. Unpublished
// articles never match. Limit is not considered.
func (f PressReleaseFilter) Matches(pr *PressRelease) bool {
	if !pr.IsPublished {
		return false
	}
	if f.CategorySlug != "" && (pr.Category == nil || pr.Category.Slug != f.CategorySlug) {
		return false
	}
	if f.FeaturedOnly && !pr.IsFeatured {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(pr.Title), needle) &&
			!strings.Contains(strings.ToLower(pr.Excerpt), needle) {
			return false
		}
	}
	return true
}

// NormalizeTags trims labels, drops empty ones, collapses duplicates and
// returns the set sorted. A nil input stays nil so callers can tell
// "not provided" apart from "clear all tags".
func NormalizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// SortByPublishedDesc orders press releases newest first, breaking ties by
// ID so listings are stable.
func SortByPublishedDesc(items []PressRelease) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].PublishedDate.Equal(items[j].PublishedDate) {
			return items[i].PublishedDate.After(items[j].PublishedDate)
		}
		return items[i].ID.String() < items[j].ID.String()
	})
}
