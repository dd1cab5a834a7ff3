// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// GalleryCategory groups gallery images for filtering on the photo page.
type GalleryCategory struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// GalleryImage is a captioned, dated photo. Each media asset appears in
// the gallery at most once.
type GalleryImage struct {
	ID         uuid.UUID  `json:"id"`
	MediaID    uuid.UUID  `json:"media_id"`
	Title      string     `json:"title"`
	Date       time.Time  `json:"date"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`

	// Virtual fields populated by store joins.
	MediaKey     string `json:"-"`
	CategorySlug string `json:"-"`
}

// GalleryImageInput carries the writable fields of a gallery image.
type GalleryImageInput struct {
	MediaID    uuid.UUID
	Title      string
	Date       time.Time
	CategoryID *uuid.UUID
}
