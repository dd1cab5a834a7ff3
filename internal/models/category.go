// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// CategorySlugMaxLen is the width of the category slug columns (news and
// gallery).
const CategorySlugMaxLen = 100

// Category is a news category. Press releases reference at most one.
type Category struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	NameLocalized string    `json:"name_te"`
	Slug          string    `json:"slug"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CategoryInput carries the writable fields of a category for upserts.
// Slug is the natural key; callers derive it from Name when empty.
type CategoryInput struct {
	Name          string
	NameLocalized string
	Slug          string
}
