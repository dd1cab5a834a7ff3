// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package seed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrInput marks a seed document that is missing or malformed. It aborts
// the whole run.
var ErrInput = errors.New("seed input")

// LogicalID is a document-local identifier used to link news records to
// categories. Documents may use JSON numbers or strings.
type LogicalID string

// UnmarshalJSON accepts a JSON string or number.
func (id *LogicalID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = LogicalID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("logical id must be a string or number: %s", data)
	}
	*id = LogicalID(n.String())
	return nil
}

// NewsDocument is the news seed document.
type NewsDocument struct {
	Categories    []CategoryRecord     `json:"categories"`
	News          []NewsRecord         `json:"news"`
	Notifications []NotificationRecord `json:"notifications"`
}

// CategoryRecord is one category entry of a news document.
type CategoryRecord struct {
	ID     LogicalID `json:"id"`
	Slug   string    `json:"slug" validate:"omitempty,max=100"`
	Name   string    `json:"name" validate:"required,max=100"`
	NameTe string    `json:"name_te" validate:"max=100"`
}

// NewsRecord is one press release entry of a news document. Pointer
// fields distinguish "absent" from the zero value; Tags is nil when the
// key is absent or null. Bodies are HTML unless BodyFormat is "markdown".
type NewsRecord struct {
	Slug          string     `json:"slug" validate:"omitempty,max=200"`
	Title         string     `json:"title" validate:"required,max=300"`
	TitleTe       string     `json:"title_te" validate:"max=300"`
	Excerpt       string     `json:"excerpt"`
	ExcerptTe     string     `json:"excerpt_te"`
	Body          string     `json:"body"`
	BodyTe        string     `json:"body_te"`
	BodyFormat    string     `json:"body_format" validate:"omitempty,oneof=html markdown"`
	FeaturedImage string     `json:"featured_image"`
	Category      *LogicalID `json:"category"`
	Author        string     `json:"author" validate:"max=100"`
	IsPublished   *bool      `json:"is_published"`
	IsFeatured    *bool      `json:"is_featured"`
	PublishedDate string     `json:"published_date"`
	Tags          []string   `json:"tags" validate:"dive,max=100"`
}

// NotificationRecord is one ticker notification entry.
type NotificationRecord struct {
	Title    string `json:"title" validate:"required,max=300"`
	URL      string `json:"url" validate:"max=500"`
	IsActive *bool  `json:"is_active"`
	Order    int    `json:"order" validate:"min=0"`
}

// GalleryDocument is the gallery seed document.
type GalleryDocument struct {
	Categories []GalleryCategoryRecord `json:"categories"`
	Images     []GalleryImageRecord    `json:"images"`
}

// GalleryCategoryRecord is one gallery category entry.
type GalleryCategoryRecord struct {
	Slug string `json:"slug" validate:"omitempty,max=100"`
	Name string `json:"name" validate:"required,max=100"`
}

// GalleryImageRecord is one gallery image entry. Category is a gallery
// category slug.
type GalleryImageRecord struct {
	Filename string `json:"filename" validate:"required"`
	Title    string `json:"title" validate:"required,max=255"`
	Date     string `json:"date" validate:"required"`
	Category string `json:"category"`
}

// LoadNewsDocument reads and decodes a news document from path.
func LoadNewsDocument(path string) (*NewsDocument, error) {
	var doc NewsDocument
	if err := loadJSON(path, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadGalleryDocument reads and decodes a gallery document from path.
func LoadGalleryDocument(path string) (*GalleryDocument, error) {
	var doc GalleryDocument
	if err := loadJSON(path, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DecodeNewsDocument decodes a news document from r.
func DecodeNewsDocument(r io.Reader) (*NewsDocument, error) {
	var doc NewsDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode news document: %v", ErrInput, err)
	}
	return &doc, nil
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: file not found: %s", ErrInput, path)
	}
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrInput, path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrInput, path, err)
	}
	return nil
}

// dateLayouts are the ISO-8601 shapes accepted for published dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses an ISO-8601 timestamp or date. Values without a zone
// are taken as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
		return time.Time{}, fmt.Errorf("unix timestamps are not accepted: %d", n)
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
