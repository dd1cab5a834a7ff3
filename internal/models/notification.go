package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a short announcement shown in the portal ticker.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	IsActive  bool      `json:"is_active"`
	SortOrder int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationInput carries the writable fields of a notification.
type NotificationInput struct {
	Title     string
	URL       string
	IsActive  bool
	SortOrder int
}
