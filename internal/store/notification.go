package store

import (
	"context"
	"database/sql"
	"fmt"

	"portalcms/internal/models"
)

// NotificationStore manages ticker notifications.
type NotificationStore struct {
	db *sql.DB
}

// NewNotificationStore creates a new NotificationStore.
func NewNotificationStore(db *sql.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

const notificationColumns = `id, title, url, is_active, sort_order, created_at`

func scanNotification(scanner interface{ Scan(...any) error }) (*models.Notification, error) {
	var n models.Notification
	if err := scanner.Scan(&n.ID, &n.Title, &n.URL, &n.IsActive, &n.SortOrder, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// ListActive returns active notifications ordered by sort order, newest
// first within the same order.
func (s *NotificationStore) ListActive(ctx context.Context) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE is_active
		ORDER BY sort_order, created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var items []models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		items = append(items, *n)
	}
	return items, rows.Err()
}

// Upsert creates or updates a notification keyed by title.
func (s *NotificationStore) Upsert(ctx context.Context, in models.NotificationInput) (*models.Notification, bool, error) {
	var created bool
	n := &models.Notification{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO notifications (title, url, is_active, sort_order)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (title) DO UPDATE SET
			url = EXCLUDED.url,
			is_active = EXCLUDED.is_active,
			sort_order = EXCLUDED.sort_order
		RETURNING `+notificationColumns+`, (xmax = 0) AS inserted`,
		in.Title, in.URL, in.IsActive, in.SortOrder,
	).Scan(&n.ID, &n.Title, &n.URL, &n.IsActive, &n.SortOrder, &n.CreatedAt, &created)
	if err != nil {
		return nil, false, fmt.Errorf("upsert notification: %w", err)
	}
	return n, created, nil
}
