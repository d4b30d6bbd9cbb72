package store

import (
	"context"
	"time"

	"auction-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateNotification creates a new notification record
func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, type, title, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, n, query, n.UserID, n.Type, n.Title, n.Message)
}

// FindStaleReadNotifications retrieves IDs of read notifications created
// before the cutoff. Unread notifications are never returned.
func (s *Store) FindStaleReadNotifications(ctx context.Context, olderThan time.Time) ([]int64, error) {
	var ids []int64
	err := s.db.SelectContext(ctx, &ids,
		"SELECT id FROM notifications WHERE created_at < $1 AND read_at IS NOT NULL", olderThan)
	return ids, err
}

// DeleteNotifications deletes notifications by ID and returns the count removed
func (s *Store) DeleteNotifications(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In("DELETE FROM notifications WHERE id IN (?)", ids)
	if err != nil {
		return 0, err
	}
	query = s.db.Rebind(query)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
