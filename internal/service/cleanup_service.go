package service

import (
	"context"
	"fmt"
	"time"

	"auction-service/internal/util"

	"go.uber.org/zap"
)

// NotificationStore is the persistence surface the cleanup job needs
type NotificationStore interface {
	FindStaleReadNotifications(ctx context.Context, olderThan time.Time) ([]int64, error)
	DeleteNotifications(ctx context.Context, ids []int64) (int64, error)
}

// CleanupService purges notification records that are both past the
// retention window and already read. Unread notifications are kept
// regardless of age.
type CleanupService struct {
	store     NotificationStore
	retention time.Duration
	logger    *zap.Logger
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(store NotificationStore, retention time.Duration) *CleanupService {
	return &CleanupService{
		store:     store,
		retention: retention,
		logger:    util.GetLogger(),
	}
}

// PurgeReadNotifications deletes stale read notifications. A failure aborts
// this run only; the data is disposable and the next run starts fresh.
func (s *CleanupService) PurgeReadNotifications(ctx context.Context) error {
	ctx, span := util.StartSpan(ctx, "CleanupService.PurgeReadNotifications")
	defer span.End()

	cutoff := time.Now().Add(-s.retention)

	ids, err := s.store.FindStaleReadNotifications(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to query stale notifications: %w", err)
	}

	if len(ids) == 0 {
		s.logger.Debug("No stale notifications to purge")
		return nil
	}

	count, err := s.store.DeleteNotifications(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to delete stale notifications: %w", err)
	}

	util.NotificationsPurgedTotal.Add(float64(count))
	s.logger.Info("Purged stale notifications",
		zap.Int64("count", count),
		zap.Time("cutoff", cutoff))

	return nil
}
