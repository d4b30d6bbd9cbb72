package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"auction-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotificationStore struct {
	notifications map[int64]*models.Notification
	findErr       error
	deleteErr     error
	deleteCalls   int
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{notifications: make(map[int64]*models.Notification)}
}

func (f *fakeNotificationStore) FindStaleReadNotifications(ctx context.Context, olderThan time.Time) ([]int64, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var ids []int64
	for id, n := range f.notifications {
		if n.CreatedAt.Before(olderThan) && n.ReadAt != nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeNotificationStore) DeleteNotifications(ctx context.Context, ids []int64) (int64, error) {
	f.deleteCalls++
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	var count int64
	for _, id := range ids {
		if _, ok := f.notifications[id]; ok {
			delete(f.notifications, id)
			count++
		}
	}
	return count, nil
}

func notification(id int64, age time.Duration, read bool) *models.Notification {
	n := &models.Notification{
		ID:        id,
		UserID:    1,
		Type:      models.NotificationTypeAuctionStarted,
		CreatedAt: time.Now().Add(-age),
	}
	if read {
		readAt := n.CreatedAt.Add(time.Hour)
		n.ReadAt = &readAt
	}
	return n
}

func TestPurgeReadNotifications(t *testing.T) {
	st := newFakeNotificationStore()
	st.notifications[1] = notification(1, 40*24*time.Hour, true)  // old and read: purged
	st.notifications[2] = notification(2, 10*24*time.Hour, true)  // read but recent: kept
	st.notifications[3] = notification(3, 40*24*time.Hour, false) // old but unread: kept

	svc := NewCleanupService(st, 30*24*time.Hour)
	require.NoError(t, svc.PurgeReadNotifications(context.Background()))

	assert.NotContains(t, st.notifications, int64(1))
	assert.Contains(t, st.notifications, int64(2))
	assert.Contains(t, st.notifications, int64(3))
}

func TestPurgeNoopWhenNothingStale(t *testing.T) {
	st := newFakeNotificationStore()
	st.notifications[1] = notification(1, time.Hour, true)

	svc := NewCleanupService(st, 30*24*time.Hour)
	require.NoError(t, svc.PurgeReadNotifications(context.Background()))

	assert.Zero(t, st.deleteCalls, "no delete issued for an empty batch")
	assert.Contains(t, st.notifications, int64(1))
}

func TestPurgeFindFailureAbortsRun(t *testing.T) {
	st := newFakeNotificationStore()
	st.findErr = errors.New("connection refused")

	svc := NewCleanupService(st, 30*24*time.Hour)
	err := svc.PurgeReadNotifications(context.Background())
	require.Error(t, err)
	assert.Zero(t, st.deleteCalls)
}

func TestPurgeDeleteFailureSurfaces(t *testing.T) {
	st := newFakeNotificationStore()
	st.notifications[1] = notification(1, 40*24*time.Hour, true)
	st.deleteErr = errors.New("deadlock detected")

	svc := NewCleanupService(st, 30*24*time.Hour)
	err := svc.PurgeReadNotifications(context.Background())
	require.Error(t, err)
	assert.Contains(t, st.notifications, int64(1))
}
