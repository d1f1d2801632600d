package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
	"gitlab.com/orza-agritech/web/orza-sync/pkg/cachekeys"
)

func newNotificationService(h *harness) *NotificationService {
	return NewNotificationService(nopLogger{}, h.cfg, h.api, h.session, h.engine, h.runner)
}

func TestNotificationService_List_CachesForPollInterval(t *testing.T) {
	h := newHarness(t)
	h.session.Set("tok-123", time.Hour)
	h.transport.handler = func(_, path string, _ domain.RequestOptions) (*domain.Envelope, error) {
		require.Equal(t, "/notifications", path)
		return successEnvelope([]domain.Notification{
			{ID: "n1", IsRead: false},
			{ID: "n2", IsRead: true},
		}, ""), nil
	}
	svc := newNotificationService(h)
	ctx := context.Background()

	notifications, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, 1, h.transport.callCount())

	// Within the poll interval the list is a cache hit.
	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, h.transport.callCount())

	// Past the interval it refetches.
	h.clock.Advance(31 * time.Second)
	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, h.transport.callCount())
}

func TestNotificationService_List_RequiresSession(t *testing.T) {
	h := newHarness(t)
	svc := newNotificationService(h)

	_, err := svc.List(context.Background())

	assert.ErrorIs(t, err, domain.ErrQueryDisabled)
	assert.Zero(t, h.transport.callCount())
}

func TestNotificationService_UnreadCount(t *testing.T) {
	h := newHarness(t)
	h.session.Set("tok-123", time.Hour)
	h.transport.handler = func(_, _ string, _ domain.RequestOptions) (*domain.Envelope, error) {
		return successEnvelope([]domain.Notification{
			{ID: "n1"},
			{ID: "n2", IsRead: true},
			{ID: "n3"},
		}, ""), nil
	}
	svc := newNotificationService(h)

	count, err := svc.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestBadge_CapsAtNinetyNine(t *testing.T) {
	assert.Equal(t, "0", Badge(0))
	assert.Equal(t, "7", Badge(7))
	assert.Equal(t, "99", Badge(99))
	assert.Equal(t, "99+", Badge(100))
	assert.Equal(t, "99+", Badge(2500))
}

func TestNotificationService_MarkRead_RefreshesInbox(t *testing.T) {
	h := newHarness(t)
	h.session.Set("tok-123", time.Hour)
	h.seedEntry(t, cachekeys.Notifications(), []domain.Notification{{ID: "n1"}}, time.Hour)
	h.transport.handler = func(method, path string, _ domain.RequestOptions) (*domain.Envelope, error) {
		require.Equal(t, "PATCH", method)
		require.Equal(t, "/notifications/n1/read", path)
		return successEnvelope(nil, ""), nil
	}
	svc := newNotificationService(h)

	_, err := svc.MarkRead(context.Background(), "n1")

	require.NoError(t, err)
	assert.True(t, h.entryStale(t, cachekeys.Notifications()))
}

func TestNotificationService_Polling_StartStopLifecycle(t *testing.T) {
	h := newHarness(t)
	svc := newNotificationService(h)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc.StartPolling(ctx)
	// A second start is a no-op rather than a second goroutine.
	svc.StartPolling(ctx)

	svc.StopPolling()
	// Stopping again is safe.
	svc.StopPolling()
}
