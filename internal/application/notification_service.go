package application

import (
	"context"
	"strconv"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/config"
	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/metrics"
	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/orzaapi"
	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
	"gitlab.com/orza-agritech/web/orza-sync/pkg/cachekeys"
	"gitlab.com/orza-agritech/web/orza-sync/pkg/safego"
)

// badgeCap is the display ceiling for the unread badge. A presentation rule
// only: the unread count is best-effort between polls, never a server-side
// consistency guarantee.
const badgeCap = 99

// NotificationService models the lightweight inbox: a read that polls on a
// fixed interval regardless of focus, plus a per-notification mark-read write.
// There is no bulk-read endpoint.
type NotificationService struct {
	logger  domain.Logger
	config  config.Provider
	api     *orzaapi.API
	session domain.SessionStore
	engine  *QueryEngine
	runner  *MutationRunner

	mu       sync.Mutex
	stopPoll chan struct{}
	seenIDs  mapset.Set[string]
}

// NewNotificationService creates the notification service.
func NewNotificationService(
	logger domain.Logger,
	cfgProvider config.Provider,
	api *orzaapi.API,
	session domain.SessionStore,
	engine *QueryEngine,
	runner *MutationRunner,
) *NotificationService {
	return &NotificationService{
		logger:  logger,
		config:  cfgProvider,
		api:     api,
		session: session,
		engine:  engine,
		runner:  runner,
		seenIDs: mapset.NewSet[string](),
	}
}

func (s *NotificationService) authed() bool {
	_, ok := s.session.Token()
	return ok
}

// List returns the inbox. The TTL matches the poll interval: between ticks
// reads are cache hits, each tick forces one refetch.
func (s *NotificationService) List(ctx context.Context) ([]domain.Notification, error) {
	notifications, err := Query(ctx, s.engine, cachekeys.Notifications(),
		QueryOptions{TTL: s.config.Get().NotificationsPollInterval(), Enabled: s.authed},
		func(ctx context.Context) ([]domain.Notification, error) {
			return s.api.ListNotifications(ctx)
		})
	if err != nil {
		return nil, err
	}
	s.trackArrivals(ctx, notifications)
	return notifications, nil
}

// trackArrivals logs notifications not seen in any earlier poll of this
// session.
func (s *NotificationService) trackArrivals(ctx context.Context, notifications []domain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fresh := 0
	for _, n := range notifications {
		if s.seenIDs.Add(n.ID) {
			fresh++
		}
	}
	if fresh > 0 {
		s.logger.Debug(ctx, "New notifications arrived", "count", fresh)
	}
}

// UnreadCount returns how many inbox entries are unread, from the cached list.
func (s *NotificationService) UnreadCount(ctx context.Context) (int, error) {
	notifications, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range notifications {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

// Badge renders an unread count for display, capped at "99+".
func Badge(count int) string {
	if count > badgeCap {
		return strconv.Itoa(badgeCap) + "+"
	}
	return strconv.Itoa(count)
}

// MarkRead marks one notification read and refreshes the inbox.
func (s *NotificationService) MarkRead(ctx context.Context, id string) (domain.Outcome, error) {
	return s.runner.run(ctx, "mark_notification_read", domain.MsgGenericFailure,
		[]cachekeys.Predicate{cachekeys.Exact(cachekeys.Notifications())},
		func(ctx context.Context) (mutationResult, error) {
			message, err := s.api.MarkNotificationRead(ctx, id)
			return mutationResult{message: message}, err
		})
}

// StartPolling launches the fixed-interval inbox poll. Each tick marks the
// inbox stale and refetches; ticks are idempotent reads, so an overlapping
// shutdown needs no special cancellation handling.
func (s *NotificationService) StartPolling(ctx context.Context) {
	s.mu.Lock()
	if s.stopPoll != nil {
		s.mu.Unlock()
		return // already polling
	}
	stop := make(chan struct{})
	s.stopPoll = stop
	s.mu.Unlock()

	interval := s.config.Get().NotificationsPollInterval()
	metrics.IncrementActivePollers()
	s.logger.Info(ctx, "Notification polling started", "interval", interval.String())

	safego.Execute(ctx, s.logger, "NotificationPoller", func() {
		defer metrics.DecrementActivePollers()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if !s.authed() {
					continue
				}
				if err := s.engine.Invalidate(ctx, cachekeys.Exact(cachekeys.Notifications())); err != nil {
					s.logger.Warn(ctx, "Failed to mark inbox stale on poll tick", "error", err.Error())
					continue
				}
				if _, err := s.List(ctx); err != nil {
					s.logger.Warn(ctx, "Notification poll fetch failed", "error", err.Error())
				}
			case <-stop:
				s.logger.Info(ctx, "Notification polling stopped")
				return
			case <-ctx.Done():
				s.logger.Info(ctx, "Notification polling stopped by context cancellation")
				return
			}
		}
	})
}

// StopPolling halts the inbox poll. Safe to call when polling never started.
func (s *NotificationService) StopPolling() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopPoll != nil {
		close(s.stopPoll)
		s.stopPoll = nil
	}
}
