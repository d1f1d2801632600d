package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/orzaapi"
	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
	"gitlab.com/orza-agritech/web/orza-sync/pkg/cachekeys"
)

func newUserService(h *harness) *UserService {
	return NewUserService(nopLogger{}, h.cfg, h.api, h.session, h.engine, h.runner)
}

func TestUserService_ProfileEndpointsAreCachedSeparately(t *testing.T) {
	h := newHarness(t)
	h.session.Set("tok-123", time.Hour)
	h.transport.handler = func(_, path string, _ domain.RequestOptions) (*domain.Envelope, error) {
		switch path {
		case "/profile":
			return successEnvelope(domain.User{ID: "u1", Name: "Budi"}, ""), nil
		case "/users/profile":
			return successEnvelope(domain.User{ID: "u1", Name: "Budi Santoso"}, ""), nil
		default:
			t.Fatalf("unexpected path %s", path)
			return nil, nil
		}
	}
	svc := newUserService(h)
	ctx := context.Background()

	profile, err := svc.Profile(ctx)
	require.NoError(t, err)
	detailed, err := svc.UserProfile(ctx)
	require.NoError(t, err)

	assert.Equal(t, "Budi", profile.Name)
	assert.Equal(t, "Budi Santoso", detailed.Name)
	assert.Equal(t, 2, h.transport.callCount())
}

func TestUserService_UpdateProfile_InvalidatesBothProfileReads(t *testing.T) {
	h := newHarness(t)
	h.session.Set("tok-123", time.Hour)
	h.seedEntry(t, cachekeys.Profile(), domain.User{ID: "u1"}, time.Hour)
	h.seedEntry(t, cachekeys.UserProfile(), domain.User{ID: "u1"}, time.Hour)
	h.seedEntry(t, cachekeys.Notifications(), []string{}, time.Hour)
	h.transport.handler = func(_, path string, _ domain.RequestOptions) (*domain.Envelope, error) {
		require.Equal(t, "/users/profile", path)
		return successEnvelope(nil, "Profil diperbarui"), nil
	}
	svc := newUserService(h)

	outcome, err := svc.UpdateProfile(context.Background(), orzaapi.ProfileParams{Name: "Budi Santoso"})

	require.NoError(t, err)
	assert.Equal(t, "Profil diperbarui", outcome.Message)
	assert.True(t, h.entryStale(t, cachekeys.Profile()))
	assert.True(t, h.entryStale(t, cachekeys.UserProfile()))
	assert.False(t, h.entryStale(t, cachekeys.Notifications()))
}

func TestUserService_Profile_RequiresSession(t *testing.T) {
	h := newHarness(t)
	svc := newUserService(h)

	_, err := svc.Profile(context.Background())

	assert.ErrorIs(t, err, domain.ErrQueryDisabled)
	assert.Zero(t, h.transport.callCount())
}
