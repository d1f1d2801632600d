package application

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/orzaapi"
	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
	"gitlab.com/orza-agritech/web/orza-sync/pkg/cachekeys"
)

func newCommunityService(h *harness) *CommunityService {
	return NewCommunityService(nopLogger{}, h.cfg, h.api, h.session, h.engine, h.runner)
}

func TestCommunityService_Join_RefreshesMembershipViews(t *testing.T) {
	h := newHarness(t)
	h.seedEntry(t, cachekeys.Communities(1, 10), []string{}, time.Hour)
	h.seedEntry(t, cachekeys.MyCommunities(), []string{}, time.Hour)
	h.seedEntry(t, cachekeys.Community("c1"), domain.Community{ID: "c1"}, time.Hour)
	h.seedEntry(t, cachekeys.Community("c2"), domain.Community{ID: "c2"}, time.Hour)
	h.transport.handler = func(method, path string, _ domain.RequestOptions) (*domain.Envelope, error) {
		require.Equal(t, http.MethodPost, method)
		require.Equal(t, "/communities/c1/join", path)
		return successEnvelope(nil, "Berhasil bergabung"), nil
	}
	svc := newCommunityService(h)

	_, err := svc.Join(context.Background(), "c1")

	require.NoError(t, err)
	assert.True(t, h.entryStale(t, cachekeys.Communities(1, 10)))
	assert.True(t, h.entryStale(t, cachekeys.MyCommunities()))
	assert.True(t, h.entryStale(t, cachekeys.Community("c1")))
	assert.False(t, h.entryStale(t, cachekeys.Community("c2")))
}

func TestCommunityService_Create_NavigatesToNewCommunity(t *testing.T) {
	h := newHarness(t)
	h.transport.handler = func(method, path string, opts domain.RequestOptions) (*domain.Envelope, error) {
		require.Equal(t, http.MethodPost, method)
		require.Equal(t, "/communities", path)
		require.NotNil(t, opts.Multipart)
		assert.Equal(t, "Petani Padi Jawa", opts.Multipart.Fields["name"])
		return successEnvelope(domain.Community{ID: "c9", Name: "Petani Padi Jawa"}, "Komunitas dibuat"), nil
	}
	svc := newCommunityService(h)

	outcome, err := svc.Create(context.Background(), orzaapi.CommunityParams{Name: "Petani Padi Jawa"})

	require.NoError(t, err)
	require.NotNil(t, outcome.NavigateTo)
	assert.Equal(t, domain.RouteCommunity("c9"), *outcome.NavigateTo)
}

func TestCommunityService_Delete_NavigatesToCommunityList(t *testing.T) {
	h := newHarness(t)
	h.transport.handler = func(method, path string, _ domain.RequestOptions) (*domain.Envelope, error) {
		require.Equal(t, http.MethodDelete, method)
		require.Equal(t, "/communities/c1", path)
		return successEnvelope(nil, "Komunitas dihapus"), nil
	}
	svc := newCommunityService(h)

	outcome, err := svc.Delete(context.Background(), "c1")

	require.NoError(t, err)
	require.NotNil(t, outcome.NavigateTo)
	assert.Equal(t, domain.RouteCommunities(), *outcome.NavigateTo)
}

func TestCommunityService_Get_DisabledWithoutID(t *testing.T) {
	h := newHarness(t)
	svc := newCommunityService(h)

	_, err := svc.Get(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrQueryDisabled)
	assert.Zero(t, h.transport.callCount())
}
