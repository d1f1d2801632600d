package orzaapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (nopLogger) Fatal(context.Context, string, ...any) {}
func (l nopLogger) With(...any) domain.Logger           { return l }

// stubTransport routes requests to a handler and counts calls per path.
type stubTransport struct {
	mu      sync.Mutex
	paths   []string
	handler func(method, path string, opts domain.RequestOptions) (*domain.Envelope, error)
}

func (s *stubTransport) Request(_ context.Context, method, path string, opts domain.RequestOptions) (*domain.Envelope, error) {
	s.mu.Lock()
	s.paths = append(s.paths, path)
	s.mu.Unlock()
	return s.handler(method, path, opts)
}

func envelope(data any, message string) *domain.Envelope {
	raw, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	return &domain.Envelope{Status: "success", Message: message, Data: raw}
}

func communityListData(communities ...domain.Community) any {
	return map[string]any{
		"items": communities,
		"pagination": map[string]int{
			"page":       1,
			"totalPages": 1,
			"total":      len(communities),
		},
	}
}

func TestAPI_GetCommunity_DirectHit(t *testing.T) {
	transport := &stubTransport{handler: func(_, path string, _ domain.RequestOptions) (*domain.Envelope, error) {
		require.Equal(t, "/communities/c1", path)
		return envelope(domain.Community{ID: "c1", Name: "Petani Padi"}, ""), nil
	}}
	api := New(transport, nopLogger{})

	community, err := api.GetCommunity(context.Background(), "c1")

	require.NoError(t, err)
	assert.Equal(t, "Petani Padi", community.Name)
	assert.Equal(t, []string{"/communities/c1"}, transport.paths)
}

func TestAPI_GetCommunity_NotFoundFallsBackToListScan(t *testing.T) {
	transport := &stubTransport{handler: func(_, path string, opts domain.RequestOptions) (*domain.Envelope, error) {
		switch path {
		case "/communities/c2":
			return nil, domain.NewAPIError(http.StatusNotFound, "")
		case "/communities":
			// The fallback requests one large page.
			assert.Equal(t, "1", opts.Query.Get("page"))
			assert.Equal(t, "100", opts.Query.Get("limit"))
			return envelope(communityListData(
				domain.Community{ID: "c1", Name: "Petani Padi"},
				domain.Community{ID: "c2", Name: "Hidroponik"},
			), ""), nil
		default:
			t.Fatalf("unexpected path %s", path)
			return nil, nil
		}
	}}
	api := New(transport, nopLogger{})

	community, err := api.GetCommunity(context.Background(), "c2")

	require.NoError(t, err)
	assert.Equal(t, "Hidroponik", community.Name)
	assert.Equal(t, []string{"/communities/c2", "/communities"}, transport.paths)
}

func TestAPI_GetCommunity_FallbackExhaustedYieldsNotFound(t *testing.T) {
	transport := &stubTransport{handler: func(_, path string, _ domain.RequestOptions) (*domain.Envelope, error) {
		switch path {
		case "/communities/ghost":
			return nil, domain.NewAPIError(http.StatusNotFound, "")
		case "/communities":
			return envelope(communityListData(domain.Community{ID: "c1"}), ""), nil
		default:
			t.Fatalf("unexpected path %s", path)
			return nil, nil
		}
	}}
	api := New(transport, nopLogger{})

	_, err := api.GetCommunity(context.Background(), "ghost")

	require.Error(t, err)
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, domain.ErrCodeNotFound, apiErr.Code)
	assert.Equal(t, "Komunitas tidak ditemukan", apiErr.Message)
}

func TestAPI_GetCommunity_NonNotFoundErrorSkipsFallback(t *testing.T) {
	transport := &stubTransport{handler: func(_, _ string, _ domain.RequestOptions) (*domain.Envelope, error) {
		return nil, domain.NewAPIError(http.StatusInternalServerError, "")
	}}
	api := New(transport, nopLogger{})

	_, err := api.GetCommunity(context.Background(), "c1")

	require.Error(t, err)
	assert.True(t, domain.IsStatus(err, http.StatusInternalServerError))
	// The scan never ran.
	assert.Equal(t, []string{"/communities/c1"}, transport.paths)
}
