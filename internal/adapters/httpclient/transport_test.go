package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/config"
	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/cookies"
	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (nopLogger) Fatal(context.Context, string, ...any) {}
func (l nopLogger) With(...any) domain.Logger           { return l }

func newTestClient(t *testing.T, server *httptest.Server) (*Client, *cookies.SessionStore) {
	t.Helper()
	cfg := config.Static(&config.Config{
		API: config.APIConfig{BaseURL: server.URL, TimeoutSeconds: 5},
	})
	session := cookies.NewSessionStore(cookies.NewJar())
	return New(cfg, session, nopLogger{}), session
}

func TestClient_Request_AttachesBearerTokenWhenPresent(t *testing.T) {
	var gotAuth, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{"status":"success","message":"ok"}`))
	}))
	defer server.Close()

	client, session := newTestClient(t, server)
	session.Set("tok-123", time.Hour)

	env, err := client.Request(context.Background(), http.MethodGet, "/profile", domain.RequestOptions{})

	require.NoError(t, err)
	assert.True(t, env.IsSuccess())
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestClient_Request_UnauthenticatedCallsGoOutBare(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server)

	_, err := client.Request(context.Background(), http.MethodPost, "/auth/login", domain.RequestOptions{
		JSONBody: map[string]string{"email": "a@b.c"},
	})

	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_Request_Unauthorized_DestroysSessionAndFiresHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"error","message":"Sesi berakhir"}`))
	}))
	defer server.Close()

	client, session := newTestClient(t, server)
	session.Set("tok-123", time.Hour)

	var hookFired int32
	client.SetUnauthorizedHook(func(context.Context) {
		atomic.AddInt32(&hookFired, 1)
		// The token is already gone when the hook runs.
		_, ok := session.Token()
		assert.False(t, ok)
	})

	_, err := client.Request(context.Background(), http.MethodGet, "/notifications", domain.RequestOptions{})

	// The original call still fails so callers short-circuit.
	require.Error(t, err)
	assert.True(t, domain.IsStatus(err, http.StatusUnauthorized))
	assert.EqualValues(t, 1, atomic.LoadInt32(&hookFired))
	_, ok := session.Token()
	assert.False(t, ok)
}

func TestClient_Request_ErrorStatusCarriesEnvelopeMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"status":"error","message":"Judul wajib diisi"}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server)

	_, err := client.Request(context.Background(), http.MethodPost, "/articles", domain.RequestOptions{})

	require.Error(t, err)
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, domain.ErrCodeValidation, apiErr.Code)
	assert.Equal(t, "Judul wajib diisi", apiErr.Message)
}

func TestClient_Request_ErrorEnvelopeInsideSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","message":"Email sudah terdaftar"}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server)

	_, err := client.Request(context.Background(), http.MethodPost, "/auth/register", domain.RequestOptions{})

	require.Error(t, err)
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, domain.ErrCodeValidation, apiErr.Code)
	assert.Equal(t, "Email sudah terdaftar", apiErr.Message)
}

func TestClient_Request_NetworkFailureIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client, _ := newTestClient(t, server)

	_, err := client.Request(context.Background(), http.MethodGet, "/articles", domain.RequestOptions{})

	require.Error(t, err)
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, domain.ErrCodeTransport, apiErr.Code)
}

func TestClient_Request_MultipartEncoding(t *testing.T) {
	var gotFields map[string]string
	var gotFile string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotFields = map[string]string{
			"title":   r.FormValue("title"),
			"content": r.FormValue("content"),
		}
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		gotFile = header.Filename
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server)

	_, err := client.Request(context.Background(), http.MethodPost, "/posts", domain.RequestOptions{
		Multipart: &domain.MultipartPayload{
			Fields: map[string]string{"title": "Hama Wereng", "content": "isi"},
			File: &domain.FileUpload{
				FieldName: "image",
				FileName:  "wereng.jpg",
				Content:   strings.NewReader("jpegdata"),
			},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Hama Wereng", gotFields["title"])
	assert.Equal(t, "isi", gotFields["content"])
	assert.Equal(t, "wereng.jpg", gotFile)
}

func TestClient_Request_MultipartWithoutFileOmitsBinaryPart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Padi", r.FormValue("name"))
		_, _, err := r.FormFile("image")
		assert.Error(t, err)
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server)

	_, err := client.Request(context.Background(), http.MethodPost, "/communities", domain.RequestOptions{
		Multipart: &domain.MultipartPayload{Fields: map[string]string{"name": "Padi"}},
	})
	require.NoError(t, err)
}

func TestClient_Request_QueryParameters(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server)

	query := url.Values{}
	query.Set("page", "2")
	query.Set("limit", "10")
	_, err := client.Request(context.Background(), http.MethodGet, "/articles", domain.RequestOptions{Query: query})

	require.NoError(t, err)
	assert.Equal(t, "2", gotQuery.Get("page"))
	assert.Equal(t, "10", gotQuery.Get("limit"))
}

func TestClient_Request_RejectsAmbiguousBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server)

	_, err := client.Request(context.Background(), http.MethodPost, "/posts", domain.RequestOptions{
		JSONBody:  map[string]string{"a": "b"},
		Multipart: &domain.MultipartPayload{},
	})
	assert.Error(t, err)
}
