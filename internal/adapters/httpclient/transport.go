// Package httpclient is the single point of egress to the remote Orza API.
// Cross-cutting policy (bearer injection, global 401 handling, request IDs)
// is applied here and nowhere else. The transport never retries, queues, or
// rate-limits; failure policy belongs to callers.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/config"
	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
	"gitlab.com/orza-agritech/web/orza-sync/pkg/contextkeys"
)

// Client implements domain.Transport over net/http.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    domain.SessionStore
	logger     domain.Logger

	mu             sync.RWMutex
	onUnauthorized domain.UnauthorizedHook
}

// New creates the transport. The session store is injected so the token is
// read fresh on every call rather than captured at construction.
func New(cfgProvider config.Provider, session domain.SessionStore, logger domain.Logger) *Client {
	if session == nil {
		panic("session store cannot be nil in httpclient.New")
	}
	if logger == nil {
		panic("logger cannot be nil in httpclient.New")
	}
	cfg := cfgProvider.Get()
	timeout := time.Duration(cfg.API.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.API.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		session:    session,
		logger:     logger,
	}
}

// SetUnauthorizedHook registers the callback invoked after a 401 response has
// destroyed the session. Registered once during bootstrap; the hook clears the
// cache and emits the sign-in redirect.
func (c *Client) SetUnauthorizedHook(hook domain.UnauthorizedHook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = hook
}

// Request performs one HTTP call and decodes the response envelope.
// Non-2xx responses and network failures are returned as *domain.APIError;
// 401 additionally destroys the session and fires the unauthorized hook while
// the original call still fails, so callers short-circuit.
func (c *Client) Request(ctx context.Context, method, path string, opts domain.RequestOptions) (*domain.Envelope, error) {
	requestID := uuid.NewString()
	ctx = context.WithValue(ctx, contextkeys.RequestIDKey, requestID)

	body, contentType, err := encodeBody(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	reqURL := c.baseURL + path
	if len(opts.Query) > 0 {
		reqURL += "?" + opts.Query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s %s: %w", method, path, err)
	}
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	// The token is read fresh on every call; its absence is not an error
	// here, unauthenticated endpoints (login, register) go out bare.
	if token, ok := c.session.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(ctx, "Request failed at network level", "method", method, "path", path, "error", err.Error())
		return nil, fmt.Errorf("%s %s: %w", method, path, &domain.APIError{Code: domain.ErrCodeTransport})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error(ctx, "Failed to read response body", "method", method, "path", path, "error", err.Error())
		return nil, fmt.Errorf("%s %s: %w", method, path, &domain.APIError{Code: domain.ErrCodeTransport, StatusCode: resp.StatusCode})
	}

	var envelope domain.Envelope
	parseErr := json.Unmarshal(raw, &envelope)

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Warn(ctx, "Server reported 401, destroying session", "method", method, "path", path)
		c.session.Clear()
		c.mu.RLock()
		hook := c.onUnauthorized
		c.mu.RUnlock()
		if hook != nil {
			hook(ctx)
		}
		return nil, domain.NewAPIError(resp.StatusCode, envelope.Message)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := ""
		if parseErr == nil {
			message = envelope.Message
		}
		c.logger.Debug(ctx, "Request returned error status", "method", method, "path", path, "status", resp.StatusCode)
		return nil, domain.NewAPIError(resp.StatusCode, message)
	}

	if parseErr != nil {
		c.logger.Error(ctx, "Failed to decode response envelope", "method", method, "path", path, "error", parseErr.Error())
		return nil, fmt.Errorf("%s %s: %w", method, path, &domain.APIError{Code: domain.ErrCodeTransport, StatusCode: resp.StatusCode})
	}

	// The server occasionally reports a domain failure inside a 2xx envelope;
	// the status field, not the HTTP code, is authoritative for those.
	if !envelope.IsSuccess() {
		c.logger.Debug(ctx, "Envelope reported failure despite 2xx status", "method", method, "path", path)
		return nil, &domain.APIError{Code: domain.ErrCodeValidation, StatusCode: resp.StatusCode, Message: envelope.Message}
	}

	return &envelope, nil
}

// encodeBody renders the chosen body encoding. Callers pick JSON or multipart;
// the transport encodes but never transforms field values.
func encodeBody(opts domain.RequestOptions) (io.Reader, string, error) {
	switch {
	case opts.JSONBody != nil && opts.Multipart != nil:
		return nil, "", fmt.Errorf("request may set JSONBody or Multipart, not both")
	case opts.JSONBody != nil:
		payload, err := json.Marshal(opts.JSONBody)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(payload), "application/json", nil
	case opts.Multipart != nil:
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		for field, value := range opts.Multipart.Fields {
			if err := writer.WriteField(field, value); err != nil {
				return nil, "", err
			}
		}
		// The binary part is attached only when a file is actually present.
		if file := opts.Multipart.File; file != nil {
			part, err := writer.CreateFormFile(file.FieldName, file.FileName)
			if err != nil {
				return nil, "", err
			}
			if _, err := io.Copy(part, file.Content); err != nil {
				return nil, "", err
			}
		}
		if err := writer.Close(); err != nil {
			return nil, "", err
		}
		return &buf, writer.FormDataContentType(), nil
	default:
		return nil, "", nil
	}
}
