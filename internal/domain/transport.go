package domain

import (
	"context"
	"io"
	"net/url"
)

// FileUpload is one binary part of a multipart payload (avatar, article or
// community image, prediction photo).
type FileUpload struct {
	FieldName string
	FileName  string
	Content   io.Reader
}

// MultipartPayload carries scalar fields (already stringified by the resource
// client) plus an optional binary part. The transport encodes but never
// transforms the values.
type MultipartPayload struct {
	Fields map[string]string
	File   *FileUpload
}

// RequestOptions selects the body encoding for one transport call. At most one
// of JSONBody and Multipart may be set.
type RequestOptions struct {
	Query     url.Values
	JSONBody  any
	Multipart *MultipartPayload
}

// Transport is the single point of egress to the remote API. Implementations
// attach the bearer token before every request and globally intercept 401
// responses (session destroy, cache clear, sign-in redirect) while still
// rejecting the original call. No retries, queuing, or rate limiting happens
// at this layer.
type Transport interface {
	Request(ctx context.Context, method, path string, opts RequestOptions) (*Envelope, error)
}

// UnauthorizedHook is invoked by the transport exactly once per 401 response,
// after the session token has been cleared. The orchestration layer uses it to
// clear the cache and surface the sign-in redirect.
type UnauthorizedHook func(ctx context.Context)
