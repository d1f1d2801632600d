package domain

import (
	"encoding/json"
	"fmt"
)

// Envelope is the uniform JSON wrapper returned by every Orza API endpoint.
// Data is kept raw; resource clients decode it into their own types.
type Envelope struct {
	Status  string          `json:"status"` // "success" or "error"
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`

	// Pagination metadata. Some list endpoints report it at the envelope
	// level; others nest it under data.pagination. Resource clients are
	// responsible for normalizing either shape into a Page.
	Page       int `json:"page,omitempty"`
	TotalPages int `json:"totalPages,omitempty"`
	Total      int `json:"total,omitempty"`
}

// IsSuccess reports whether the envelope carries a successful status.
func (e *Envelope) IsSuccess() bool {
	return e.Status == "success"
}

// DecodeData unmarshals the envelope's data payload into out.
func (e *Envelope) DecodeData(out any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("envelope has no data payload")
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return fmt.Errorf("failed to decode envelope data: %w", err)
	}
	return nil
}

// PaginationMeta is the nested metadata shape some resources return under
// data.pagination.
type PaginationMeta struct {
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	Total      int `json:"total"`
}

// Page is the canonical normalized list shape the orchestration layer sees.
// Resource clients map either envelope-level or nested pagination metadata
// into this one seam.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	Total      int `json:"total"`
}

// HasNext reports whether another page exists after this one.
func (p Page[T]) HasNext() bool {
	return p.Page < p.TotalPages
}

// NextPage returns the next page number, or ErrNoNextPage when this page is
// terminal. Boundary law: page == totalPages is terminal, including the
// single-page case totalPages == 1.
func (p Page[T]) NextPage() (int, error) {
	if !p.HasNext() {
		return 0, ErrNoNextPage
	}
	return p.Page + 1, nil
}
