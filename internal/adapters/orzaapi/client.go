// Package orzaapi holds the resource clients: one file per API resource, each
// function a pure async mapping from params to exactly one transport call plus
// envelope unwrapping. No caching, no retries, no business logic beyond path
// and query construction — with the single documented exception of the
// community-by-id 404 fallback scan.
//
// The API reports pagination metadata inconsistently: some resources put it at
// the envelope level, others nest it under data.pagination. Each resource
// client normalizes its own shape into domain.Page here, so the orchestration
// layer only ever sees the canonical form.
package orzaapi

import (
	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
)

// API bundles the resource clients behind one constructor-injected transport.
type API struct {
	transport domain.Transport
	logger    domain.Logger
}

// New creates the resource client set.
func New(transport domain.Transport, logger domain.Logger) *API {
	if transport == nil {
		panic("transport cannot be nil in orzaapi.New")
	}
	return &API{transport: transport, logger: logger}
}

// envelopePage normalizes the envelope-level pagination shape
// (posts, predictions, notifications) into a Page.
func envelopePage[T any](env *domain.Envelope) (domain.Page[T], error) {
	var items []T
	if err := env.DecodeData(&items); err != nil {
		return domain.Page[T]{}, err
	}
	return domain.Page[T]{
		Items:      items,
		Page:       env.Page,
		TotalPages: env.TotalPages,
		Total:      env.Total,
	}, nil
}

// nestedList is the data-level shape used by articles, communities and users:
// the item slice sits beside a pagination object.
type nestedList[T any] struct {
	Items      []T                   `json:"items"`
	Pagination domain.PaginationMeta `json:"pagination"`
}

// nestedPage normalizes the data.pagination shape into a Page.
func nestedPage[T any](env *domain.Envelope) (domain.Page[T], error) {
	var list nestedList[T]
	if err := env.DecodeData(&list); err != nil {
		return domain.Page[T]{}, err
	}
	return domain.Page[T]{
		Items:      list.Items,
		Page:       list.Pagination.Page,
		TotalPages: list.Pagination.TotalPages,
		Total:      list.Pagination.Total,
	}, nil
}
