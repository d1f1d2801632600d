package orzaapi

import (
	"context"
	"net/http"

	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
)

// ProductSuggestions fetches the near-static product recommendation list.
func (a *API) ProductSuggestions(ctx context.Context) ([]domain.Product, error) {
	env, err := a.transport.Request(ctx, http.MethodGet, "/products/suggestions", domain.RequestOptions{})
	if err != nil {
		return nil, err
	}
	var products []domain.Product
	if err := env.DecodeData(&products); err != nil {
		return nil, err
	}
	return products, nil
}
