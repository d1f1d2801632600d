package application

import (
	"context"

	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/config"
	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/orzaapi"
	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
	"gitlab.com/orza-agritech/web/orza-sync/pkg/cachekeys"
)

// ProductService serves the product recommendation list. The catalog changes
// rarely, so it uses the long staleness window and has no writes.
type ProductService struct {
	logger domain.Logger
	config config.Provider
	api    *orzaapi.API
	engine *QueryEngine
}

// NewProductService creates the product suggestion service.
func NewProductService(logger domain.Logger, cfgProvider config.Provider, api *orzaapi.API, engine *QueryEngine) *ProductService {
	return &ProductService{logger: logger, config: cfgProvider, api: api, engine: engine}
}

// Suggestions returns the recommended products.
func (s *ProductService) Suggestions(ctx context.Context) ([]domain.Product, error) {
	return Query(ctx, s.engine, cachekeys.ProductSuggestions(),
		QueryOptions{TTL: s.config.Get().LongTTL()},
		func(ctx context.Context) ([]domain.Product, error) {
			return s.api.ProductSuggestions(ctx)
		})
}
