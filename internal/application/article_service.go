package application

import (
	"context"

	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/config"
	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/orzaapi"
	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
	"gitlab.com/orza-agritech/web/orza-sync/pkg/cachekeys"
)

// ArticleService orchestrates article reads and writes. Lists and details use
// the medium staleness window; categories are near-static reference data and
// use the long one.
type ArticleService struct {
	logger  domain.Logger
	config  config.Provider
	api     *orzaapi.API
	session domain.SessionStore
	engine  *QueryEngine
	runner  *MutationRunner
}

// NewArticleService creates the article service.
func NewArticleService(
	logger domain.Logger,
	cfgProvider config.Provider,
	api *orzaapi.API,
	session domain.SessionStore,
	engine *QueryEngine,
	runner *MutationRunner,
) *ArticleService {
	return &ArticleService{
		logger:  logger,
		config:  cfgProvider,
		api:     api,
		session: session,
		engine:  engine,
		runner:  runner,
	}
}

func (s *ArticleService) authed() bool {
	_, ok := s.session.Token()
	return ok
}

// List returns one page of published articles, optionally narrowed by filter.
// Filtered pages are cached apart from the unfiltered list; logically equal
// filters share one entry via the params hash.
func (s *ArticleService) List(ctx context.Context, page, limit int, filter orzaapi.ArticleFilter) (domain.Page[domain.Article], error) {
	key := cachekeys.Articles(page, limit)
	if filter != (orzaapi.ArticleFilter{}) {
		hash, err := cachekeys.ParamsHash(filter)
		if err != nil {
			return domain.Page[domain.Article]{}, err
		}
		key = cachekeys.ArticlesFiltered(page, limit, hash)
	}
	return Query(ctx, s.engine, key,
		QueryOptions{TTL: s.config.Get().MediumTTL()},
		func(ctx context.Context) (domain.Page[domain.Article], error) {
			return s.api.ListArticles(ctx, page, limit, filter)
		})
}

// Mine returns the signed-in user's articles. Disabled until a session exists.
func (s *ArticleService) Mine(ctx context.Context) ([]domain.Article, error) {
	return Query(ctx, s.engine, cachekeys.MyArticles(),
		QueryOptions{TTL: s.config.Get().MediumTTL(), Enabled: s.authed},
		func(ctx context.Context) ([]domain.Article, error) {
			return s.api.MyArticles(ctx)
		})
}

// Get returns one article by id. Disabled until the id is known.
func (s *ArticleService) Get(ctx context.Context, id string) (*domain.Article, error) {
	return Query(ctx, s.engine, cachekeys.Article(id),
		QueryOptions{TTL: s.config.Get().MediumTTL(), Enabled: func() bool { return id != "" }},
		func(ctx context.Context) (*domain.Article, error) {
			return s.api.GetArticle(ctx, id)
		})
}

// Categories returns the article category reference data.
func (s *ArticleService) Categories(ctx context.Context) ([]domain.Category, error) {
	return Query(ctx, s.engine, cachekeys.Categories(),
		QueryOptions{TTL: s.config.Get().LongTTL()},
		func(ctx context.Context) ([]domain.Category, error) {
			return s.api.ListCategories(ctx)
		})
}

// articleEdges is the invalidation set shared by every article write: all
// cached pages of the public list plus the my-articles list.
func articleEdges() []cachekeys.Predicate {
	return []cachekeys.Predicate{
		cachekeys.ByResource(cachekeys.ResArticles),
		cachekeys.ByResource(cachekeys.ResMyArticles),
	}
}

// Create publishes a new article.
func (s *ArticleService) Create(ctx context.Context, params orzaapi.ArticleParams) (domain.Outcome, error) {
	return s.runner.run(ctx, "create_article", domain.MsgArticleSaveFailed, articleEdges(),
		func(ctx context.Context) (mutationResult, error) {
			_, message, err := s.api.CreateArticle(ctx, params)
			return mutationResult{message: message}, err
		})
}

// Update rewrites an existing article.
func (s *ArticleService) Update(ctx context.Context, id string, params orzaapi.ArticleParams) (domain.Outcome, error) {
	return s.runner.run(ctx, "update_article", domain.MsgArticleSaveFailed, articleEdges(),
		func(ctx context.Context) (mutationResult, error) {
			message, err := s.api.UpdateArticle(ctx, id, params)
			return mutationResult{message: message}, err
		})
}

// Delete removes an article.
func (s *ArticleService) Delete(ctx context.Context, id string) (domain.Outcome, error) {
	return s.runner.run(ctx, "delete_article", domain.MsgArticleDeleteFailed, articleEdges(),
		func(ctx context.Context) (mutationResult, error) {
			message, err := s.api.DeleteArticle(ctx, id)
			return mutationResult{message: message}, err
		})
}
