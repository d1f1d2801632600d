package application

import (
	"context"

	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/config"
	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/orzaapi"
	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
	"gitlab.com/orza-agritech/web/orza-sync/pkg/cachekeys"
)

// PredictionService orchestrates the plant-disease prediction feed and stats.
type PredictionService struct {
	logger  domain.Logger
	config  config.Provider
	api     *orzaapi.API
	session domain.SessionStore
	engine  *QueryEngine
	runner  *MutationRunner
}

// NewPredictionService creates the prediction service.
func NewPredictionService(
	logger domain.Logger,
	cfgProvider config.Provider,
	api *orzaapi.API,
	session domain.SessionStore,
	engine *QueryEngine,
	runner *MutationRunner,
) *PredictionService {
	return &PredictionService{
		logger:  logger,
		config:  cfgProvider,
		api:     api,
		session: session,
		engine:  engine,
		runner:  runner,
	}
}

func (s *PredictionService) authed() bool {
	_, ok := s.session.Token()
	return ok
}

// Feed returns an infinite list over the user's prediction history.
func (s *PredictionService) Feed() *InfiniteList[domain.Prediction] {
	return NewInfiniteList(func(ctx context.Context, page int) (domain.Page[domain.Prediction], error) {
		return Query(ctx, s.engine, cachekeys.Predictions(page),
			QueryOptions{TTL: s.config.Get().MediumTTL(), Enabled: s.authed},
			func(ctx context.Context) (domain.Page[domain.Prediction], error) {
				return s.api.PredictionsFeed(ctx, page)
			})
	})
}

// Get returns one prediction by id.
func (s *PredictionService) Get(ctx context.Context, id string) (*domain.Prediction, error) {
	return Query(ctx, s.engine, cachekeys.Prediction(id),
		QueryOptions{TTL: s.config.Get().MediumTTL(), Enabled: func() bool { return id != "" }},
		func(ctx context.Context) (*domain.Prediction, error) {
			return s.api.GetPrediction(ctx, id)
		})
}

// Stats returns the user's prediction summary.
func (s *PredictionService) Stats(ctx context.Context) (*domain.PredictionStats, error) {
	return Query(ctx, s.engine, cachekeys.PredictionStats(),
		QueryOptions{TTL: s.config.Get().MediumTTL(), Enabled: s.authed},
		func(ctx context.Context) (*domain.PredictionStats, error) {
			return s.api.PredictionStats(ctx)
		})
}

func predictionEdges() []cachekeys.Predicate {
	return []cachekeys.Predicate{
		cachekeys.ByResource(cachekeys.ResPredictions),
		cachekeys.Exact(cachekeys.PredictionStats()),
	}
}

// Create uploads a plant photo, refreshes the feed and stats, and navigates
// to the new prediction's detail page.
func (s *PredictionService) Create(ctx context.Context, params orzaapi.PredictionParams) (domain.Outcome, error) {
	return s.runner.run(ctx, "create_prediction", domain.MsgPredictionFailed, predictionEdges(),
		func(ctx context.Context) (mutationResult, error) {
			prediction, message, err := s.api.CreatePrediction(ctx, params)
			if err != nil {
				return mutationResult{}, err
			}
			route := domain.RoutePrediction(prediction.ID)
			return mutationResult{message: message, navigateTo: &route}, nil
		})
}

// Delete removes a prediction from the history.
func (s *PredictionService) Delete(ctx context.Context, id string) (domain.Outcome, error) {
	return s.runner.run(ctx, "delete_prediction", domain.MsgPredictionFailed, predictionEdges(),
		func(ctx context.Context) (mutationResult, error) {
			message, err := s.api.DeletePrediction(ctx, id)
			return mutationResult{message: message}, err
		})
}
