package application

import (
	"context"

	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/config"
	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/orzaapi"
	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
	"gitlab.com/orza-agritech/web/orza-sync/pkg/cachekeys"
)

// UserService covers the signed-in user's profile. Two read endpoints return
// the same user; they stay separately cached because their response shapes
// differ, and a profile update invalidates both.
type UserService struct {
	logger  domain.Logger
	config  config.Provider
	api     *orzaapi.API
	session domain.SessionStore
	engine  *QueryEngine
	runner  *MutationRunner
}

// NewUserService creates the user profile service.
func NewUserService(
	logger domain.Logger,
	cfgProvider config.Provider,
	api *orzaapi.API,
	session domain.SessionStore,
	engine *QueryEngine,
	runner *MutationRunner,
) *UserService {
	return &UserService{
		logger:  logger,
		config:  cfgProvider,
		api:     api,
		session: session,
		engine:  engine,
		runner:  runner,
	}
}

func (s *UserService) authed() bool {
	_, ok := s.session.Token()
	return ok
}

// Profile returns the signed-in user from the profile endpoint.
func (s *UserService) Profile(ctx context.Context) (*domain.User, error) {
	return Query(ctx, s.engine, cachekeys.Profile(),
		QueryOptions{TTL: s.config.Get().MediumTTL(), Enabled: s.authed},
		func(ctx context.Context) (*domain.User, error) {
			return s.api.Profile(ctx)
		})
}

// UserProfile returns the signed-in user from the users endpoint.
func (s *UserService) UserProfile(ctx context.Context) (*domain.User, error) {
	return Query(ctx, s.engine, cachekeys.UserProfile(),
		QueryOptions{TTL: s.config.Get().MediumTTL(), Enabled: s.authed},
		func(ctx context.Context) (*domain.User, error) {
			return s.api.UserProfile(ctx)
		})
}

func profileEdges() []cachekeys.Predicate {
	return []cachekeys.Predicate{
		cachekeys.Exact(cachekeys.Profile()),
		cachekeys.Exact(cachekeys.UserProfile()),
	}
}

// UpdateProfile saves profile changes and refreshes both profile reads.
func (s *UserService) UpdateProfile(ctx context.Context, params orzaapi.ProfileParams) (domain.Outcome, error) {
	return s.runner.run(ctx, "update_profile", domain.MsgProfileUpdateFailed, profileEdges(),
		func(ctx context.Context) (mutationResult, error) {
			message, err := s.api.UpdateProfile(ctx, params)
			return mutationResult{message: message}, err
		})
}
