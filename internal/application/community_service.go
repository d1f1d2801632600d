package application

import (
	"context"

	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/config"
	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/orzaapi"
	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
	"gitlab.com/orza-agritech/web/orza-sync/pkg/cachekeys"
)

// CommunityService orchestrates community reads and writes. Membership writes
// (join/leave) touch three views at once — the public list, the user's own
// list, and the single community — so their invalidation set covers all three.
type CommunityService struct {
	logger  domain.Logger
	config  config.Provider
	api     *orzaapi.API
	session domain.SessionStore
	engine  *QueryEngine
	runner  *MutationRunner
}

// NewCommunityService creates the community service.
func NewCommunityService(
	logger domain.Logger,
	cfgProvider config.Provider,
	api *orzaapi.API,
	session domain.SessionStore,
	engine *QueryEngine,
	runner *MutationRunner,
) *CommunityService {
	return &CommunityService{
		logger:  logger,
		config:  cfgProvider,
		api:     api,
		session: session,
		engine:  engine,
		runner:  runner,
	}
}

func (s *CommunityService) authed() bool {
	_, ok := s.session.Token()
	return ok
}

// List returns one page of communities.
func (s *CommunityService) List(ctx context.Context, page, limit int) (domain.Page[domain.Community], error) {
	return Query(ctx, s.engine, cachekeys.Communities(page, limit),
		QueryOptions{TTL: s.config.Get().MediumTTL()},
		func(ctx context.Context) (domain.Page[domain.Community], error) {
			return s.api.ListCommunities(ctx, page, limit)
		})
}

// Mine returns the communities the signed-in user joined. Disabled until a
// session exists.
func (s *CommunityService) Mine(ctx context.Context) ([]domain.Community, error) {
	return Query(ctx, s.engine, cachekeys.MyCommunities(),
		QueryOptions{TTL: s.config.Get().MediumTTL(), Enabled: s.authed},
		func(ctx context.Context) ([]domain.Community, error) {
			return s.api.MyCommunities(ctx)
		})
}

// Get returns one community by id. The underlying client performs the 404
// fallback scan, so a community the single-resource endpoint has lost still
// resolves from the list.
func (s *CommunityService) Get(ctx context.Context, id string) (*domain.Community, error) {
	return Query(ctx, s.engine, cachekeys.Community(id),
		QueryOptions{TTL: s.config.Get().MediumTTL(), Enabled: func() bool { return id != "" }},
		func(ctx context.Context) (*domain.Community, error) {
			return s.api.GetCommunity(ctx, id)
		})
}

func communityEdges(id string) []cachekeys.Predicate {
	return []cachekeys.Predicate{
		cachekeys.ByResource(cachekeys.ResCommunities),
		cachekeys.ByResource(cachekeys.ResMyCommunities),
		cachekeys.Exact(cachekeys.Community(id)),
	}
}

// Create makes a new community and navigates to its detail page.
func (s *CommunityService) Create(ctx context.Context, params orzaapi.CommunityParams) (domain.Outcome, error) {
	// The new community's id is only known after the call, so the edge set
	// is assembled inside the wrapped call via the broader list predicates
	// plus the returned id.
	var createdID string
	outcome, err := s.runner.run(ctx, "create_community", domain.MsgCommunitySaveFailed,
		[]cachekeys.Predicate{
			cachekeys.ByResource(cachekeys.ResCommunities),
			cachekeys.ByResource(cachekeys.ResMyCommunities),
			cachekeys.ByResource(cachekeys.ResCommunity),
		},
		func(ctx context.Context) (mutationResult, error) {
			community, message, err := s.api.CreateCommunity(ctx, params)
			if err != nil {
				return mutationResult{}, err
			}
			createdID = community.ID
			route := domain.RouteCommunity(community.ID)
			return mutationResult{message: message, navigateTo: &route}, nil
		})
	if err == nil && createdID != "" {
		s.logger.Debug(ctx, "Community created", "community_id", createdID)
	}
	return outcome, err
}

// Update rewrites a community.
func (s *CommunityService) Update(ctx context.Context, id string, params orzaapi.CommunityParams) (domain.Outcome, error) {
	return s.runner.run(ctx, "update_community", domain.MsgCommunitySaveFailed, communityEdges(id),
		func(ctx context.Context) (mutationResult, error) {
			message, err := s.api.UpdateCommunity(ctx, id, params)
			return mutationResult{message: message}, err
		})
}

// Delete removes a community and sends the UI back to the communities list.
func (s *CommunityService) Delete(ctx context.Context, id string) (domain.Outcome, error) {
	return s.runner.run(ctx, "delete_community", domain.MsgCommunityDeleteFailed,
		[]cachekeys.Predicate{
			cachekeys.ByResource(cachekeys.ResCommunities),
			cachekeys.ByResource(cachekeys.ResMyCommunities),
		},
		func(ctx context.Context) (mutationResult, error) {
			message, err := s.api.DeleteCommunity(ctx, id)
			if err != nil {
				return mutationResult{}, err
			}
			route := domain.RouteCommunities()
			return mutationResult{message: message, navigateTo: &route}, nil
		})
}

// Join adds the signed-in user to a community. Membership affects all three
// community views, so all three are invalidated.
func (s *CommunityService) Join(ctx context.Context, id string) (domain.Outcome, error) {
	return s.runner.run(ctx, "join_community", domain.MsgCommunityJoinFailed, communityEdges(id),
		func(ctx context.Context) (mutationResult, error) {
			message, err := s.api.JoinCommunity(ctx, id)
			return mutationResult{message: message}, err
		})
}

// Leave removes the signed-in user from a community.
func (s *CommunityService) Leave(ctx context.Context, id string) (domain.Outcome, error) {
	return s.runner.run(ctx, "leave_community", domain.MsgCommunityLeaveFailed, communityEdges(id),
		func(ctx context.Context) (mutationResult, error) {
			message, err := s.api.LeaveCommunity(ctx, id)
			return mutationResult{message: message}, err
		})
}
