package application

import (
	"context"

	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/config"
	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/orzaapi"
	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
	"gitlab.com/orza-agritech/web/orza-sync/pkg/cachekeys"
)

// PostService orchestrates posts, likes and comments. Post detail, comments
// and like-count are collaboratively edited data: they use the short
// staleness window, and detail/comments additionally refetch when the UI
// regains focus, since other sessions change them.
type PostService struct {
	logger  domain.Logger
	config  config.Provider
	api     *orzaapi.API
	session domain.SessionStore
	engine  *QueryEngine
	runner  *MutationRunner
}

// NewPostService creates the post service.
func NewPostService(
	logger domain.Logger,
	cfgProvider config.Provider,
	api *orzaapi.API,
	session domain.SessionStore,
	engine *QueryEngine,
	runner *MutationRunner,
) *PostService {
	return &PostService{
		logger:  logger,
		config:  cfgProvider,
		api:     api,
		session: session,
		engine:  engine,
		runner:  runner,
	}
}

func (s *PostService) authed() bool {
	_, ok := s.session.Token()
	return ok
}

// ListByCommunity returns one page of a community's posts.
func (s *PostService) ListByCommunity(ctx context.Context, communityID string, page, limit int) (domain.Page[domain.Post], error) {
	return Query(ctx, s.engine, cachekeys.Posts(communityID, page, limit),
		QueryOptions{TTL: s.config.Get().MediumTTL(), Enabled: func() bool { return communityID != "" }},
		func(ctx context.Context) (domain.Page[domain.Post], error) {
			return s.api.ListPosts(ctx, communityID, page, limit)
		})
}

// Get returns one post by id, refetching on focus regain.
func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	return Query(ctx, s.engine, cachekeys.Post(id),
		QueryOptions{
			TTL:            s.config.Get().ShortTTL(),
			Enabled:        func() bool { return id != "" },
			RefetchOnFocus: true,
		},
		func(ctx context.Context) (*domain.Post, error) {
			return s.api.GetPost(ctx, id)
		})
}

// LikeCount returns a post's current like count. Short window; the count
// changes from other sessions.
func (s *PostService) LikeCount(ctx context.Context, postID string) (int, error) {
	return Query(ctx, s.engine, cachekeys.LikeCount(postID),
		QueryOptions{TTL: s.config.Get().ShortTTL(), Enabled: func() bool { return postID != "" }},
		func(ctx context.Context) (int, error) {
			return s.api.LikeCount(ctx, postID)
		})
}

// Comments returns a post's comments. Disabled until the post id is known.
func (s *PostService) Comments(ctx context.Context, postID string) ([]domain.Comment, error) {
	return Query(ctx, s.engine, cachekeys.Comments(postID),
		QueryOptions{
			TTL:            s.config.Get().ShortTTL(),
			Enabled:        func() bool { return postID != "" },
			RefetchOnFocus: true,
		},
		func(ctx context.Context) ([]domain.Comment, error) {
			return s.api.ListComments(ctx, postID)
		})
}

// LikedFeed returns an infinite list over the signed-in user's liked posts.
// Each page is cached under its own key; the cursor follows the latest
// observed totalPages.
func (s *PostService) LikedFeed() *InfiniteList[domain.Post] {
	return NewInfiniteList(func(ctx context.Context, page int) (domain.Page[domain.Post], error) {
		return Query(ctx, s.engine, cachekeys.LikedPosts(page),
			QueryOptions{TTL: s.config.Get().MediumTTL(), Enabled: s.authed},
			func(ctx context.Context) (domain.Page[domain.Post], error) {
				return s.api.LikedPosts(ctx, page)
			})
	})
}

// Create makes a new post in a community and navigates to the created post,
// falling back to the community view when the response carries no id.
func (s *PostService) Create(ctx context.Context, params orzaapi.PostParams) (domain.Outcome, error) {
	return s.runner.run(ctx, "create_post", domain.MsgPostSaveFailed,
		[]cachekeys.Predicate{cachekeys.Scoped(cachekeys.ResPosts, params.CommunityID)},
		func(ctx context.Context) (mutationResult, error) {
			post, message, err := s.api.CreatePost(ctx, params)
			if err != nil {
				return mutationResult{}, err
			}
			route := domain.RouteCommunity(params.CommunityID)
			if post.ID != "" {
				route = domain.RoutePost(post.ID)
			}
			return mutationResult{message: message, navigateTo: &route}, nil
		})
}

// Update rewrites a post.
func (s *PostService) Update(ctx context.Context, id string, params orzaapi.PostParams) (domain.Outcome, error) {
	return s.runner.run(ctx, "update_post", domain.MsgPostSaveFailed,
		[]cachekeys.Predicate{
			cachekeys.Exact(cachekeys.Post(id)),
			cachekeys.ByResource(cachekeys.ResPosts),
		},
		func(ctx context.Context) (mutationResult, error) {
			message, err := s.api.UpdatePost(ctx, id, params)
			return mutationResult{message: message}, err
		})
}

// Delete removes a post and navigates back in history.
func (s *PostService) Delete(ctx context.Context, id string) (domain.Outcome, error) {
	return s.runner.run(ctx, "delete_post", domain.MsgPostDeleteFailed,
		[]cachekeys.Predicate{
			cachekeys.Exact(cachekeys.Post(id)),
			cachekeys.ByResource(cachekeys.ResPosts),
		},
		func(ctx context.Context) (mutationResult, error) {
			message, err := s.api.DeletePost(ctx, id)
			if err != nil {
				return mutationResult{}, err
			}
			route := domain.RouteBack()
			return mutationResult{message: message, navigateTo: &route}, nil
		})
}

// likeEdges: a like touches the post detail, its like-count entry, and every
// posts list. The count itself is never computed client-side; the stale
// entries refetch the server's number.
func likeEdges(postID string) []cachekeys.Predicate {
	return []cachekeys.Predicate{
		cachekeys.Exact(cachekeys.Post(postID)),
		cachekeys.Exact(cachekeys.LikeCount(postID)),
		cachekeys.ByResource(cachekeys.ResPosts),
	}
}

// Like registers a like for the signed-in user.
func (s *PostService) Like(ctx context.Context, postID string) (domain.Outcome, error) {
	return s.runner.run(ctx, "like_post", domain.MsgPostLikeFailed, likeEdges(postID),
		func(ctx context.Context) (mutationResult, error) {
			message, err := s.api.LikePost(ctx, postID)
			return mutationResult{message: message}, err
		})
}

// Unlike removes the signed-in user's like.
func (s *PostService) Unlike(ctx context.Context, postID string) (domain.Outcome, error) {
	return s.runner.run(ctx, "unlike_post", domain.MsgPostLikeFailed, likeEdges(postID),
		func(ctx context.Context) (mutationResult, error) {
			message, err := s.api.UnlikePost(ctx, postID)
			return mutationResult{message: message}, err
		})
}

// commentEdges: comment writes refresh the comment list and the post detail;
// the comment count is derived from those reads.
func commentEdges(postID string) []cachekeys.Predicate {
	return []cachekeys.Predicate{
		cachekeys.Exact(cachekeys.Comments(postID)),
		cachekeys.Exact(cachekeys.Post(postID)),
	}
}

// AddComment creates a comment on a post.
func (s *PostService) AddComment(ctx context.Context, postID, content string) (domain.Outcome, error) {
	return s.runner.run(ctx, "add_comment", domain.MsgCommentSaveFailed, commentEdges(postID),
		func(ctx context.Context) (mutationResult, error) {
			_, message, err := s.api.AddComment(ctx, postID, content)
			return mutationResult{message: message}, err
		})
}

// UpdateComment rewrites a comment.
func (s *PostService) UpdateComment(ctx context.Context, postID, commentID, content string) (domain.Outcome, error) {
	return s.runner.run(ctx, "update_comment", domain.MsgCommentSaveFailed, commentEdges(postID),
		func(ctx context.Context) (mutationResult, error) {
			message, err := s.api.UpdateComment(ctx, commentID, content)
			return mutationResult{message: message}, err
		})
}

// DeleteComment removes a comment.
func (s *PostService) DeleteComment(ctx context.Context, postID, commentID string) (domain.Outcome, error) {
	return s.runner.run(ctx, "delete_comment", domain.MsgCommentDeleteFailed, commentEdges(postID),
		func(ctx context.Context) (mutationResult, error) {
			message, err := s.api.DeleteComment(ctx, commentID)
			return mutationResult{message: message}, err
		})
}
