package orzaapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
)

// PostParams is the writable portion of a post.
type PostParams struct {
	Title       string
	Content     string
	CommunityID string
	Image       *domain.FileUpload
}

func (p PostParams) multipart() *domain.MultipartPayload {
	return &domain.MultipartPayload{
		Fields: map[string]string{
			"title":       p.Title,
			"content":     p.Content,
			"communityId": p.CommunityID,
		},
		File: p.Image,
	}
}

// ListPosts fetches one page of a community's posts. Pagination metadata is at
// the envelope level for this resource.
func (a *API) ListPosts(ctx context.Context, communityID string, page, limit int) (domain.Page[domain.Post], error) {
	query := url.Values{}
	query.Set("communityId", communityID)
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	env, err := a.transport.Request(ctx, http.MethodGet, "/posts", domain.RequestOptions{Query: query})
	if err != nil {
		return domain.Page[domain.Post]{}, err
	}
	return envelopePage[domain.Post](env)
}

// GetPost fetches a single post by id.
func (a *API) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	env, err := a.transport.Request(ctx, http.MethodGet, "/posts/"+id, domain.RequestOptions{})
	if err != nil {
		return nil, err
	}
	var post domain.Post
	if err := env.DecodeData(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost uploads a new post as multipart form data.
func (a *API) CreatePost(ctx context.Context, params PostParams) (*domain.Post, string, error) {
	env, err := a.transport.Request(ctx, http.MethodPost, "/posts", domain.RequestOptions{Multipart: params.multipart()})
	if err != nil {
		return nil, "", err
	}
	var post domain.Post
	if err := env.DecodeData(&post); err != nil {
		return nil, "", err
	}
	return &post, env.Message, nil
}

// UpdatePost replaces a post's writable fields.
func (a *API) UpdatePost(ctx context.Context, id string, params PostParams) (string, error) {
	env, err := a.transport.Request(ctx, http.MethodPut, "/posts/"+id, domain.RequestOptions{Multipart: params.multipart()})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// DeletePost removes a post.
func (a *API) DeletePost(ctx context.Context, id string) (string, error) {
	env, err := a.transport.Request(ctx, http.MethodDelete, "/posts/"+id, domain.RequestOptions{})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// LikePost registers a like for the signed-in user. The server owns the
// count; the client never computes an optimistic increment.
func (a *API) LikePost(ctx context.Context, id string) (string, error) {
	env, err := a.transport.Request(ctx, http.MethodPost, "/posts/"+id+"/like", domain.RequestOptions{})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// UnlikePost removes the signed-in user's like.
func (a *API) UnlikePost(ctx context.Context, id string) (string, error) {
	env, err := a.transport.Request(ctx, http.MethodDelete, "/posts/"+id+"/like", domain.RequestOptions{})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// LikeCount fetches the current server-side like count of a post.
func (a *API) LikeCount(ctx context.Context, id string) (int, error) {
	env, err := a.transport.Request(ctx, http.MethodGet, "/posts/"+id+"/like-count", domain.RequestOptions{})
	if err != nil {
		return 0, err
	}
	var payload struct {
		Count int `json:"count"`
	}
	if err := env.DecodeData(&payload); err != nil {
		return 0, err
	}
	return payload.Count, nil
}

// LikedPosts fetches one page of the signed-in user's liked posts. Pagination
// metadata is at the envelope level for this resource.
func (a *API) LikedPosts(ctx context.Context, page int) (domain.Page[domain.Post], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	env, err := a.transport.Request(ctx, http.MethodGet, "/posts/liked", domain.RequestOptions{Query: query})
	if err != nil {
		return domain.Page[domain.Post]{}, err
	}
	return envelopePage[domain.Post](env)
}

// ListComments fetches a post's comments.
func (a *API) ListComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	env, err := a.transport.Request(ctx, http.MethodGet, "/posts/"+postID+"/comments", domain.RequestOptions{})
	if err != nil {
		return nil, err
	}
	var comments []domain.Comment
	if err := env.DecodeData(&comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment creates a comment on a post.
func (a *API) AddComment(ctx context.Context, postID, content string) (*domain.Comment, string, error) {
	body := map[string]string{"content": content}
	env, err := a.transport.Request(ctx, http.MethodPost, "/posts/"+postID+"/comments", domain.RequestOptions{JSONBody: body})
	if err != nil {
		return nil, "", err
	}
	var comment domain.Comment
	if err := env.DecodeData(&comment); err != nil {
		return nil, "", err
	}
	return &comment, env.Message, nil
}

// UpdateComment replaces a comment's content.
func (a *API) UpdateComment(ctx context.Context, commentID, content string) (string, error) {
	body := map[string]string{"content": content}
	env, err := a.transport.Request(ctx, http.MethodPut, "/comments/"+commentID, domain.RequestOptions{JSONBody: body})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// DeleteComment removes a comment.
func (a *API) DeleteComment(ctx context.Context, commentID string) (string, error) {
	env, err := a.transport.Request(ctx, http.MethodDelete, "/comments/"+commentID, domain.RequestOptions{})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
