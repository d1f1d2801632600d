package orzaapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
)

// fallbackScanLimit is the page size used by the community-by-id fallback
// scan. Large enough to cover the whole catalog in one request.
const fallbackScanLimit = 100

// CommunityParams is the writable portion of a community.
type CommunityParams struct {
	Name        string
	Description string
	Image       *domain.FileUpload
}

func (p CommunityParams) multipart() *domain.MultipartPayload {
	return &domain.MultipartPayload{
		Fields: map[string]string{
			"name":        p.Name,
			"description": p.Description,
		},
		File: p.Image,
	}
}

// ListCommunities fetches one page of communities. Pagination metadata is
// nested under data.pagination for this resource.
func (a *API) ListCommunities(ctx context.Context, page, limit int) (domain.Page[domain.Community], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	env, err := a.transport.Request(ctx, http.MethodGet, "/communities", domain.RequestOptions{Query: query})
	if err != nil {
		return domain.Page[domain.Community]{}, err
	}
	return nestedPage[domain.Community](env)
}

// MyCommunities fetches the communities the signed-in user has joined.
func (a *API) MyCommunities(ctx context.Context) ([]domain.Community, error) {
	env, err := a.transport.Request(ctx, http.MethodGet, "/communities/mine", domain.RequestOptions{})
	if err != nil {
		return nil, err
	}
	var communities []domain.Community
	if err := env.DecodeData(&communities); err != nil {
		return nil, err
	}
	return communities, nil
}

// GetCommunity fetches a single community by id.
//
// The single-resource endpoint 404s for some communities the list endpoint
// does return, so a 404 — and only a 404 — falls back to fetching a large page
// of the list and scanning for a matching id client-side. A fallback scan with
// no match surfaces ErrCodeNotFound; any other error status propagates
// immediately without the fallback.
func (a *API) GetCommunity(ctx context.Context, id string) (*domain.Community, error) {
	env, err := a.transport.Request(ctx, http.MethodGet, "/communities/"+id, domain.RequestOptions{})
	if err != nil {
		if !domain.IsStatus(err, http.StatusNotFound) {
			return nil, err
		}
		a.logger.Warn(ctx, "Community endpoint returned 404, falling back to list scan", "community_id", id)
		return a.scanCommunities(ctx, id)
	}

	var community domain.Community
	if err := env.DecodeData(&community); err != nil {
		return nil, err
	}
	return &community, nil
}

func (a *API) scanCommunities(ctx context.Context, id string) (*domain.Community, error) {
	page, err := a.ListCommunities(ctx, 1, fallbackScanLimit)
	if err != nil {
		return nil, err
	}
	for i := range page.Items {
		if page.Items[i].ID == id {
			return &page.Items[i], nil
		}
	}
	return nil, &domain.APIError{
		Code:       domain.ErrCodeNotFound,
		StatusCode: http.StatusNotFound,
		Message:    domain.IndonesianCatalog{}.Lookup(domain.MsgCommunityNotFound),
	}
}

// CreateCommunity uploads a new community as multipart form data.
func (a *API) CreateCommunity(ctx context.Context, params CommunityParams) (*domain.Community, string, error) {
	env, err := a.transport.Request(ctx, http.MethodPost, "/communities", domain.RequestOptions{Multipart: params.multipart()})
	if err != nil {
		return nil, "", err
	}
	var community domain.Community
	if err := env.DecodeData(&community); err != nil {
		return nil, "", err
	}
	return &community, env.Message, nil
}

// UpdateCommunity replaces a community's writable fields.
func (a *API) UpdateCommunity(ctx context.Context, id string, params CommunityParams) (string, error) {
	env, err := a.transport.Request(ctx, http.MethodPut, "/communities/"+id, domain.RequestOptions{Multipart: params.multipart()})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// DeleteCommunity removes a community.
func (a *API) DeleteCommunity(ctx context.Context, id string) (string, error) {
	env, err := a.transport.Request(ctx, http.MethodDelete, "/communities/"+id, domain.RequestOptions{})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// JoinCommunity adds the signed-in user to a community.
func (a *API) JoinCommunity(ctx context.Context, id string) (string, error) {
	env, err := a.transport.Request(ctx, http.MethodPost, "/communities/"+id+"/join", domain.RequestOptions{})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// LeaveCommunity removes the signed-in user from a community.
func (a *API) LeaveCommunity(ctx context.Context, id string) (string, error) {
	env, err := a.transport.Request(ctx, http.MethodPost, "/communities/"+id+"/leave", domain.RequestOptions{})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
