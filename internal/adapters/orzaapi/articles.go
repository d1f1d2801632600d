package orzaapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
)

// ArticleParams is the writable portion of an article. Image is optional; it
// becomes the binary multipart part only when present.
type ArticleParams struct {
	Title      string
	Content    string
	CategoryID string
	Tags       []string
	Image      *domain.FileUpload
}

func (p ArticleParams) multipart() *domain.MultipartPayload {
	fields := map[string]string{
		"title":      p.Title,
		"content":    p.Content,
		"categoryId": p.CategoryID,
	}
	if len(p.Tags) > 0 {
		fields["tags"] = strings.Join(p.Tags, ",")
	}
	return &domain.MultipartPayload{Fields: fields, File: p.Image}
}

// ArticleFilter narrows the published-article list. Zero fields are omitted
// from the request.
type ArticleFilter struct {
	CategoryID string `json:"categoryId"`
	Search     string `json:"search"`
}

// ListArticles fetches one page of published articles, optionally narrowed by
// filter. Pagination metadata is nested under data.pagination for this
// resource.
func (a *API) ListArticles(ctx context.Context, page, limit int, filter ArticleFilter) (domain.Page[domain.Article], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	if filter.CategoryID != "" {
		query.Set("categoryId", filter.CategoryID)
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	env, err := a.transport.Request(ctx, http.MethodGet, "/articles", domain.RequestOptions{Query: query})
	if err != nil {
		return domain.Page[domain.Article]{}, err
	}
	return nestedPage[domain.Article](env)
}

// MyArticles fetches the signed-in user's own articles.
func (a *API) MyArticles(ctx context.Context) ([]domain.Article, error) {
	env, err := a.transport.Request(ctx, http.MethodGet, "/articles/mine", domain.RequestOptions{})
	if err != nil {
		return nil, err
	}
	var articles []domain.Article
	if err := env.DecodeData(&articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// GetArticle fetches a single article by id.
func (a *API) GetArticle(ctx context.Context, id string) (*domain.Article, error) {
	env, err := a.transport.Request(ctx, http.MethodGet, "/articles/"+id, domain.RequestOptions{})
	if err != nil {
		return nil, err
	}
	var article domain.Article
	if err := env.DecodeData(&article); err != nil {
		return nil, err
	}
	return &article, nil
}

// CreateArticle uploads a new article as multipart form data.
func (a *API) CreateArticle(ctx context.Context, params ArticleParams) (*domain.Article, string, error) {
	env, err := a.transport.Request(ctx, http.MethodPost, "/articles", domain.RequestOptions{Multipart: params.multipart()})
	if err != nil {
		return nil, "", err
	}
	var article domain.Article
	if err := env.DecodeData(&article); err != nil {
		return nil, "", err
	}
	return &article, env.Message, nil
}

// UpdateArticle replaces an article's writable fields.
func (a *API) UpdateArticle(ctx context.Context, id string, params ArticleParams) (string, error) {
	env, err := a.transport.Request(ctx, http.MethodPut, "/articles/"+id, domain.RequestOptions{Multipart: params.multipart()})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// DeleteArticle removes an article.
func (a *API) DeleteArticle(ctx context.Context, id string) (string, error) {
	env, err := a.transport.Request(ctx, http.MethodDelete, "/articles/"+id, domain.RequestOptions{})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// ListCategories fetches the near-static article category reference data.
func (a *API) ListCategories(ctx context.Context) ([]domain.Category, error) {
	env, err := a.transport.Request(ctx, http.MethodGet, "/categories", domain.RequestOptions{})
	if err != nil {
		return nil, err
	}
	var categories []domain.Category
	if err := env.DecodeData(&categories); err != nil {
		return nil, err
	}
	return categories, nil
}
