package orzaapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
)

// PredictionParams carries the plant photo submitted for disease prediction.
type PredictionParams struct {
	Plant string
	Image *domain.FileUpload
}

func (p PredictionParams) multipart() *domain.MultipartPayload {
	return &domain.MultipartPayload{
		Fields: map[string]string{"plant": p.Plant},
		File:   p.Image,
	}
}

// PredictionsFeed fetches one page of the signed-in user's prediction history.
// Pagination metadata is at the envelope level for this resource.
func (a *API) PredictionsFeed(ctx context.Context, page int) (domain.Page[domain.Prediction], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	env, err := a.transport.Request(ctx, http.MethodGet, "/predictions", domain.RequestOptions{Query: query})
	if err != nil {
		return domain.Page[domain.Prediction]{}, err
	}
	return envelopePage[domain.Prediction](env)
}

// GetPrediction fetches a single prediction by id.
func (a *API) GetPrediction(ctx context.Context, id string) (*domain.Prediction, error) {
	env, err := a.transport.Request(ctx, http.MethodGet, "/predictions/"+id, domain.RequestOptions{})
	if err != nil {
		return nil, err
	}
	var prediction domain.Prediction
	if err := env.DecodeData(&prediction); err != nil {
		return nil, err
	}
	return &prediction, nil
}

// PredictionStats fetches the signed-in user's prediction summary.
func (a *API) PredictionStats(ctx context.Context) (*domain.PredictionStats, error) {
	env, err := a.transport.Request(ctx, http.MethodGet, "/predictions/stats", domain.RequestOptions{})
	if err != nil {
		return nil, err
	}
	var stats domain.PredictionStats
	if err := env.DecodeData(&stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// CreatePrediction uploads a plant photo and returns the prediction result.
func (a *API) CreatePrediction(ctx context.Context, params PredictionParams) (*domain.Prediction, string, error) {
	env, err := a.transport.Request(ctx, http.MethodPost, "/predictions", domain.RequestOptions{Multipart: params.multipart()})
	if err != nil {
		return nil, "", err
	}
	var prediction domain.Prediction
	if err := env.DecodeData(&prediction); err != nil {
		return nil, "", err
	}
	return &prediction, env.Message, nil
}

// DeletePrediction removes a prediction from the user's history.
func (a *API) DeletePrediction(ctx context.Context, id string) (string, error) {
	env, err := a.transport.Request(ctx, http.MethodDelete, "/predictions/"+id, domain.RequestOptions{})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
