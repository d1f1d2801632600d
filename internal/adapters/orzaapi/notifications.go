package orzaapi

import (
	"context"
	"net/http"

	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
)

// ListNotifications fetches the signed-in user's inbox. There is no bulk-read
// endpoint; read state is only tracked per notification.
func (a *API) ListNotifications(ctx context.Context) ([]domain.Notification, error) {
	env, err := a.transport.Request(ctx, http.MethodGet, "/notifications", domain.RequestOptions{})
	if err != nil {
		return nil, err
	}
	var notifications []domain.Notification
	if err := env.DecodeData(&notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead marks one notification as read.
func (a *API) MarkNotificationRead(ctx context.Context, id string) (string, error) {
	env, err := a.transport.Request(ctx, http.MethodPatch, "/notifications/"+id+"/read", domain.RequestOptions{})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
