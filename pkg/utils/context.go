package utils

import (
	"context"
)

type contextKey string

const (
	ViewIDKey contextKey = "view_id"
	TokenKey  contextKey = "token"
)

// GetViewIDFromContext returns the view session id decoded from the
// request cookie, if any.
func GetViewIDFromContext(ctx context.Context) (string, bool) {
	viewID, ok := ctx.Value(ViewIDKey).(string)
	return viewID, ok && viewID != ""
}

func SetViewContext(ctx context.Context, viewID string) context.Context {
	return context.WithValue(ctx, ViewIDKey, viewID)
}

// GetTokenFromContext returns the stored auth token carried by the request.
func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok && token != ""
}

func SetTokenContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}
