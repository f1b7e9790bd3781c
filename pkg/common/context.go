package common

import (
	"context"
)

// ContextKey represents a context key type
type ContextKey string

// Context keys
const (
	ContextKeyUserID       ContextKey = "user_id"
	ContextKeyRequestScope ContextKey = "request_scope"
)

type requestScope struct {
	userID string
}

// WithRequestScope lets middleware that wraps authentication read the
// caller resolved further down the chain once the request completes.
func WithRequestScope(ctx context.Context) context.Context {
	return context.WithValue(ctx, ContextKeyRequestScope, &requestScope{})
}

// WithUserID adds user ID to context
func WithUserID(ctx context.Context, userID string) context.Context {
	if scope, ok := ctx.Value(ContextKeyRequestScope).(*requestScope); ok {
		scope.userID = userID
	}
	return context.WithValue(ctx, ContextKeyUserID, userID)
}

// GetUserID extracts user ID from context, falling back to the request scope
func GetUserID(ctx context.Context) (string, bool) {
	if userID, ok := ctx.Value(ContextKeyUserID).(string); ok && userID != "" {
		return userID, true
	}
	if scope, ok := ctx.Value(ContextKeyRequestScope).(*requestScope); ok && scope.userID != "" {
		return scope.userID, true
	}
	return "", false
}
