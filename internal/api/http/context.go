package http

import (
	"context"
	"errors"
)

type contextKey string

const userIDKey contextKey = "user-id"

// WithUserID returns a context carrying the authenticated user's ID.
func WithUserID(ctx context.Context, userID int32) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext extracts the authenticated user's ID set by the auth
// middleware.
func UserIDFromContext(ctx context.Context) (int32, error) {
	userID, ok := ctx.Value(userIDKey).(int32)
	if !ok {
		return 0, errors.New("user id is not present in the request context")
	}
	return userID, nil
}
