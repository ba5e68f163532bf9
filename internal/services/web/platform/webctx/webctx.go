// Package webctx carries the authenticated user through request context.
package webctx

import (
	"context"
	"strings"

	"github.com/meusanuncios/anuncios/internal/services/auth/user"
)

type contextKey struct{}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, record user.User) context.Context {
	if strings.TrimSpace(record.ID) == "" {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, record)
}

// UserFrom returns the authenticated user stored in the context.
func UserFrom(ctx context.Context) (user.User, bool) {
	if ctx == nil {
		return user.User{}, false
	}
	record, ok := ctx.Value(contextKey{}).(user.User)
	if !ok || strings.TrimSpace(record.ID) == "" {
		return user.User{}, false
	}
	return record, true
}

// UserIDFrom returns the authenticated user id or empty.
func UserIDFrom(ctx context.Context) string {
	record, ok := UserFrom(ctx)
	if !ok {
		return ""
	}
	return record.ID
}
