package api

import (
	"context"

	"github.com/framehq/frame/internal/org"
)

type contextKey string

const principalKey contextKey = "principal"

// withPrincipal stores the authenticated user on the context.
func withPrincipal(ctx context.Context, user org.User) context.Context {
	return context.WithValue(ctx, principalKey, user)
}

// PrincipalFrom returns the authenticated user stored on the context.
func PrincipalFrom(ctx context.Context) (org.User, bool) {
	user, ok := ctx.Value(principalKey).(org.User)
	return user, ok
}
