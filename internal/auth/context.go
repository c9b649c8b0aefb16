package auth

import (
	"context"
	"net/http"
)

// contextKey is a custom type for context keys
type contextKey string

const principalContextKey contextKey = "principal"

// WithPrincipal returns a copy of ctx carrying p
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// PrincipalFromContext returns the principal resolved by SessionMiddleware,
// or the anonymous principal when none was stored.
func PrincipalFromContext(ctx context.Context) Principal {
	p, ok := ctx.Value(principalContextKey).(Principal)
	if !ok {
		return Anonymous()
	}
	return p
}

// GetPrincipal is PrincipalFromContext for a request
func GetPrincipal(r *http.Request) Principal {
	return PrincipalFromContext(r.Context())
}
