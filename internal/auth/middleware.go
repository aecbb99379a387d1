package auth

import (
	"context"
	"net/http"
)

// contextKey is an unexported type used for context keys in this package.
// A package-private key type means only this package can read or write the
// identity value in a context — no collisions with other packages.
type contextKey string

const identityKey contextKey = "identity"

// WithIdentity is a middleware that verifies the Authorization header once
// per request and stores the resulting identity in the request context.
//
// It never rejects a request: an absent or invalid token simply produces
// the anonymous identity. Each operation's policy (internal/authz) decides
// whether anonymity is acceptable — that keeps "which operations need
// auth" in one table instead of scattered across route definitions.
func WithIdentity(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := tokens.VerifyHeader(r.Header.Get("Authorization"))
			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the caller's identity from the request
// context. Returns the anonymous identity if the middleware did not run or
// no valid token was presented.
func IdentityFromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey).(Identity)
	return id
}

// ContextWithIdentity returns a context carrying the given identity.
// Used by tests and by non-HTTP callers of the service layer.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}
