package middleware

import (
	"context"

	"github.com/amirhosseinghanipour/launchpad/internal/domain"
)

type contextKey string

const (
	identityContextKey   contextKey = "identity"
	credentialContextKey contextKey = "credential"
)

// WithIdentity injects the resolved caller into the context.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext returns the resolved caller; ok is false for anonymous requests.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, _ := ctx.Value(identityContextKey).(domain.Identity)
	return id, !id.IsZero()
}

// WithCredential injects the raw session credential into the context.
func WithCredential(ctx context.Context, credential string) context.Context {
	return context.WithValue(ctx, credentialContextKey, credential)
}

// CredentialFromContext returns the raw session credential, or "".
func CredentialFromContext(ctx context.Context) string {
	c, _ := ctx.Value(credentialContextKey).(string)
	return c
}
