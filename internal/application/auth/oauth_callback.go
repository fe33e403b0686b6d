package auth

import (
	"context"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
	domerrors "github.com/amirhosseinghanipour/launchpad/internal/domain/errors"
)

// OAuthUser is the minimal info we get from a provider (Goth user).
type OAuthUser struct {
	Provider       string
	ProviderUserID string
	Email          string
}

// OAuthCallback signs in the user behind a provider identity. Accounts are keyed by email,
// so a Google sign-in and a magic link for the same address reach the same user.
type OAuthCallback struct {
	session sessionStarter
}

// NewOAuthCallback builds the use case.
func NewOAuthCallback(users ports.UserRepository, issuer ports.SessionIssuer, sessionExp int64) *OAuthCallback {
	return &OAuthCallback{session: newSessionStarter(users, issuer, sessionExp)}
}

// Execute upserts the user for the provider email and issues a session token.
func (uc *OAuthCallback) Execute(ctx context.Context, oauth OAuthUser) (*SignInResult, error) {
	if NormalizeEmail(oauth.Email) == "" {
		return nil, domerrors.ErrSessionInvalid
	}
	return uc.session.start(ctx, oauth.Email)
}
