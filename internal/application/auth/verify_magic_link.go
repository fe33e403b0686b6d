package auth

import (
	"context"
	"fmt"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
	domerrors "github.com/amirhosseinghanipour/launchpad/internal/domain/errors"
)

// VerifyMagicLinkInput contains the token from the link.
type VerifyMagicLinkInput struct {
	Token string
}

// VerifyMagicLink consumes the token, gets or creates the user, and issues a session.
type VerifyMagicLink struct {
	magicLinkStore ports.MagicLinkStore
	session        sessionStarter
}

// NewVerifyMagicLink builds the use case.
func NewVerifyMagicLink(magicLinkStore ports.MagicLinkStore, users ports.UserRepository, issuer ports.SessionIssuer, sessionExp int64) *VerifyMagicLink {
	return &VerifyMagicLink{
		magicLinkStore: magicLinkStore,
		session:        newSessionStarter(users, issuer, sessionExp),
	}
}

// Execute verifies the token, upserts the user, and issues a session token.
func (uc *VerifyMagicLink) Execute(ctx context.Context, input VerifyMagicLinkInput) (*SignInResult, error) {
	if input.Token == "" {
		return nil, domerrors.ErrMagicLinkInvalid
	}
	email, err := uc.magicLinkStore.Consume(ctx, sha256Hash(input.Token))
	if err != nil {
		return nil, fmt.Errorf("consume magic link: %w", err)
	}
	if email == "" {
		return nil, domerrors.ErrMagicLinkInvalid
	}
	return uc.session.start(ctx, email)
}
