package auth

import (
	"context"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
	"github.com/amirhosseinghanipour/launchpad/internal/domain"
)

// ResolveIdentity turns a session credential into the caller's identity.
// Not being signed in is an expected outcome, reported as ok=false rather than an error.
type ResolveIdentity struct {
	issuer ports.SessionIssuer
}

// NewResolveIdentity builds the use case.
func NewResolveIdentity(issuer ports.SessionIssuer) *ResolveIdentity {
	return &ResolveIdentity{issuer: issuer}
}

// Execute validates the credential. It has no side effects and does not consult ctx:
// cancellation is the caller's error to report, not a signed-out caller.
func (uc *ResolveIdentity) Execute(ctx context.Context, credential string) (domain.Identity, bool) {
	if credential == "" {
		return domain.Identity{}, false
	}
	userID, email, err := uc.issuer.ValidateSessionToken(credential)
	if err != nil {
		return domain.Identity{}, false
	}
	email = NormalizeEmail(email)
	if email == "" {
		return domain.Identity{}, false
	}
	return domain.Identity{UserID: userID, Email: email}, true
}
