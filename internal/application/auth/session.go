package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
	"github.com/amirhosseinghanipour/launchpad/internal/domain"
)

const DefaultSessionExpiry = 2592000 // 30 days

// SignInResult is returned by every sign-in flow.
type SignInResult struct {
	SessionToken string
	ExpiresIn    int64
	User         *domain.User
}

// sessionStarter upserts the user for a verified email and issues a session token.
type sessionStarter struct {
	users     ports.UserRepository
	issuer    ports.SessionIssuer
	expiresIn int64
}

func newSessionStarter(users ports.UserRepository, issuer ports.SessionIssuer, expiresIn int64) sessionStarter {
	if expiresIn <= 0 {
		expiresIn = DefaultSessionExpiry
	}
	return sessionStarter{users: users, issuer: issuer, expiresIn: expiresIn}
}

func (s sessionStarter) start(ctx context.Context, email string) (*SignInResult, error) {
	user, err := s.users.UpsertByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	token, err := s.issuer.IssueSessionToken(user.ID.String(), user.Email, s.expiresIn)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	return &SignInResult{SessionToken: token, ExpiresIn: s.expiresIn, User: user}, nil
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
