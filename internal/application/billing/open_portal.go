package billing

import (
	"context"
	"fmt"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
	"github.com/amirhosseinghanipour/launchpad/internal/domain"
	domerrors "github.com/amirhosseinghanipour/launchpad/internal/domain/errors"
)

// OpenPortalInput identifies the signed-in caller.
type OpenPortalInput struct {
	Identity  domain.Identity
	ReturnURL string
}

// OpenPortalResult carries the one-time portal URL.
type OpenPortalResult struct {
	URL string
}

// OpenPortal mints a billing portal session for the caller's billing customer.
// Provider failures wrap domerrors.ErrBillingProvider so callers can offer a retry.
type OpenPortal struct {
	users    ports.UserRepository
	provider ports.BillingProvider
}

// NewOpenPortal builds the use case. provider may be nil when billing is not configured.
func NewOpenPortal(users ports.UserRepository, provider ports.BillingProvider) *OpenPortal {
	return &OpenPortal{users: users, provider: provider}
}

// Execute resolves the billing customer and asks the provider for a portal session.
func (uc *OpenPortal) Execute(ctx context.Context, input OpenPortalInput) (*OpenPortalResult, error) {
	if uc.provider == nil {
		return nil, domerrors.ErrBillingNotConfigured
	}
	if input.Identity.IsZero() {
		return nil, domerrors.ErrSessionInvalid
	}
	user, err := uc.users.GetByEmail(ctx, input.Identity.Email)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, domerrors.ErrUserNotFound
	}
	customerID, err := customerFor(ctx, uc.users, uc.provider, user)
	if err != nil {
		return nil, err
	}
	if customerID == "" {
		return nil, domerrors.ErrNoBillingCustomer
	}
	url, err := uc.provider.CreatePortalSession(ctx, customerID, input.ReturnURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domerrors.ErrBillingProvider, err)
	}
	return &OpenPortalResult{URL: url}, nil
}

// customerFor returns the stored billing customer id, or looks it up by email and remembers it.
// It returns "" when the provider has no customer for the user.
func customerFor(ctx context.Context, users ports.UserRepository, provider ports.BillingProvider, user *domain.User) (string, error) {
	if user.BillingCustomerID != nil && *user.BillingCustomerID != "" {
		return *user.BillingCustomerID, nil
	}
	customerID, err := provider.FindCustomerByEmail(ctx, user.Email)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domerrors.ErrBillingProvider, err)
	}
	if customerID == "" {
		return "", nil
	}
	if err := users.SetBillingCustomerID(ctx, user.ID, customerID); err != nil {
		return "", fmt.Errorf("remember billing customer: %w", err)
	}
	return customerID, nil
}
