package billing

import (
	"context"
	"fmt"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
	"github.com/amirhosseinghanipour/launchpad/internal/domain"
	domerrors "github.com/amirhosseinghanipour/launchpad/internal/domain/errors"
)

// StartCheckoutInput identifies the signed-in caller; the account email is used for billing.
type StartCheckoutInput struct {
	Identity domain.Identity
}

// StartCheckoutResult carries the hosted checkout URL.
type StartCheckoutResult struct {
	URL string
}

// CheckoutConfig names the subscription price and landing pages.
type CheckoutConfig struct {
	PriceID    string
	SuccessURL string
	CancelURL  string
}

// StartCheckout opens a subscription checkout for the caller.
type StartCheckout struct {
	users    ports.UserRepository
	provider ports.BillingProvider
	cfg      CheckoutConfig
}

// NewStartCheckout builds the use case. provider may be nil when billing is not configured.
func NewStartCheckout(users ports.UserRepository, provider ports.BillingProvider, cfg CheckoutConfig) *StartCheckout {
	return &StartCheckout{users: users, provider: provider, cfg: cfg}
}

// Execute creates the checkout session, reusing a known customer when there is one.
func (uc *StartCheckout) Execute(ctx context.Context, input StartCheckoutInput) (*StartCheckoutResult, error) {
	if uc.provider == nil || uc.cfg.PriceID == "" {
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
	req := ports.CheckoutRequest{
		Email:      user.Email,
		PriceID:    uc.cfg.PriceID,
		SuccessURL: uc.cfg.SuccessURL,
		CancelURL:  uc.cfg.CancelURL,
	}
	if user.BillingCustomerID != nil {
		req.CustomerID = *user.BillingCustomerID
	}
	url, err := uc.provider.CreateCheckoutSession(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domerrors.ErrBillingProvider, err)
	}
	return &StartCheckoutResult{URL: url}, nil
}
