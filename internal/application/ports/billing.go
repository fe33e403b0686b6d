package ports

import "context"

// CheckoutRequest describes a subscription checkout for one customer email.
type CheckoutRequest struct {
	Email      string
	CustomerID string // optional; reused when known
	PriceID    string
	SuccessURL string
	CancelURL  string
}

// BillingProvider is the external billing system (Stripe).
type BillingProvider interface {
	// FindCustomerByEmail returns "" when the provider has no customer for email.
	FindCustomerByEmail(ctx context.Context, email string) (string, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error)
}
