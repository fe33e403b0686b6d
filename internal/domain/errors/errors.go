package errors

import "errors"

// Sentinel errors for handlers to map to HTTP status.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrMissingName          = errors.New("project name is required")
	ErrMagicLinkInvalid     = errors.New("invalid or expired magic link")
	ErrSessionInvalid       = errors.New("invalid or expired session")
	ErrBillingProvider      = errors.New("billing provider unavailable")
	ErrNoBillingCustomer    = errors.New("no billing account for this user")
	ErrBillingNotConfigured = errors.New("billing is not configured")
	ErrOAuthNotConfigured   = errors.New("oauth provider is not configured")
)
