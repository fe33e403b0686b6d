package handlers

// API error codes returned in JSON { "error": "...", "code": "..." } for stable client handling.
const (
	ErrCodeUnauthorized       = "unauthorized"
	ErrCodeInvalidRequest     = "invalid_request"
	ErrCodeInvalidLink        = "invalid_link"
	ErrCodeNotFound           = "not_found"
	ErrCodeForbidden          = "forbidden"
	ErrCodeNotImplemented     = "not_implemented"
	ErrCodeRateLimited        = "rate_limited"
	ErrCodeBillingUnavailable = "billing_unavailable"
	ErrCodeNoBillingCustomer  = "no_billing_customer"
	ErrCodeInternal           = "internal_error"
)
