package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/launchpad/internal/application/billing"
	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
	domerrors "github.com/amirhosseinghanipour/launchpad/internal/domain/errors"
	"github.com/amirhosseinghanipour/launchpad/internal/infrastructure/http/middleware"
)

// BillingHandler hands signed-in users off to the billing provider.
type BillingHandler struct {
	portal   *billing.OpenPortal
	checkout *billing.StartCheckout
	events   ports.TaskEnqueuer
	log      zerolog.Logger
}

func NewBillingHandler(portal *billing.OpenPortal, checkout *billing.StartCheckout, events ports.TaskEnqueuer, log zerolog.Logger) *BillingHandler {
	return &BillingHandler{portal: portal, checkout: checkout, events: events, log: log}
}

// Portal handles POST /billing/portal. Body (optional): { "return_url": "..." }.
func (h *BillingHandler) Portal(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "sign in required")
		return
	}
	var body struct {
		ReturnURL string `json:"return_url" validate:"omitempty,url,max=2048"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxFormBytes)).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := validate.Struct(&body); err != nil {
		writeFieldErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid return url", firstInvalidField(err))
		return
	}
	result, err := h.portal.Execute(r.Context(), billing.OpenPortalInput{Identity: identity, ReturnURL: body.ReturnURL})
	if err != nil {
		h.fail(w, r, "portal", identity.UserID, err)
		return
	}
	middleware.RecordBilling("portal", "ok")
	AuditEmit(h.log, r, h.events, "billing.portal", identity.UserID, true, "")
	writeJSON(w, http.StatusOK, map[string]string{"url": result.URL})
}

// Checkout handles POST /billing/checkout for the configured price.
func (h *BillingHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "sign in required")
		return
	}
	result, err := h.checkout.Execute(r.Context(), billing.StartCheckoutInput{Identity: identity})
	if err != nil {
		h.fail(w, r, "checkout", identity.UserID, err)
		return
	}
	middleware.RecordBilling("checkout", "ok")
	AuditEmit(h.log, r, h.events, "billing.checkout", identity.UserID, true, "")
	writeJSON(w, http.StatusOK, map[string]string{"url": result.URL})
}

func (h *BillingHandler) fail(w http.ResponseWriter, r *http.Request, op, userID string, err error) {
	AuditLog(h.log, r, "billing."+op, userID, false, err.Error())
	switch {
	case errors.Is(err, domerrors.ErrBillingNotConfigured):
		middleware.RecordBilling(op, "not_configured")
		writeErr(w, http.StatusNotImplemented, "", err.Error())
	case errors.Is(err, domerrors.ErrNoBillingCustomer):
		middleware.RecordBilling(op, "no_customer")
		writeErr(w, http.StatusConflict, ErrCodeNoBillingCustomer, err.Error())
	case errors.Is(err, domerrors.ErrBillingProvider):
		middleware.RecordBilling(op, "provider_error")
		h.log.Warn().Err(err).Str("op", op).Msg("billing provider failed")
		writeErr(w, http.StatusBadGateway, "", domerrors.ErrBillingProvider.Error())
	case errors.Is(err, domerrors.ErrUserNotFound):
		middleware.RecordBilling(op, "error")
		writeErr(w, http.StatusNotFound, "", err.Error())
	case errors.Is(err, domerrors.ErrSessionInvalid):
		middleware.RecordBilling(op, "error")
		writeErr(w, http.StatusUnauthorized, "", err.Error())
	default:
		middleware.RecordBilling(op, "error")
		h.log.Error().Err(err).Str("op", op).Msg("billing request failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
	}
}
