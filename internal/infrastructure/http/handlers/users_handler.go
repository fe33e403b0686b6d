package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
	"github.com/amirhosseinghanipour/launchpad/internal/infrastructure/http/middleware"
)

// UsersHandler serves GET /auth/session, the signed-in user's account summary.
type UsersHandler struct {
	userRepo ports.UserRepository
	log      zerolog.Logger
}

// NewUsersHandler creates the session handler.
func NewUsersHandler(userRepo ports.UserRepository, log zerolog.Logger) *UsersHandler {
	return &UsersHandler{userRepo: userRepo, log: log}
}

// SessionResponse is the JSON shape for GET /auth/session.
type SessionResponse struct {
	Email      string  `json:"email"`
	UserID     string  `json:"user_id,omitempty"`
	CreatedAt  *string `json:"created_at,omitempty"`
	HasBilling bool    `json:"has_billing"`
}

// Session answers 401 when no session is present; it never redirects.
func (h *UsersHandler) Session(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "not signed in")
		return
	}
	resp := SessionResponse{Email: identity.Email}
	user, err := h.userRepo.GetByEmail(r.Context(), identity.Email)
	if err != nil {
		h.log.Error().Err(err).Msg("load session user failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	if user != nil {
		created := user.CreatedAt.Format(time.RFC3339)
		resp.UserID = user.ID.String()
		resp.CreatedAt = &created
		resp.HasBilling = user.BillingCustomerID != nil && *user.BillingCustomerID != ""
	}
	writeJSON(w, http.StatusOK, resp)
}
