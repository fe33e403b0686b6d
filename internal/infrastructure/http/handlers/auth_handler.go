package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/launchpad/internal/application/auth"
	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
	domerrors "github.com/amirhosseinghanipour/launchpad/internal/domain/errors"
	"github.com/amirhosseinghanipour/launchpad/internal/infrastructure/http/middleware"
)

type AuthHandler struct {
	sendMagicLink   *auth.SendMagicLink
	verifyMagicLink *auth.VerifyMagicLink
	sessions        *middleware.SessionReader
	events          ports.TaskEnqueuer
	dashboardPath   string
	log             zerolog.Logger
}

func NewAuthHandler(sendMagicLink *auth.SendMagicLink, verifyMagicLink *auth.VerifyMagicLink, sessions *middleware.SessionReader, events ports.TaskEnqueuer, dashboardPath string, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		sendMagicLink:   sendMagicLink,
		verifyMagicLink: verifyMagicLink,
		sessions:        sessions,
		events:          events,
		dashboardPath:   dashboardPath,
		log:             log,
	}
}

// SendMagicLink handles POST /auth/magic-link/send. Body: { "email", "callback_url" }.
// The answer does not reveal whether the address has an account.
func (h *AuthHandler) SendMagicLink(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email       string `json:"email" validate:"required,email,max=254"`
		CallbackURL string `json:"callback_url" validate:"max=2048"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxFormBytes)).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := validate.Struct(&body); err != nil {
		writeFieldErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid email", firstInvalidField(err))
		return
	}
	email := SanitizeEmail(body.Email)
	if email == "" {
		writeErr(w, http.StatusBadRequest, "", "invalid email")
		return
	}
	callback := body.CallbackURL
	if callback == "" {
		callback = h.dashboardPath
	}
	if _, err := h.sendMagicLink.Execute(r.Context(), auth.SendMagicLinkInput{Email: email, CallbackURL: callback}); err != nil {
		AuditLog(h.log, r, "auth.magic_link.send", "", false, err.Error())
		middleware.RecordAuthAttempt("magic_link_send", false)
		h.log.Error().Err(err).Msg("send magic link failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	AuditLog(h.log, r, "auth.magic_link.send", "", true, "")
	middleware.RecordAuthAttempt("magic_link_send", true)
	writeJSON(w, http.StatusAccepted, map[string]string{"message": "check your email for a sign-in link"})
}

// VerifyMagicLink handles GET /auth/magic-link/verify?token=...&callback_url=...
// It sets the session cookie and redirects to the callback (dashboard by default).
func (h *AuthHandler) VerifyMagicLink(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.verifyMagicLink.Execute(r.Context(), auth.VerifyMagicLinkInput{Token: q.Get("token")})
	if err != nil {
		AuditLog(h.log, r, "user.signin", "", false, err.Error())
		middleware.RecordAuthAttempt("magic_link_verify", false)
		if errors.Is(err, domerrors.ErrMagicLinkInvalid) {
			if middleware.WantsJSON(r) {
				writeErr(w, http.StatusUnauthorized, ErrCodeInvalidLink, err.Error())
				return
			}
			http.Redirect(w, r, h.sessions.SignInPath()+"?"+url.Values{"error": {ErrCodeInvalidLink}}.Encode(), http.StatusSeeOther)
			return
		}
		h.log.Error().Err(err).Msg("verify magic link failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	h.completeSignIn(w, r, "magic_link_verify", result, q.Get("callback_url"))
}

// SignOut handles POST /auth/signout.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		h.log.Error().Err(err).Msg("clear session failed")
	}
	if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
		AuditLog(h.log, r, "user.signout", identity.UserID, true, "")
	}
	if middleware.WantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// completeSignIn stores the session cookie and sends the browser to its callback.
func (h *AuthHandler) completeSignIn(w http.ResponseWriter, r *http.Request, flow string, result *auth.SignInResult, callback string) {
	if err := h.sessions.Save(w, r, result.SessionToken, int(result.ExpiresIn)); err != nil {
		h.log.Error().Err(err).Msg("save session failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	userID := result.User.ID.String()
	AuditEmit(h.log, r, h.events, "user.signin", userID, true, "")
	middleware.RecordAuthAttempt(flow, true)

	target := auth.SafeCallback(callback)
	if target == "" {
		target = h.dashboardPath
	}
	if middleware.WantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"session_token": result.SessionToken,
			"expires_in":    result.ExpiresIn,
			"redirect_to":   target,
			"user": map[string]interface{}{
				"id":    userID,
				"email": result.User.Email,
			},
		})
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
