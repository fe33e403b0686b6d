package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"

	"github.com/amirhosseinghanipour/launchpad/internal/application/auth"
	domerrors "github.com/amirhosseinghanipour/launchpad/internal/domain/errors"
	"github.com/amirhosseinghanipour/launchpad/internal/infrastructure/http/middleware"
)

const oauthCallbackKey = "launchpad_oauth_callback"

// InitOAuthProviders registers Goth providers and the state store. Call once at startup.
// It reports whether any provider was registered.
func InitOAuthProviders(callbackBaseURL string, store sessions.Store, googleClientID, googleClientSecret string) bool {
	gothic.Store = store
	if googleClientID == "" || googleClientSecret == "" {
		return false
	}
	callbackURL := callbackBaseURL + "/auth/google/callback"
	goth.UseProviders(google.New(googleClientID, googleClientSecret, callbackURL, "email"))
	return true
}

// withProvider copies the chi URL param into the query, where gothic looks for it.
func withProvider(r *http.Request, provider string) *http.Request {
	r2 := r.Clone(r.Context())
	q := r2.URL.Query()
	q.Set("provider", provider)
	r2.URL.RawQuery = q.Encode()
	return r2
}

// OAuthBegin handles GET /auth/{provider}?callback_url=... and redirects to the provider.
func (h *AuthHandler) OAuthBegin(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	if _, err := goth.GetProvider(provider); err != nil {
		writeErr(w, http.StatusNotFound, "", domerrors.ErrOAuthNotConfigured.Error())
		return
	}
	if err := gothic.StoreInSession(oauthCallbackKey, auth.SafeCallback(r.URL.Query().Get("callback_url")), r, w); err != nil {
		h.log.Error().Err(err).Msg("store oauth callback failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	authURL, err := gothic.GetAuthURL(w, withProvider(r, provider))
	if err != nil {
		h.log.Error().Err(err).Str("provider", provider).Msg("oauth begin failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
}

// OAuthCallback handles GET /auth/{provider}/callback: upserts the user by email and starts a session.
func (h *AuthHandler) OAuthCallback(oauth *auth.OAuthCallback) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider := chi.URLParam(r, "provider")
		if _, err := goth.GetProvider(provider); err != nil {
			writeErr(w, http.StatusNotFound, "", domerrors.ErrOAuthNotConfigured.Error())
			return
		}
		r2 := withProvider(r, provider)
		gothUser, err := gothic.CompleteUserAuth(w, r2)
		if err != nil {
			AuditLog(h.log, r, "user.signin", "", false, err.Error())
			middleware.RecordAuthAttempt("oauth_"+provider, false)
			writeErr(w, http.StatusUnauthorized, "", "oauth failed")
			return
		}
		callback, _ := gothic.GetFromSession(oauthCallbackKey, r2)
		result, err := oauth.Execute(r.Context(), auth.OAuthUser{
			Provider:       gothUser.Provider,
			ProviderUserID: gothUser.UserID,
			Email:          gothUser.Email,
		})
		if err != nil {
			AuditLog(h.log, r, "user.signin", "", false, err.Error())
			middleware.RecordAuthAttempt("oauth_"+provider, false)
			if errors.Is(err, domerrors.ErrSessionInvalid) {
				writeErr(w, http.StatusUnauthorized, "", "provider returned no email")
				return
			}
			h.log.Error().Err(err).Msg("oauth sign-in failed")
			writeErr(w, http.StatusInternalServerError, "", "internal error")
			return
		}
		h.completeSignIn(w, r, "oauth_"+provider, result, callback)
	}
}
