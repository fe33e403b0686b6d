package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/launchpad/internal/application/auth"
)

const sessionTokenKey = "token"

// SessionReader carries the session token in a signed cookie (or an Authorization
// bearer header) and resolves it to an identity for each request.
type SessionReader struct {
	store      sessions.Store
	cookieName string
	signInPath string
	resolve    *auth.ResolveIdentity
	log        zerolog.Logger
}

// NewCookieStore returns the signed cookie store shared by sessions and OAuth state.
func NewCookieStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func NewSessionReader(store sessions.Store, cookieName, signInPath string, resolve *auth.ResolveIdentity, log zerolog.Logger) *SessionReader {
	return &SessionReader{store: store, cookieName: cookieName, signInPath: signInPath, resolve: resolve, log: log}
}

// SignInPath is where unauthenticated requests are sent.
func (s *SessionReader) SignInPath() string { return s.signInPath }

// Credential returns the bearer token if present, else the cookie token.
func (s *SessionReader) Credential(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	sess, err := s.store.Get(r, s.cookieName)
	if err != nil {
		// tampered or rotated-secret cookies read as signed out
		return ""
	}
	tok, _ := sess.Values[sessionTokenKey].(string)
	return tok
}

// Save stores the session token in the cookie for maxAge seconds.
func (s *SessionReader) Save(w http.ResponseWriter, r *http.Request, token string, maxAge int) error {
	sess, _ := s.store.Get(r, s.cookieName)
	sess.Values[sessionTokenKey] = token
	sess.Options.MaxAge = maxAge
	return sess.Save(r, w)
}

// Clear expires the session cookie.
func (s *SessionReader) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.store.Get(r, s.cookieName)
	delete(sess.Values, sessionTokenKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// Resolve attaches the credential and, when valid, the identity to the request context.
// It never rejects a request.
func (s *SessionReader) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cred := s.Credential(r)
		ctx := WithCredential(r.Context(), cred)
		if identity, ok := s.resolve.Execute(ctx, cred); ok {
			ctx = WithIdentity(ctx, identity)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSession sends unauthenticated requests to the sign-in path. Use after Resolve.
func (s *SessionReader) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			s.log.Debug().Str("path", r.URL.Path).Msg("no session; redirecting to sign-in")
			RedirectToSignIn(w, r, s.signInPath)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RedirectToSignIn answers 303 to the sign-in path. JSON clients also get an error body.
func RedirectToSignIn(w http.ResponseWriter, r *http.Request, signInPath string) {
	if WantsJSON(r) {
		w.Header().Set("Location", signInPath)
		writeErr(w, http.StatusSeeOther, "unauthorized", "sign in required")
		return
	}
	http.Redirect(w, r, signInPath, http.StatusSeeOther)
}

// WantsJSON reports whether the client asked for JSON and not HTML.
func WantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
