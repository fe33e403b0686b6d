package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/launchpad/internal/application/auth"
	"github.com/amirhosseinghanipour/launchpad/internal/application/billing"
	"github.com/amirhosseinghanipour/launchpad/internal/application/dashboard"
	"github.com/amirhosseinghanipour/launchpad/internal/application/project"
	apphttp "github.com/amirhosseinghanipour/launchpad/internal/infrastructure/http"
	"github.com/amirhosseinghanipour/launchpad/internal/infrastructure/http/handlers"
	"github.com/amirhosseinghanipour/launchpad/internal/infrastructure/http/middleware"
	"github.com/amirhosseinghanipour/launchpad/internal/testutil"
)

const adminSecret = "s3cret"

func newTestRouter(t *testing.T) (http.Handler, *testutil.Users, *testutil.Projects) {
	t.Helper()
	log := zerolog.Nop()
	users := testutil.NewUsers()
	projects := testutil.NewProjects()
	events := &testutil.Enqueuer{}
	links := testutil.NewMagicLinks()
	resolve := auth.NewResolveIdentity(testutil.StaticSessions{})
	sessions := middleware.NewSessionReader(middleware.NewCookieStore("0123456789abcdef0123456789abcdef", false), "launchpad_session", "/signin", resolve, log)

	dash := dashboard.NewDashboard(resolve, users, projects, nil, events, "/signin", log)
	router := apphttp.NewRouter(apphttp.RouterConfig{
		AuthHandler: handlers.NewAuthHandler(
			auth.NewSendMagicLink(links, events, "http://localhost/auth/magic-link/verify", 900),
			auth.NewVerifyMagicLink(links, users, testutil.StaticSessions{}, 3600),
			sessions, events, "/dashboard", log,
		),
		UsersHandler:     handlers.NewUsersHandler(users, log),
		DashboardHandler: handlers.NewDashboardHandler(dash, log),
		BillingHandler: handlers.NewBillingHandler(
			billing.NewOpenPortal(users, nil),
			billing.NewStartCheckout(users, nil, billing.CheckoutConfig{}),
			events, log,
		),
		AdminHandler: handlers.NewAdminHandler(project.NewSeedDemoProjects(users, projects, nil), log),
		Sessions:     sessions,
		RequireAdmin: middleware.RequireAdminSecret(adminSecret),
		Log:          log,
	})
	return router, users, projects
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	router, _, _ := newTestRouter(t)
	rec := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, apphttp.APIVersion, rec.Header().Get("X-API-Version"))
}

func TestRouter_DashboardRequiresSession(t *testing.T) {
	router, _, projects := newTestRouter(t)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/signin", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodPost, "/dashboard/projects", strings.NewReader("name=Sneaky"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = serve(router, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, projects.All())

	req = httptest.NewRequest(http.MethodPost, "/dashboard/projects", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec = serve(router, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/signin", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodPost, "/billing/portal", nil)
	req.Header.Set("Accept", "application/json")
	rec = serve(router, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unauthorized"`)
}

func TestRouter_BearerSessionCreatesProject(t *testing.T) {
	router, users, projects := newTestRouter(t)
	_, err := users.UpsertByEmail(t.Context(), "ada@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/dashboard/projects", strings.NewReader(`{"name":"Router","mrr":"10"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testutil.Token("ada@example.com"))
	rec := serve(router, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, handlers.StaleTrigger, rec.Header().Get("HX-Trigger"))
	assert.Len(t, projects.All(), 1)

	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+testutil.Token("ada@example.com"))
	rec = serve(router, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Router"`)
}

func TestRouter_BillingNotConfigured(t *testing.T) {
	router, users, _ := newTestRouter(t)
	_, err := users.UpsertByEmail(t.Context(), "ada@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/billing/checkout", nil)
	req.Header.Set("Authorization", "Bearer "+testutil.Token("ada@example.com"))
	rec := serve(router, req)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestRouter_AdminSeed(t *testing.T) {
	router, _, projects := newTestRouter(t)

	rec := serve(router, httptest.NewRequest(http.MethodPost, "/admin/seed", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/admin/seed", nil)
	req.Header.Set("X-Launchpad-Admin-Secret", adminSecret)
	rec = serve(router, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, projects.All(), 3)
}

func TestRouter_RejectsUnknownContentType(t *testing.T) {
	router, _, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/auth/magic-link/send", strings.NewReader("hello"))
	req.Header.Set("Content-Type", "text/plain")
	rec := serve(router, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestRouter_OAuthRoutesDisabledWithoutProvider(t *testing.T) {
	router, _, _ := newTestRouter(t)
	rec := serve(router, httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
