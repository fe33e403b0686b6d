package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/launchpad/internal/infrastructure/http/handlers"
	"github.com/amirhosseinghanipour/launchpad/internal/infrastructure/http/middleware"
)

// APIVersion is sent on every response as X-API-Version.
const APIVersion = "1"

type RouterConfig struct {
	AuthHandler      *handlers.AuthHandler
	HealthHandler    *handlers.HealthHandler
	UsersHandler     *handlers.UsersHandler
	DashboardHandler *handlers.DashboardHandler
	BillingHandler   *handlers.BillingHandler
	AdminHandler     *handlers.AdminHandler
	Sessions         *middleware.SessionReader
	RequireAdmin     func(http.Handler) http.Handler // X-Launchpad-Admin-Secret for /admin/*
	OAuthCallback    http.HandlerFunc                // GET /auth/{provider}/callback; nil disables OAuth
	Log              zerolog.Logger
	Secure           func(http.Handler) http.Handler
	CORS             func(http.Handler) http.Handler
	IPRateLimit      func(http.Handler) http.Handler
	UserRateLimit    func(http.Handler) http.Handler
	RequestTimeout   time.Duration
	Metrics          bool // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	if cfg.RequestTimeout > 0 {
		r.Use(chimid.Timeout(cfg.RequestTimeout))
	}
	if cfg.CORS != nil {
		r.Use(cfg.CORS)
	}
	r.Use(chimid.SetHeader("X-API-Version", APIVersion))
	r.Use(chimid.AllowContentType("application/json", "application/x-www-form-urlencoded", "multipart/form-data"))
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}
	r.Use(cfg.Sessions.Resolve)
	if cfg.UserRateLimit != nil {
		r.Use(cfg.UserRateLimit)
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/magic-link/send", cfg.AuthHandler.SendMagicLink)
		r.Get("/magic-link/verify", cfg.AuthHandler.VerifyMagicLink)
		r.Post("/signout", cfg.AuthHandler.SignOut)
		if cfg.UsersHandler != nil {
			r.Get("/session", cfg.UsersHandler.Session)
		}
		if cfg.OAuthCallback != nil {
			r.Get("/{provider}", cfg.AuthHandler.OAuthBegin)
			r.Get("/{provider}/callback", cfg.OAuthCallback)
		}
	})

	// The orchestrator decides the redirect for anonymous callers itself.
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/", cfg.DashboardHandler.Get)
		r.Post("/projects", cfg.DashboardHandler.CreateProject)
		r.Get("/export.xlsx", cfg.DashboardHandler.Export)
	})

	if cfg.BillingHandler != nil {
		r.Route("/billing", func(r chi.Router) {
			r.Use(cfg.Sessions.RequireSession)
			r.Post("/portal", cfg.BillingHandler.Portal)
			r.Post("/checkout", cfg.BillingHandler.Checkout)
		})
	}

	if cfg.AdminHandler != nil && cfg.RequireAdmin != nil {
		r.Route("/admin", func(r chi.Router) {
			r.Use(cfg.RequireAdmin)
			r.Post("/seed", cfg.AdminHandler.Seed)
		})
	}

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("request_id", chimid.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
