package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "launchpad_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	authAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "launchpad_auth_attempts_total",
			Help: "Total sign-in attempts by flow and outcome",
		},
		[]string{"event", "success"},
	)
	projectsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "launchpad_projects_created_total",
			Help: "Project creation attempts by outcome",
		},
		[]string{"outcome"},
	)
	billingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "launchpad_billing_requests_total",
			Help: "Billing portal and checkout requests by outcome",
		},
		[]string{"op", "outcome"},
	)
)

// PrometheusMiddleware records request duration, labelled by route pattern.
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		duration := time.Since(start).Seconds()
		status := strconv.Itoa(ww.Status())
		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
	})
}

// RecordAuthAttempt records a sign-in event for Prometheus.
func RecordAuthAttempt(event string, success bool) {
	authAttempts.WithLabelValues(event, strconv.FormatBool(success)).Inc()
}

// RecordProjectCreate records a project creation outcome (created, invalid, error).
func RecordProjectCreate(outcome string) {
	projectsCreated.WithLabelValues(outcome).Inc()
}

// RecordBilling records a billing bridge outcome.
func RecordBilling(op, outcome string) {
	billingRequests.WithLabelValues(op, outcome).Inc()
}
