package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
)

// AuditLog logs sign-in, billing and admin events (user_id, IP, request id).
func AuditLog(log zerolog.Logger, r *http.Request, event, userID string, success bool, errMsg string) {
	ev := log.Info()
	if !success {
		ev = log.Warn()
	}
	ev.
		Str("event", event).
		Str("user_id", userID).
		Str("ip", getClientIP(r)).
		Str("request_id", middleware.GetReqID(r.Context())).
		Bool("success", success)
	if errMsg != "" {
		ev.Str("error", errMsg)
	}
	ev.Msg("audit")
}

// AuditEmit logs the event and, if events is non-nil, queues it for webhook delivery.
func AuditEmit(log zerolog.Logger, r *http.Request, events ports.TaskEnqueuer, event, userID string, success bool, errMsg string) {
	AuditLog(log, r, event, userID, success, errMsg)
	if events == nil {
		return
	}
	if err := events.EnqueueWebhook(r.Context(), event, ports.AuditEvent{
		Event:   event,
		UserID:  userID,
		IP:      getClientIP(r),
		Success: success,
		Err:     errMsg,
	}); err != nil {
		log.Warn().Err(err).Str("event", event).Msg("audit webhook not queued")
	}
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	return r.RemoteAddr
}
