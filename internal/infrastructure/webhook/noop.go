package webhook

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
)

// LogEmitter writes audit events to the log when WEBHOOK_URL is not set.
type LogEmitter struct {
	log zerolog.Logger
}

func NewLogEmitter(log zerolog.Logger) *LogEmitter {
	return &LogEmitter{log: log}
}

// Emit implements ports.WebhookEmitter.
func (e *LogEmitter) Emit(ctx context.Context, event ports.AuditEvent) error {
	e.log.Debug().
		Str("event", event.Event).
		Str("user_id", event.UserID).
		Bool("success", event.Success).
		Msg("audit event")
	return nil
}

var _ ports.WebhookEmitter = (*LogEmitter)(nil)
