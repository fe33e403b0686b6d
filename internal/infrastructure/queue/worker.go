package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
)

// magicLinkPayload matches the JSON enqueued by EnqueueSendMagicLink.
type magicLinkPayload struct {
	Email   string `json:"email"`
	LinkURL string `json:"link_url"`
}

type webhookPayload struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

type handlers struct {
	emitter ports.WebhookEmitter
	log     zerolog.Logger
}

// Worker runs Asynq task handlers (magic link email, webhook delivery).
type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

// NewWorker creates an Asynq server and registers handlers. Call Run() to start.
func NewWorker(redisOpt asynq.RedisConnOpt, emitter ports.WebhookEmitter, log zerolog.Logger) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		LogLevel:    asynq.InfoLevel,
	})
	h := &handlers{emitter: emitter, log: log}
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSendMagicLink, h.sendMagicLink)
	mux.HandleFunc(TypeWebhook, h.webhook)
	return &Worker{srv: srv, mux: mux}
}

func (h *handlers) sendMagicLink(ctx context.Context, t *asynq.Task) error {
	var p magicLinkPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		h.log.Error().Err(err).Msg("magic link task payload invalid")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	// log only; no mail transport is configured
	h.log.Info().
		Str("email", p.Email).
		Str("link_url", p.LinkURL).
		Msg("magic link email")
	return nil
}

func (h *handlers) webhook(ctx context.Context, t *asynq.Task) error {
	var p struct {
		Event   string           `json:"event"`
		Payload ports.AuditEvent `json:"payload"`
	}
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		h.log.Error().Err(err).Msg("webhook task payload invalid")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if p.Payload.Event == "" {
		p.Payload.Event = p.Event
	}
	if h.emitter == nil {
		return nil
	}
	if err := h.emitter.Emit(ctx, p.Payload); err != nil {
		h.log.Warn().Err(err).Str("event", p.Event).Msg("webhook delivery failed")
		return err
	}
	return nil
}

// Run blocks until shutdown. Use Shutdown for graceful stop.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

// Shutdown stops the worker.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
