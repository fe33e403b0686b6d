package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
)

// InlineEnqueuer runs tasks in the calling goroutine when Redis/Asynq is not configured.
// It goes through the same handlers as the worker.
type InlineEnqueuer struct {
	h *handlers
}

func NewInlineEnqueuer(emitter ports.WebhookEmitter, log zerolog.Logger) *InlineEnqueuer {
	return &InlineEnqueuer{h: &handlers{emitter: emitter, log: log}}
}

func (q *InlineEnqueuer) EnqueueSendMagicLink(ctx context.Context, email, linkURL string) error {
	payload, err := json.Marshal(magicLinkPayload{Email: email, LinkURL: linkURL})
	if err != nil {
		return err
	}
	return q.h.sendMagicLink(ctx, asynq.NewTask(TypeSendMagicLink, payload))
}

func (q *InlineEnqueuer) EnqueueWebhook(ctx context.Context, event string, payload interface{}) error {
	body, err := marshalWebhook(event, payload)
	if err != nil {
		return err
	}
	return q.h.webhook(ctx, asynq.NewTask(TypeWebhook, body))
}

var _ ports.TaskEnqueuer = (*InlineEnqueuer)(nil)
