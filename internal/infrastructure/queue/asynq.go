package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
)

const (
	TypeSendMagicLink = "email:magic_link"
	TypeWebhook       = "webhook:emit"
)

type TaskEnqueuer struct {
	client *asynq.Client
	log    zerolog.Logger
}

func NewAsynqEnqueuer(redisOpt asynq.RedisConnOpt, log zerolog.Logger) *TaskEnqueuer {
	return &TaskEnqueuer{client: asynq.NewClient(redisOpt), log: log}
}

func (q *TaskEnqueuer) Close() error {
	return q.client.Close()
}

func (q *TaskEnqueuer) EnqueueSendMagicLink(ctx context.Context, email, linkURL string) error {
	payload, err := json.Marshal(magicLinkPayload{Email: email, LinkURL: linkURL})
	if err != nil {
		return err
	}
	if _, err := q.client.EnqueueContext(ctx, asynq.NewTask(TypeSendMagicLink, payload), asynq.MaxRetry(5)); err != nil {
		q.log.Warn().Err(err).Str("email", email).Msg("enqueue magic link email failed")
		return err
	}
	return nil
}

func (q *TaskEnqueuer) EnqueueWebhook(ctx context.Context, event string, payload interface{}) error {
	body, err := marshalWebhook(event, payload)
	if err != nil {
		return err
	}
	if _, err := q.client.EnqueueContext(ctx, asynq.NewTask(TypeWebhook, body)); err != nil {
		q.log.Warn().Err(err).Str("event", event).Msg("enqueue webhook failed")
		return err
	}
	return nil
}

func marshalWebhook(event string, payload interface{}) ([]byte, error) {
	return json.Marshal(webhookPayload{Event: event, Payload: payload})
}

var _ ports.TaskEnqueuer = (*TaskEnqueuer)(nil)
