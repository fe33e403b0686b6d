package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
)

type recordingEmitter struct {
	events []ports.AuditEvent
	err    error
}

func (r *recordingEmitter) Emit(_ context.Context, e ports.AuditEvent) error {
	r.events = append(r.events, e)
	return r.err
}

func TestInlineEnqueuer_DeliversWebhook(t *testing.T) {
	em := &recordingEmitter{}
	q := NewInlineEnqueuer(em, zerolog.Nop())

	err := q.EnqueueWebhook(context.Background(), "project.created", ports.AuditEvent{UserID: "u1", Success: true})
	require.NoError(t, err)
	require.Len(t, em.events, 1)
	assert.Equal(t, "project.created", em.events[0].Event)
	assert.Equal(t, "u1", em.events[0].UserID)
	assert.True(t, em.events[0].Success)
}

func TestInlineEnqueuer_PropagatesDeliveryFailure(t *testing.T) {
	boom := errors.New("endpoint down")
	q := NewInlineEnqueuer(&recordingEmitter{err: boom}, zerolog.Nop())
	assert.ErrorIs(t, q.EnqueueWebhook(context.Background(), "user.signin", ports.AuditEvent{}), boom)
}

func TestInlineEnqueuer_MagicLinkAndNilEmitter(t *testing.T) {
	q := NewInlineEnqueuer(nil, zerolog.Nop())
	assert.NoError(t, q.EnqueueSendMagicLink(context.Background(), "ada@example.com", "https://app.example/auth/magic-link/verify?token=x"))
	assert.NoError(t, q.EnqueueWebhook(context.Background(), "user.signin", ports.AuditEvent{}))
}

func TestHandlers_BadPayloadSkipsRetry(t *testing.T) {
	h := &handlers{log: zerolog.Nop()}
	err := h.webhook(context.Background(), asynq.NewTask(TypeWebhook, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	err = h.sendMagicLink(context.Background(), asynq.NewTask(TypeSendMagicLink, []byte("nope")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
