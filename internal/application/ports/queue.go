package ports

import "context"

// TaskEnqueuer enqueues async tasks (email, webhook).
type TaskEnqueuer interface {
	EnqueueSendMagicLink(ctx context.Context, email, linkURL string) error
	EnqueueWebhook(ctx context.Context, event string, payload interface{}) error
}
