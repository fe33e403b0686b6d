package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
)

// HTTPEmitter sends audit events to an HTTP endpoint via POST JSON.
type HTTPEmitter struct {
	client *resty.Client
	url    string
}

// HTTPEmitterOption configures HTTPEmitter.
type HTTPEmitterOption func(*HTTPEmitter)

// WithTimeout sets the request timeout (default 10s).
func WithTimeout(d time.Duration) HTTPEmitterOption {
	return func(e *HTTPEmitter) {
		e.client.SetTimeout(d)
	}
}

// WithHeader sets a header sent on every request (e.g. Authorization, X-API-Key).
func WithHeader(key, value string) HTTPEmitterOption {
	return func(e *HTTPEmitter) {
		if key != "" {
			e.client.SetHeader(key, value)
		}
	}
}

// NewHTTPEmitter returns a WebhookEmitter that POSTs AuditEvent as JSON to url.
func NewHTTPEmitter(url string, opts ...HTTPEmitterOption) *HTTPEmitter {
	e := &HTTPEmitter{
		client: resty.New().
			SetTimeout(10*time.Second).
			SetHeader("Content-Type", "application/json"),
		url: url,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Emit implements ports.WebhookEmitter. Retries belong to the queue, not here.
func (e *HTTPEmitter) Emit(ctx context.Context, event ports.AuditEvent) error {
	resp, err := e.client.R().
		SetContext(ctx).
		SetBody(event).
		Post(e.url)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return &emitError{status: resp.StatusCode()}
	}
	return nil
}

type emitError struct {
	status int
}

func (e *emitError) Error() string {
	return fmt.Sprintf("webhook endpoint returned status %d", e.status)
}

var _ ports.WebhookEmitter = (*HTTPEmitter)(nil)
