package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
)

const DefaultStripeBaseURL = "https://api.stripe.com"

var tracer = otel.Tracer("github.com/amirhosseinghanipour/launchpad/internal/infrastructure/billing")

// StripeClient talks to the Stripe REST API. One request per call, no retries.
type StripeClient struct {
	httpClient *resty.Client
	log        zerolog.Logger
}

type stripeError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

type customerList struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

type sessionURL struct {
	URL string `json:"url"`
}

func NewStripeClient(baseURL, secretKey string, timeout time.Duration, log zerolog.Logger) *StripeClient {
	if baseURL == "" {
		baseURL = DefaultStripeBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAuthToken(secretKey).
		SetHeader("Accept", "application/json")
	return &StripeClient{httpClient: client, log: log}
}

func (c *StripeClient) FindCustomerByEmail(ctx context.Context, email string) (string, error) {
	ctx, span := tracer.Start(ctx, "stripe.find_customer")
	defer span.End()

	var list customerList
	var apiErr stripeError
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"email": email, "limit": "1"}).
		SetResult(&list).
		SetError(&apiErr).
		Get("/v1/customers")
	if err := c.check(span, "find customer", resp, err, apiErr); err != nil {
		return "", err
	}
	if len(list.Data) == 0 {
		return "", nil
	}
	return list.Data[0].ID, nil
}

func (c *StripeClient) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	ctx, span := tracer.Start(ctx, "stripe.portal_session")
	defer span.End()

	form := map[string]string{"customer": customerID}
	if returnURL != "" {
		form["return_url"] = returnURL
	}
	return c.postSession(ctx, span, "/v1/billing_portal/sessions", "create portal session", form)
}

func (c *StripeClient) CreateCheckoutSession(ctx context.Context, req ports.CheckoutRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "stripe.checkout_session")
	defer span.End()

	form := map[string]string{
		"mode":                    "subscription",
		"line_items[0][price]":    req.PriceID,
		"line_items[0][quantity]": "1",
		"success_url":             req.SuccessURL,
		"cancel_url":              req.CancelURL,
	}
	if req.CustomerID != "" {
		form["customer"] = req.CustomerID
	} else {
		form["customer_email"] = req.Email
	}
	return c.postSession(ctx, span, "/v1/checkout/sessions", "create checkout session", form)
}

func (c *StripeClient) postSession(ctx context.Context, span trace.Span, path, op string, form map[string]string) (string, error) {
	var out sessionURL
	var apiErr stripeError
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&out).
		SetError(&apiErr).
		Post(path)
	if err := c.check(span, op, resp, err, apiErr); err != nil {
		return "", err
	}
	if out.URL == "" {
		err := fmt.Errorf("%s: response carried no url", op)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return out.URL, nil
}

func (c *StripeClient) check(span trace.Span, op string, resp *resty.Response, err error, apiErr stripeError) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.log.Error().Err(err).Str("op", op).Msg("stripe request failed")
		return fmt.Errorf("%s: %w", op, err)
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))
	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = resp.Status()
		}
		span.SetStatus(codes.Error, msg)
		c.log.Warn().Str("op", op).Int("status", resp.StatusCode()).Str("type", apiErr.Error.Type).Msg("stripe returned error")
		return fmt.Errorf("%s: stripe %d: %s", op, resp.StatusCode(), msg)
	}
	return nil
}

var _ ports.BillingProvider = (*StripeClient)(nil)
