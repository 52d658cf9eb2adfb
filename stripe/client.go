package stripe

import (
	//revive:disable:import-alias-naming
	stripeapi "github.com/stripe/stripe-go/v81"
	stripecheckoutsession "github.com/stripe/stripe-go/v81/checkout/session"
	stripewebhook "github.com/stripe/stripe-go/v81/webhook"
)

// Client wraps the Stripe API operations the backend depends on: checkout
// session creation and retrieval, subscription session lookup and webhook
// signature verification.
type Client struct {
	config *Config
}

// NewClient creates a new Stripe client with the given configuration.
func NewClient(config *Config) *Client {
	stripeapi.Key = config.APIKey
	return &Client{config: config}
}

// ValidateWebhookEvent verifies the webhook signature against the shared
// signing secret and parses the event. A verification failure is returned as
// a webhook_validation error, which callers must answer with HTTP 400.
// Verification is signature-only: an event produced under a different API
// version than the SDK pin is still authentic and must not be rejected.
func (c *Client) ValidateWebhookEvent(payload []byte, signatureHeader string) (*stripeapi.Event, error) {
	event, err := stripewebhook.ConstructEventWithOptions(payload, signatureHeader, c.config.WebhookSecret,
		stripewebhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, NewStripeError("webhook_validation", "webhook signature validation failed", err)
	}
	return &event, nil
}

// NewCheckoutSession creates a checkout session with the given parameters and
// returns the session, whose URL is the provider-hosted payment page.
func (*Client) NewCheckoutSession(params *stripeapi.CheckoutSessionParams) (*stripeapi.CheckoutSession, error) {
	session, err := stripecheckoutsession.New(params)
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to create checkout session", err)
	}
	return session, nil
}

// GetCheckoutSession retrieves a checkout session by ID.
func (*Client) GetCheckoutSession(sessionID string) (*stripeapi.CheckoutSession, error) {
	params := &stripeapi.CheckoutSessionParams{}
	params.AddExpand("line_items")

	session, err := stripecheckoutsession.Get(sessionID, params)
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to get checkout session", err)
	}
	return session, nil
}

// LatestSessionForSubscription returns the most recent checkout session
// associated with the given subscription, or nil when Stripe knows none. The
// session metadata is the only channel carrying the original donation context
// for recurring invoices.
func (*Client) LatestSessionForSubscription(subscriptionID string) (*stripeapi.CheckoutSession, error) {
	params := &stripeapi.CheckoutSessionListParams{
		Subscription: stripeapi.String(subscriptionID),
	}
	params.Limit = stripeapi.Int64(1)

	i := stripecheckoutsession.List(params)
	if i.Next() {
		return i.CheckoutSession(), nil
	}
	if err := i.Err(); err != nil {
		return nil, NewStripeError("api_call_failed", "failed to list checkout sessions", err)
	}
	return nil, nil
}
