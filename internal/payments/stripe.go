// Package payments talks to the subscription provider.
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"studyos/internal/config"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

var (
	ErrNotConfigured    = errors.New("payments: provider is not configured")
	ErrInvalidSignature = errors.New("payments: invalid webhook signature")
)

// EventKind classifies webhook events the app reacts to
type EventKind int

const (
	EventIgnored EventKind = iota
	EventCheckoutCompleted
	EventSubscriptionDeleted
)

// WebhookEvent is a verified provider event reduced to what the app needs
type WebhookEvent struct {
	ID             string
	Type           string
	Kind           EventKind
	UserID         int64
	CustomerID     string
	SubscriptionID string
}

// CheckoutRequest starts a subscription checkout for one user
type CheckoutRequest struct {
	UserID int64
	Email  string
}

// Gateway creates checkouts and verifies webhooks
type Gateway interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (string, error)
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

// StripeGateway implements Gateway on Stripe Checkout
type StripeGateway struct {
	api    *client.API
	cfg    config.PaymentsConfig
	logger *zap.Logger
}

// NewStripeGateway returns ErrNotConfigured without a secret key
func NewStripeGateway(cfg config.PaymentsConfig, logger *zap.Logger) (*StripeGateway, error) {
	if cfg.StripeSecretKey == "" {
		return nil, ErrNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	api := &client.API{}
	api.Init(cfg.StripeSecretKey, nil)
	return &StripeGateway{api: api, cfg: cfg, logger: logger}, nil
}

// CreateCheckout creates a monthly subscription checkout session and returns its URL
func (g *StripeGateway) CreateCheckout(ctx context.Context, req CheckoutRequest) (string, error) {
	userRef := strconv.FormatInt(req.UserID, 10)

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		CustomerEmail:     stripe.String(req.Email),
		ClientReferenceID: stripe.String(userRef),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(g.cfg.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(g.cfg.ProductName),
						Description: stripe.String("Unlock unlimited AI, analytics, and study tools."),
					},
					UnitAmount: stripe.Int64(g.cfg.ProPriceCents),
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripe.String(string(stripe.PriceRecurringIntervalMonth)),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(g.cfg.FrontendURL + "/payment/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(g.cfg.FrontendURL + "/payment/cancel"),
	}
	params.Context = ctx
	params.AddMetadata("userId", userRef)

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	g.logger.Info("Checkout session created",
		zap.Int64("user_id", req.UserID),
		zap.String("checkout_session_id", session.ID))
	return session.URL, nil
}

// ParseWebhook verifies the Stripe-Signature header and decodes the event
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	return parseWebhook(payload, signature, g.cfg.StripeWebhookSecret)
}

func parseWebhook(payload []byte, signature, secret string) (*WebhookEvent, error) {
	if secret == "" || signature == "" {
		return nil, ErrInvalidSignature
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if event.Data == nil {
		return out, nil
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("failed to decode checkout session: %w", err)
		}
		out.Kind = EventCheckoutCompleted
		ref := session.ClientReferenceID
		if ref == "" {
			ref = session.Metadata["userId"]
		}
		if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
			out.UserID = id
		}
		if session.Customer != nil {
			out.CustomerID = session.Customer.ID
		}
		if session.Subscription != nil {
			out.SubscriptionID = session.Subscription.ID
		}

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("failed to decode subscription: %w", err)
		}
		out.Kind = EventSubscriptionDeleted
		out.SubscriptionID = sub.ID
		if sub.Customer != nil {
			out.CustomerID = sub.Customer.ID
		}
	}
	return out, nil
}
