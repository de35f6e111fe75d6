package services

import (
	"context"
	"errors"

	"studyos/internal/events"
	"studyos/internal/models"
	"studyos/internal/payments"
	"studyos/internal/repositories"

	"go.uber.org/zap"
)

// paymentService implements PaymentService
type paymentService struct {
	gateway  payments.Gateway
	users    repositories.UserRepository
	eventBus events.EventBus
	logger   *zap.Logger
}

// NewPaymentService creates the subscription service. gateway may be nil when Stripe is not configured.
func NewPaymentService(gateway payments.Gateway, users repositories.UserRepository, eventBus events.EventBus, logger *zap.Logger) PaymentService {
	return &paymentService{gateway: gateway, users: users, eventBus: eventBus, logger: logger}
}

// CreateCheckout opens a hosted checkout for the Pro plan
func (s *paymentService) CreateCheckout(ctx context.Context, userID int64) (*CheckoutResponse, error) {
	if s.gateway == nil {
		return nil, NewServiceUnavailableError("payments are not configured")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to load user", err)
	}
	if user == nil {
		return nil, EntityNotFoundError("user", userID)
	}
	if user.IsPro() {
		return nil, NewConflictError("you are already on the Pro plan", "ALREADY_PRO")
	}

	url, err := s.gateway.CreateCheckout(ctx, payments.CheckoutRequest{UserID: user.ID, Email: user.Email})
	if err != nil {
		if errors.Is(err, payments.ErrNotConfigured) {
			return nil, NewServiceUnavailableError("payments are not configured")
		}
		s.logger.Error("Checkout creation failed", zap.Int64("user_id", userID), zap.Error(err))
		se := NewServiceUnavailableError("failed to create checkout session")
		se.Cause = err
		return nil, se
	}
	return &CheckoutResponse{URL: url}, nil
}

// HandleWebhook verifies and applies a provider event. Unknown events are acknowledged.
func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.gateway == nil {
		return NewServiceUnavailableError("payments are not configured")
	}

	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		if errors.Is(err, payments.ErrInvalidSignature) {
			s.logger.Warn("Rejected webhook", zap.Error(err))
			return NewValidationError("Webhook Error: invalid signature", err)
		}
		return internalError(ctx, s.logger, "failed to parse webhook", err)
	}

	logger := s.logger.With(zap.String("event_id", event.ID), zap.String("event_type", event.Type))

	switch event.Kind {
	case payments.EventCheckoutCompleted:
		if event.UserID == 0 {
			logger.Warn("Checkout completed without a user reference")
			return nil
		}
		if err := s.users.SetSubscription(ctx, event.UserID, models.TierPro,
			optionalString(event.CustomerID), optionalString(event.SubscriptionID)); err != nil {
			return internalError(ctx, logger, "failed to upgrade user", err)
		}
		logger.Info("User upgraded to Pro", zap.Int64("user_id", event.UserID))
		publishEvent(ctx, s.eventBus, logger, events.NewSubscriptionChangedEvent(event.UserID, models.TierPro))

	case payments.EventSubscriptionDeleted:
		if event.CustomerID == "" {
			logger.Warn("Subscription deleted without a customer")
			return nil
		}
		user, err := s.users.GetByStripeCustomer(ctx, event.CustomerID)
		if err != nil {
			return internalError(ctx, logger, "failed to look up customer", err)
		}
		affected, err := s.users.SetTierByCustomer(ctx, event.CustomerID, models.TierFree)
		if err != nil {
			return internalError(ctx, logger, "failed to downgrade user", err)
		}
		if affected == 0 || user == nil {
			logger.Warn("No user for cancelled subscription", zap.String("customer_id", event.CustomerID))
			return nil
		}
		logger.Info("User downgraded to Free", zap.Int64("user_id", user.ID))
		publishEvent(ctx, s.eventBus, logger, events.NewSubscriptionChangedEvent(user.ID, models.TierFree))

	default:
		logger.Debug("Ignoring webhook event")
	}
	return nil
}

// Status reports the user's plan
func (s *paymentService) Status(ctx context.Context, userID int64) (*SubscriptionStatus, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to load user", err)
	}
	if user == nil {
		return nil, EntityNotFoundError("user", userID)
	}
	return &SubscriptionStatus{Tier: user.SubscriptionTier, SubscriptionID: user.SubscriptionID}, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
