package services

import (
	"context"
	"fmt"
	"testing"

	"studyos/internal/models"
	"studyos/internal/payments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubGateway struct {
	event     *payments.WebhookEvent
	parseErr  error
	checkouts []payments.CheckoutRequest
}

func (g *stubGateway) CreateCheckout(ctx context.Context, req payments.CheckoutRequest) (string, error) {
	g.checkouts = append(g.checkouts, req)
	return fmt.Sprintf("https://checkout.example.com/c/%d", req.UserID), nil
}

func (g *stubGateway) ParseWebhook(payload []byte, signature string) (*payments.WebhookEvent, error) {
	return g.event, g.parseErr
}

func TestPaymentCheckout(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	free := env.newUser("free")
	pro := env.users.add(&models.User{Name: "pro", Email: "pro@example.com", SubscriptionTier: models.TierPro})
	gateway := &stubGateway{}
	svc := NewPaymentService(gateway, env.users, nil, zap.NewNop())

	resp, err := svc.CreateCheckout(ctx, free.ID)
	require.NoError(t, err)
	assert.Contains(t, resp.URL, "checkout.example.com")
	require.Len(t, gateway.checkouts, 1)
	assert.Equal(t, "free@example.com", gateway.checkouts[0].Email)

	_, err = svc.CreateCheckout(ctx, pro.ID)
	require.Error(t, err)
	assert.Equal(t, "ALREADY_PRO", GetServiceError(err).Code)
}

func TestPaymentDisabled(t *testing.T) {
	env := newTestEnv(t)
	svc := NewPaymentService(nil, env.users, nil, zap.NewNop())

	_, err := svc.CreateCheckout(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, 503, GetServiceError(err).GetStatusCode())
}

func TestPaymentWebhookUpgradeAndCancel(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.newUser("subscriber")
	gateway := &stubGateway{}
	svc := NewPaymentService(gateway, env.users, nil, zap.NewNop())

	gateway.event = &payments.WebhookEvent{
		ID:             "evt_1",
		Kind:           payments.EventCheckoutCompleted,
		UserID:         user.ID,
		CustomerID:     "cus_1",
		SubscriptionID: "sub_1",
	}
	require.NoError(t, svc.HandleWebhook(ctx, []byte(`{}`), "sig"))

	status, err := svc.Status(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TierPro, status.Tier)
	require.NotNil(t, status.SubscriptionID)
	assert.Equal(t, "sub_1", *status.SubscriptionID)

	gateway.event = &payments.WebhookEvent{ID: "evt_2", Kind: payments.EventSubscriptionDeleted, CustomerID: "cus_1"}
	require.NoError(t, svc.HandleWebhook(ctx, []byte(`{}`), "sig"))
	assert.Equal(t, models.TierFree, env.user(user.ID).SubscriptionTier)

	// unknown customers and other events are acknowledged
	gateway.event = &payments.WebhookEvent{ID: "evt_3", Kind: payments.EventSubscriptionDeleted, CustomerID: "cus_missing"}
	assert.NoError(t, svc.HandleWebhook(ctx, []byte(`{}`), "sig"))
	gateway.event = &payments.WebhookEvent{ID: "evt_4", Kind: payments.EventIgnored}
	assert.NoError(t, svc.HandleWebhook(ctx, []byte(`{}`), "sig"))
}

func TestPaymentWebhookBadSignature(t *testing.T) {
	env := newTestEnv(t)
	gateway := &stubGateway{parseErr: fmt.Errorf("verify: %w", payments.ErrInvalidSignature)}
	svc := NewPaymentService(gateway, env.users, nil, zap.NewNop())

	err := svc.HandleWebhook(context.Background(), []byte(`{}`), "bad")
	require.Error(t, err)
	assert.Equal(t, 400, GetServiceError(err).GetStatusCode())
}
