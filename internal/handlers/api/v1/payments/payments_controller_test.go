package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"studyos/internal/handlers/api/v1/apitest"
	"studyos/internal/models"
	"studyos/internal/response"
	"studyos/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePaymentService struct {
	services.PaymentService

	payload   string
	signature string
	tier      models.SubscriptionTier
}

func (f *fakePaymentService) CreateCheckout(ctx context.Context, userID int64) (*services.CheckoutResponse, error) {
	if f.tier == models.TierPro {
		return nil, services.NewConflictError("already subscribed", "ALREADY_PRO")
	}
	return &services.CheckoutResponse{URL: "https://checkout.example/session"}, nil
}

func (f *fakePaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if signature != "t=1,v1=good" {
		return services.NewValidationError("Webhook Error: invalid signature", nil)
	}
	f.payload = string(payload)
	f.signature = signature
	f.tier = models.TierPro
	return nil
}

func (f *fakePaymentService) Status(ctx context.Context, userID int64) (*services.SubscriptionStatus, error) {
	return &services.SubscriptionStatus{Tier: f.tier}, nil
}

func newServer(svc *fakePaymentService) *apitest.Server {
	srv := apitest.NewServer(1)
	NewPaymentController(svc, zap.NewNop(), response.NewBuilder(nil, nil)).RegisterRoutes(srv.Public, srv.Protected)
	return srv
}

func webhook(srv *apitest.Server, body, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", signature)
	return srv.Serve(req)
}

func TestWebhookPassesRawBody(t *testing.T) {
	svc := &fakePaymentService{tier: models.TierFree}
	srv := newServer(svc)

	body := `{"id":"evt_1", "type":"checkout.session.completed"}`
	rec := webhook(srv, body, "t=1,v1=good")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, body, svc.payload)

	rec = srv.Do(t, http.MethodGet, "/api/payments/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status services.SubscriptionStatus
	apitest.Decode(t, rec, &status)
	assert.Equal(t, models.TierPro, status.Tier)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	rec := webhook(newServer(&fakePaymentService{}), `{}`, "t=1,v1=forged")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckout(t *testing.T) {
	svc := &fakePaymentService{tier: models.TierFree}
	srv := newServer(svc)

	rec := srv.Do(t, http.MethodPost, "/api/payments/checkout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var checkout services.CheckoutResponse
	apitest.Decode(t, rec, &checkout)
	assert.Equal(t, "https://checkout.example/session", checkout.URL)

	svc.tier = models.TierPro
	rec = srv.Do(t, http.MethodPost, "/api/payments/checkout", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
