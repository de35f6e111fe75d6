package payments

import (
	"io"
	"net/http"

	"studyos/internal/response"
	"studyos/internal/services"
	"studyos/internal/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	signatureHeader = "Stripe-Signature"
	maxWebhookBytes = 64 << 10
)

// PaymentController handles subscription checkout and provider webhooks
type PaymentController struct {
	service         services.PaymentService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewPaymentController creates a new payment controller
func NewPaymentController(service services.PaymentService, logger *zap.Logger, responseBuilder *response.Builder) *PaymentController {
	return &PaymentController{service: service, logger: logger, responseBuilder: responseBuilder}
}

// RegisterRoutes registers the signed webhook publicly and the rest behind auth
func (c *PaymentController) RegisterRoutes(public, protected *mux.Router) {
	public.HandleFunc("/payments/webhook", c.Webhook).Methods(http.MethodPost)

	protected.HandleFunc("/payments/checkout", c.Checkout).Methods(http.MethodPost)
	protected.HandleFunc("/payments/status", c.Status).Methods(http.MethodGet)
}

// Checkout handles POST /api/payments/checkout
func (c *PaymentController) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	checkout, err := c.service.CreateCheckout(r.Context(), userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, checkout)
}

// Status handles GET /api/payments/status
func (c *PaymentController) Status(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	status, err := c.service.Status(r.Context(), userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, status)
}

// Webhook handles POST /api/payments/webhook. The signature covers the raw
// bytes, so the body is read as-is rather than decoded.
func (c *PaymentController) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("Webhook Error: unreadable body", err))
		return
	}

	if err := c.service.HandleWebhook(r.Context(), payload, r.Header.Get(signatureHeader)); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, map[string]bool{"received": true})
}
