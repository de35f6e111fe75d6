package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"studyos/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "whsec_test"

func sign(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestParseWebhookCheckoutCompleted(t *testing.T) {
	payload := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed",
		"data":{"object":{"id":"cs_1","object":"checkout.session","client_reference_id":"42",
		"customer":"cus_9","subscription":"sub_7","metadata":{"userId":"42"}}}}`)

	ev, err := parseWebhook(payload, sign(payload, testSecret), testSecret)
	require.NoError(t, err)
	assert.Equal(t, EventCheckoutCompleted, ev.Kind)
	assert.Equal(t, int64(42), ev.UserID)
	assert.Equal(t, "cus_9", ev.CustomerID)
	assert.Equal(t, "sub_7", ev.SubscriptionID)
}

func TestParseWebhookSubscriptionDeleted(t *testing.T) {
	payload := []byte(`{"id":"evt_2","object":"event","type":"customer.subscription.deleted",
		"data":{"object":{"id":"sub_7","object":"subscription","customer":"cus_9"}}}`)

	ev, err := parseWebhook(payload, sign(payload, testSecret), testSecret)
	require.NoError(t, err)
	assert.Equal(t, EventSubscriptionDeleted, ev.Kind)
	assert.Equal(t, "cus_9", ev.CustomerID)
}

func TestParseWebhookUnknownEventIgnored(t *testing.T) {
	payload := []byte(`{"id":"evt_3","object":"event","type":"invoice.paid","data":{"object":{"id":"in_1"}}}`)

	ev, err := parseWebhook(payload, sign(payload, testSecret), testSecret)
	require.NoError(t, err)
	assert.Equal(t, EventIgnored, ev.Kind)
	assert.Equal(t, "invoice.paid", ev.Type)
}

func TestParseWebhookRejectsBadSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{}}}`)

	_, err := parseWebhook(payload, sign(payload, "whsec_other"), testSecret)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = parseWebhook(payload, "", testSecret)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestNewStripeGatewayRequiresKey(t *testing.T) {
	_, err := NewStripeGateway(config.PaymentsConfig{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrNotConfigured)
}
