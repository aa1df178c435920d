package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rothin8/smart-study-ai-solution/app/models"
)

func signCheckout(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyCheckoutSignature(t *testing.T) {
	secret := "test_secret"
	sig := signCheckout("order_1", "pay_1", secret)

	assert.True(t, VerifyCheckoutSignature("order_1", "pay_1", sig, secret))
	assert.True(t, VerifyCheckoutSignature("order_1", "pay_1", " "+sig+" ", secret), "surrounding whitespace is tolerated")

	assert.False(t, VerifyCheckoutSignature("order_1", "pay_2", sig, secret))
	assert.False(t, VerifyCheckoutSignature("order_1", "pay_1", sig, "other_secret"))
	assert.False(t, VerifyCheckoutSignature("order_1", "pay_1", "not-hex", secret))
	assert.False(t, VerifyCheckoutSignature("", "pay_1", sig, secret))
	assert.False(t, VerifyCheckoutSignature("order_1", "pay_1", "", secret))
	assert.False(t, VerifyCheckoutSignature("order_1", "pay_1", sig, ""))
}

func TestVerifyWebhookSignature(t *testing.T) {
	secret := "webhook_secret"
	body := []byte(`{"event":"payment.captured","payload":{}}`)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	sig := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, VerifyWebhookSignature(body, sig, secret))
	assert.True(t, VerifyWebhookSignature(body, " "+sig+" ", secret))

	assert.False(t, VerifyWebhookSignature([]byte(`{"event":"tampered"}`), sig, secret))
	assert.False(t, VerifyWebhookSignature(body, sig, "other_secret"))
	assert.False(t, VerifyWebhookSignature(body, "not-hex", secret))
	assert.False(t, VerifyWebhookSignature(nil, sig, secret))
	assert.False(t, VerifyWebhookSignature(body, "", secret))
	assert.False(t, VerifyWebhookSignature(body, sig, ""))
}

func TestAmountForTier(t *testing.T) {
	assert.Equal(t, int64(120000), AmountForTier(models.TierBasic))
	assert.Equal(t, int64(150000), AmountForTier(models.TierPremium))
	assert.Equal(t, int64(150000), AmountForTier("  Premium "))
	assert.Equal(t, int64(0), AmountForTier(models.TierNone))
	assert.Equal(t, int64(0), AmountForTier("gold"))
}

func TestIsUpgrade(t *testing.T) {
	assert.True(t, IsUpgrade(models.TierNone, models.TierBasic))
	assert.True(t, IsUpgrade(models.TierBasic, models.TierPremium))
	assert.False(t, IsUpgrade(models.TierPremium, models.TierBasic))
	assert.False(t, IsUpgrade(models.TierBasic, models.TierBasic))
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key_id", user)
		assert.Equal(t, "key_secret", pass)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(120000), body["amount"])
		assert.Equal(t, "INR", body["currency"])
		assert.Equal(t, "rcpt_7", body["receipt"])

		json.NewEncoder(w).Encode(GatewayOrder{
			ID:       "order_srv",
			Amount:   120000,
			Currency: "INR",
			Receipt:  "rcpt_7",
			Status:   "created",
		})
	}))
	defer srv.Close()

	c := &Client{KeyID: "key_id", KeySecret: "key_secret", BaseURL: srv.URL, HTTPClient: srv.Client()}

	order, err := c.CreateOrder(context.Background(), models.TierBasic, "rcpt_7")
	require.NoError(t, err)
	assert.Equal(t, "order_srv", order.ID)
	assert.Equal(t, int64(120000), order.Amount)
}

func TestCreateOrderRejectsUnpurchasableTier(t *testing.T) {
	c := &Client{KeyID: "k", KeySecret: "s", BaseURL: "http://localhost"}

	_, err := c.CreateOrder(context.Background(), models.TierNone, "rcpt")
	assert.Error(t, err)
}

func TestCreateOrderSurfacesGatewayErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"description":"amount too small"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := &Client{KeyID: "k", KeySecret: "s", BaseURL: srv.URL, HTTPClient: srv.Client()}

	_, err := c.CreateOrder(context.Background(), models.TierBasic, "rcpt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
