package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/env"
)

const defaultGatewayBaseURL = "https://api.razorpay.com/v1"

// Client talks to the payment gateway's order API using basic auth with the
// key id/secret pair.
type Client struct {
	KeyID     string
	KeySecret string
	BaseURL   string

	HTTPClient *http.Client
}

// GatewayOrder is the gateway-side order created before the hosted checkout
// opens. Its ID is echoed back in the completion callback.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

func NewClientFromEnv() *Client {
	return &Client{
		KeyID:     strings.TrimSpace(env.GetEnv("PAYMENT_KEY_ID", "")),
		KeySecret: strings.TrimSpace(env.GetEnv("PAYMENT_KEY_SECRET", "")),
		BaseURL:   strings.TrimRight(env.GetEnv("PAYMENT_API_BASE_URL", defaultGatewayBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateOrder registers an order with the gateway for the given tier. The
// receipt ties the gateway order back to our user.
func (c *Client) CreateOrder(ctx context.Context, tier, receipt string) (*GatewayOrder, error) {
	if strings.TrimSpace(c.KeyID) == "" || strings.TrimSpace(c.KeySecret) == "" {
		return nil, errors.New("PAYMENT_KEY_ID/PAYMENT_KEY_SECRET are not configured")
	}
	amount := AmountForTier(tier)
	if amount == 0 {
		return nil, fmt.Errorf("tier %q is not purchasable", tier)
	}

	body, err := json.Marshal(map[string]any{
		"amount":   amount,
		"currency": Currency,
		"receipt":  receipt,
		"notes": map[string]string{
			"tier": NormalizeTier(tier),
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.KeyID, c.KeySecret)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway order request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gateway order request returned %d: %s", resp.StatusCode, truncate(string(payload), 256))
	}

	var order GatewayOrder
	if err := json.Unmarshal(payload, &order); err != nil {
		return nil, fmt.Errorf("invalid gateway order response: %w", err)
	}
	if order.ID == "" {
		return nil, errors.New("gateway order response missing id")
	}
	return &order, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
