package otp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/env"
)

// Sender delivers a login code to a phone number.
type Sender interface {
	Send(ctx context.Context, phone, code string) error
}

// NewSenderFromEnv returns the HTTP SMS sender when an SMS API is
// configured, otherwise a sender that logs codes to the console so the flow
// stays usable in development.
func NewSenderFromEnv() Sender {
	apiURL := strings.TrimSpace(env.GetEnv("SMS_API_URL", ""))
	if apiURL == "" {
		return consoleSender{}
	}
	return &httpSender{
		apiURL: apiURL,
		apiKey: strings.TrimSpace(env.GetEnv("SMS_API_KEY", "")),
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type consoleSender struct{}

func (consoleSender) Send(_ context.Context, phone, code string) error {
	log.Printf("[otp] login code for %s: %s", phone, code)
	return nil
}

type httpSender struct {
	apiURL string
	apiKey string
	client *http.Client
}

func (s *httpSender) Send(ctx context.Context, phone, code string) error {
	body, err := json.Marshal(map[string]string{
		"to":      phone,
		"message": fmt.Sprintf("Your Smart Study login code is %s. It expires in 5 minutes.", code),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms provider returned %d", resp.StatusCode)
	}
	return nil
}
