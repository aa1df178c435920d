package controllers

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Rothin8/smart-study-ai-solution/app/models"
	"github.com/Rothin8/smart-study-ai-solution/app/repository"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/env"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/payment"
)

type webhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Amount  int64  `json:"amount"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandlePaymentWebhook receives gateway event deliveries. Every delivery is
// stored exactly once keyed on the provider event id, so redeliveries are
// acknowledged without side effects. Subscriptions are only ever activated
// through the signed checkout callback; the webhook trail exists for audit
// and support.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get("X-Webhook-Signature"))
	eventID := firstHeaderValue(c, "X-Webhook-Event-Id", "X-Webhook-Delivery")
	secret := env.GetEnv("PAYMENT_WEBHOOK_SECRET", "")

	var parsed webhookPayload
	_ = json.Unmarshal(rawBody, &parsed)

	if eventID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing_event_id"})
	}

	repos := repository.GetGlobalRepositories()
	signatureValid := payment.VerifyWebhookSignature(rawBody, signature, secret)

	event := &models.PaymentWebhookEvent{
		ProviderEventID: eventID,
		EventType:       parsed.Event,
		PayloadJSON:     string(rawBody),
		SignatureValid:  signatureValid,
	}
	created, err := repos.Webhook.Record(event)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_persist_failed"})
	}
	if !created {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "duplicate": true})
	}
	if !signatureValid {
		_ = repos.Webhook.MarkProcessed(event.ID, errors.New("invalid webhook signature"))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_signature"})
	}
	if !isPaymentEvent(parsed.Event) {
		_ = repos.Webhook.MarkProcessed(event.ID, nil)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "ignored": true})
	}

	orderID := parsed.Payload.Payment.Entity.OrderID
	if orderID == "" {
		_ = repos.Webhook.MarkProcessed(event.ID, errors.New("payment event without order id"))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	if _, err := repos.Order.GetByOrderID(orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The checkout callback has not landed yet, or never will; the
			// stored event lets support reconcile manually.
			_ = repos.Webhook.MarkProcessed(event.ID, errors.New("no local order for gateway order"))
			return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "ignored": true})
		}
		_ = repos.Webhook.MarkProcessed(event.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "order_lookup_failed"})
	}

	_ = repos.Webhook.MarkProcessed(event.ID, nil)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

func isPaymentEvent(eventType string) bool {
	switch strings.ToLower(strings.TrimSpace(eventType)) {
	case "payment.captured", "payment.failed", "order.paid":
		return true
	default:
		return false
	}
}

func firstHeaderValue(c *fiber.Ctx, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(c.Get(name)); v != "" {
			return v
		}
	}
	return ""
}
