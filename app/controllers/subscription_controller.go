package controllers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sujit-baniya/flash"

	"github.com/Rothin8/smart-study-ai-solution/app/models"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/env"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/middleware"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/payment"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/session"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/statistics"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/subscription"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/usercontext"
)

var (
	subService    *subscription.Service
	paymentClient *payment.Client
)

// SetupSubscriptionControllers wires the services the checkout flow uses.
// Called once at startup.
func SetupSubscriptionControllers(s *subscription.Service, p *payment.Client) {
	subService = s
	paymentClient = p
}

// HandleSubscriptionPage shows the current plan and the available upgrades.
func HandleSubscriptionPage(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	status, err := subService.Resolve(c.Context(), uc.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("failed to load subscription")
	}

	return render(c, "subscription/index", fiber.Map{
		"Title":          "Subscription | Smart Study AI Solution",
		"Status":         status,
		"BasicPrice":     payment.BasicAmountPaise / 100,
		"PremiumPrice":   payment.PremiumAmountPaise / 100,
		"BasicUpgrade":   payment.IsUpgrade(status.Tier, models.TierBasic),
		"PremiumUpgrade": payment.IsUpgrade(status.Tier, models.TierPremium),
	})
}

// HandleCheckoutStart creates the gateway order and renders the hosted
// checkout page for the chosen tier.
func HandleCheckoutStart(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	tier := payment.NormalizeTier(c.FormValue("tier"))

	fm := fiber.Map{
		"type": "error",
	}

	amount := payment.AmountForTier(tier)
	if amount == 0 {
		fm["message"] = "Unknown plan"

		return flash.WithError(c, fm).Redirect("/subscription")
	}

	receipt := fmt.Sprintf("sub_%d_%s", uc.UserID, uuid.New().String()[:8])
	order, err := paymentClient.CreateOrder(c.Context(), tier, receipt)
	if err != nil {
		fm["message"] = "The checkout could not be started. Please try again."

		return flash.WithError(c, fm).Redirect("/subscription")
	}

	// Pin the order to the session. The completion handler activates the
	// tier the gateway order was created for, never a client-posted one.
	if err := session.SetSessionValue(c, CHECKOUT_ORDER, order.ID); err != nil {
		fm["message"] = "The checkout could not be started. Please try again."

		return flash.WithError(c, fm).Redirect("/subscription")
	}
	_ = session.SetSessionValue(c, CHECKOUT_TIER, tier)

	return render(c, "subscription/checkout", fiber.Map{
		"Title":     "Checkout | Smart Study AI Solution",
		"OrderID":   order.ID,
		"Amount":    order.Amount,
		"AmountINR": order.Amount / 100,
		"Currency":  order.Currency,
		"Tier":      tier,
		"KeyID":     env.GetEnv("PAYMENT_KEY_ID", ""),
	})
}

// HandleCheckoutComplete is the gateway redirect target after payment. The
// signature proves the payment belongs to the order; only then is the
// subscription activated.
func HandleCheckoutComplete(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	fm := fiber.Map{
		"type": "error",
	}

	orderID := c.FormValue("gateway_order_id")
	paymentID := c.FormValue("gateway_payment_id")
	signature := c.FormValue("gateway_signature")

	secret := env.GetEnv("PAYMENT_KEY_SECRET", "")
	if !payment.VerifyCheckoutSignature(orderID, paymentID, signature, secret) {
		fm["message"] = "The payment could not be verified"

		return flash.WithError(c, fm).Redirect("/subscription")
	}

	// The tier comes from the pinned checkout, not the form. A signature
	// only ties the payment to the order, not to a plan.
	pinnedOrder := session.GetSessionValue(c, CHECKOUT_ORDER)
	tier := session.GetSessionValue(c, CHECKOUT_TIER)
	if pinnedOrder == "" || pinnedOrder != orderID || payment.AmountForTier(tier) == 0 {
		fm["message"] = "This payment does not match a checkout started here"

		return flash.WithError(c, fm).Redirect("/subscription")
	}

	status, err := subService.Subscribe(c.Context(), uc.UserID, tier, orderID, paymentID, payment.AmountForTier(tier))
	if err != nil {
		if errors.Is(err, subscription.ErrProcessing) {
			fm["message"] = "A payment is already being processed. Please wait a moment."
		} else {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)
		}

		return flash.WithError(c, fm).Redirect("/subscription")
	}

	_ = session.DeleteSessionValue(c, CHECKOUT_ORDER)
	_ = session.DeleteSessionValue(c, CHECKOUT_TIER)

	// The cached tier in the session is stale now.
	middleware.InvalidateTierCache(c)
	statistics.ResetCacheUpdateTimer()

	fm = fiber.Map{
		"type":    "success",
		"message": fmt.Sprintf("You are now on the %s plan. Happy studying!", status.Tier),
	}

	return flash.WithSuccess(c, fm).Redirect("/chat")
}

// HandleSubscriptionCancel turns off the subscription immediately.
func HandleSubscriptionCancel(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	fm := fiber.Map{
		"type": "error",
	}

	if _, err := subService.Cancel(c.Context(), uc.UserID); err != nil {
		if errors.Is(err, subscription.ErrProcessing) {
			fm["message"] = "A payment is being processed. Please try again shortly."
		} else {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)
		}

		return flash.WithError(c, fm).Redirect("/subscription")
	}

	middleware.InvalidateTierCache(c)

	fm = fiber.Map{
		"type":    "success",
		"message": "Your subscription was cancelled.",
	}

	return flash.WithSuccess(c, fm).Redirect("/subscription")
}
