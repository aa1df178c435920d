package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/chat"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/payment"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/statistics"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/usercontext"
)

// HandleStart renders the landing page. Logged-in subscribers are pointed at
// the chat, everyone else at the pricing section.
func HandleStart(c *fiber.Ctx) error {
	statistics.UpdateCacheIfNeeded()

	return render(c, "index", fiber.Map{
		"Title":             "Smart Study AI Solution",
		"TotalUsers":        statistics.GetTotalUsers(),
		"ActiveSubscribers": statistics.GetActiveSubscribers(),
		"BasicPrice":        payment.BasicAmountPaise / 100,
		"PremiumPrice":      payment.PremiumAmountPaise / 100,
	})
}

// HandlePricing renders the plans overview.
func HandlePricing(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	return render(c, "pricing", fiber.Map{
		"Title":        "Plans | Smart Study AI Solution",
		"BasicPrice":   payment.BasicAmountPaise / 100,
		"PremiumPrice": payment.PremiumAmountPaise / 100,
		"CurrentTier":  uc.Tier,
	})
}

// HandleAbout renders the static about page with the supported classes and
// boards.
func HandleAbout(c *fiber.Ctx) error {
	return render(c, "about", fiber.Map{
		"Title":           "About | Smart Study AI Solution",
		"SecondaryBoards": chat.BoardsForClass(10),
		"SeniorBoards":    chat.BoardsForClass(12),
	})
}

// HandleContact renders the static contact page.
func HandleContact(c *fiber.Ctx) error {
	return render(c, "contact", fiber.Map{
		"Title":        "Contact | Smart Study AI Solution",
		"SupportMail":  "support@smartstudyai.example",
		"SupportPhone": "+91 98765 43210",
	})
}
