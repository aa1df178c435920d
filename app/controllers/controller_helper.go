package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/usercontext"
)

// Session keys shared with the middleware layer.
const (
	AUTH_KEY  string = "authenticated"
	USER_ID   string = "user_id"
	USER_NAME string = "username"

	FROM_PROTECTED string = "from_protected"

	CHECKOUT_ORDER string = "checkout_order_id"
	CHECKOUT_TIER  string = "checkout_tier"
)

// render wraps c.Render with the values every page needs: the user context
// and any pending flash message.
func render(c *fiber.Ctx, view string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["User"] = usercontext.GetUserContext(c)
	data["Flash"] = flash.Get(c)
	if token := c.Locals("csrf"); token != nil {
		data["CSRFToken"] = token
	}
	return c.Render(view, data)
}
