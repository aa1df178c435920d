package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/gate"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/usercontext"
)

func gateState(c *fiber.Ctx) gate.State {
	uc := usercontext.GetUserContext(c)
	return gate.State{
		Authenticated: uc.IsLoggedIn,
		Subscribed:    uc.IsSubscribed,
		Admin:         uc.IsAdmin,
	}
}

func enforce(c *fiber.Ctx, class gate.Class) error {
	decision := gate.Decide(class, gateState(c))
	if !decision.Allow {
		return c.Redirect(decision.RedirectTo, fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireAuth ensures a logged-in web session; redirects to /login if missing.
func RequireAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireSubscriber gates the tutoring surface: unauthenticated visitors go
// to /login, authenticated free users to /subscription.
func RequireSubscriber(c *fiber.Ctx) error {
	return enforce(c, gate.ClassSubscriber)
}

// RequireAdmin ensures a logged-in admin; redirects otherwise.
func RequireAdmin(c *fiber.Ctx) error {
	return enforce(c, gate.ClassAdmin)
}

// RequireAPISessionAuth ensures a logged-in session for API routes and returns JSON 401 instead of redirect.
func RequireAPISessionAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	return c.Next()
}

// RequireAPIAdmin returns JSON 403 for non-admin sessions on admin API routes.
func RequireAPIAdmin(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	if !usercontext.IsAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "admin access required",
		})
	}
	return c.Next()
}
