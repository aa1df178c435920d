package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Rothin8/smart-study-ai-solution/app/controllers"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/middleware"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Static pages
	app.Get("/about", loggedInMiddleware, controllers.HandleAbout)
	app.Get("/pricing", loggedInMiddleware, controllers.HandlePricing)
	app.Get("/contact", loggedInMiddleware, controllers.HandleContact)

	// Auth
	app.Post("/logout", middleware.RequireAuth, controllers.HandleAuthLogout)

	// Social OAuth
	app.Get("/auth/:provider", controllers.HandleOAuthBegin)
	app.Get("/auth/:provider/callback", controllers.HandleOAuthCallback)

	// Chat transcript download (no CSRF needed, GET only)
	app.Get("/chat/export", middleware.RequireSubscriber, controllers.HandleChatExport)

	// Gateway webhooks authenticate with their own body signature
	app.Post("/webhooks/payment", controllers.HandlePaymentWebhook)
}
