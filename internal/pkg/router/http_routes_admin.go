package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Rothin8/smart-study-ai-solution/app/controllers"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/middleware"
)

func (h HttpRouter) registerAdminRoutes(app *fiber.App, ac *controllers.AdminController) {
	adminGroup := app.Group("/admin", middleware.RequireAdmin)
	adminGroup.Get("/", ac.HandleDashboard)

	// User management
	adminGroup.Get("/users", ac.HandleUsers)
	adminGroup.Get("/users/:id/edit", ac.HandleUserEdit)
	adminGroup.Post("/users/:id/edit", ac.HandleUserEdit)
	adminGroup.Post("/users/:id/delete", ac.HandleUserDelete)

	// Role management
	adminGroup.Post("/users/:id/role/grant", ac.HandleRoleGrant)
	adminGroup.Post("/users/:id/role/revoke", ac.HandleRoleRevoke)

	// Subscription management
	adminGroup.Post("/users/:id/tier", ac.HandleGrantTier)

	// Orders
	adminGroup.Get("/orders", ac.HandleOrders)
	adminGroup.Get("/orders/export", ac.HandleOrdersExport)

	// Analytics
	adminGroup.Get("/analytics", ac.HandleAnalytics)
}
