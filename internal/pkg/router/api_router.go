package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	apiv1 "github.com/Rothin8/smart-study-ai-solution/internal/api/v1"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/database"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/middleware"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/subscription"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 routes
	v1 := api.Group("/v1")
	apiServer := apiv1.NewAPIServer(subscription.NewServiceFromDB(database.GetDB()))

	v1.Get("/ping", apiServer.GetPing)

	authed := v1.Group("", middleware.RequireAPISessionAuth)
	authed.Get("/me", apiServer.GetMe)
	authed.Get("/subscription", apiServer.GetSubscription)
	authed.Get("/chat/messages", apiServer.GetChatMessages)
	authed.Post("/chat/messages", apiServer.PostChatMessage)
	authed.Delete("/chat/messages/:uuid", apiServer.DeleteChatMessage)
	authed.Get("/chat/export", apiServer.GetChatExport)

	admin := v1.Group("/admin", middleware.RequireAPIAdmin)
	admin.Get("/users", apiServer.GetAdminUsers)
	admin.Get("/analytics", apiServer.GetAdminAnalytics)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
