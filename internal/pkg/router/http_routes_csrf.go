package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/Rothin8/smart-study-ai-solution/app/controllers"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/env"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/middleware"
)

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))
	group.Get("/", loggedInMiddleware, controllers.HandleStart)

	// Email/password auth
	group.Get("/login", loggedInMiddleware, controllers.HandleAuthLogin)
	group.Post("/login", loggedInMiddleware, controllers.HandleAuthLogin)
	group.Get("/register", loggedInMiddleware, controllers.HandleAuthRegister)
	group.Post("/register", loggedInMiddleware, controllers.HandleAuthRegister)
	group.Get("/activate", loggedInMiddleware, controllers.HandleAuthActivate)
	group.Get("/forgot-password", loggedInMiddleware, controllers.HandleForgotPassword)
	group.Post("/forgot-password", loggedInMiddleware, controllers.HandleForgotPassword)
	group.Get("/reset-password", loggedInMiddleware, controllers.HandleResetPassword)
	group.Post("/reset-password", loggedInMiddleware, controllers.HandleResetPassword)

	// Phone OTP auth
	group.Get("/login/phone", loggedInMiddleware, controllers.HandleOTPRequest)
	group.Post("/login/phone", loggedInMiddleware, controllers.HandleOTPRequest)
	group.Get("/login/phone/verify", loggedInMiddleware, controllers.HandleOTPVerify)
	group.Post("/login/phone/verify", loggedInMiddleware, controllers.HandleOTPVerify)

	// Profile
	group.Get("/user/profile", middleware.RequireAuth, controllers.HandleUserProfile)
	group.Post("/user/profile", middleware.RequireAuth, controllers.HandleUserProfileUpdate)
	group.Post("/user/profile/avatar", middleware.RequireAuth, controllers.HandleUserAvatarUpload)

	// Subscription and checkout
	group.Get("/subscription", middleware.RequireAuth, controllers.HandleSubscriptionPage)
	group.Post("/subscription/checkout", middleware.RequireAuth, controllers.HandleCheckoutStart)
	group.Post("/subscription/complete", middleware.RequireAuth, controllers.HandleCheckoutComplete)
	group.Post("/subscription/cancel", middleware.RequireAuth, controllers.HandleSubscriptionCancel)

	// Tutoring chat, subscribers only
	group.Get("/chat", middleware.RequireSubscriber, controllers.HandleChat)
	group.Post("/chat", middleware.RequireSubscriber, controllers.HandleChatMessage)
	group.Post("/chat/settings", middleware.RequireSubscriber, controllers.HandleChatSettings)
	group.Post("/chat/clear", middleware.RequireSubscriber, controllers.HandleChatClear)
}
