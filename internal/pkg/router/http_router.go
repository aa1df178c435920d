package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Rothin8/smart-study-ai-solution/app/controllers"
	"github.com/Rothin8/smart-study-ai-solution/app/repository"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/database"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/middleware"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/oauth"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/otp"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/payment"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/roles"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/session"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/storage"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/subscription"
)

// Router installs a set of routes on the fiber app.
type Router interface {
	InstallRouter(app *fiber.App)
}

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// init oauth providers
	oauth.Setup()

	db := database.GetDB()
	repository.InitializeFactory(db)
	repos := repository.GetGlobalRepositories()

	subService := subscription.NewServiceFromDB(db)
	roleResolver := roles.NewResolver(repos.Admin)

	// Apply UserContext middleware globally as first middleware
	middleware.Setup(roleResolver, subService)
	app.Use(middleware.UserContextMiddleware)

	// Wire controller dependencies
	controllers.SetOTPSender(otp.NewSenderFromEnv())
	controllers.SetupSubscriptionControllers(subService, payment.NewClientFromEnv())
	controllers.SetProfileSubscriptionService(subService)

	if cfg, err := storage.LoadConfig(); err == nil && cfg.IsEnabled() {
		if store, serr := storage.NewAvatarStore(cfg); serr == nil {
			controllers.SetAvatarStore(store)
		}
	}

	adminController := controllers.NewAdminController(repos, subService)

	h.registerPublicRoutes(app)
	h.registerAdminRoutes(app, adminController)
	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func loggedInMiddleware(c *fiber.Ctx) error {
	// UserContextMiddleware already set all user context; nothing extra to do.
	return c.Next()
}
