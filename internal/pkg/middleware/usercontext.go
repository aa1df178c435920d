package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Rothin8/smart-study-ai-solution/app/models"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/roles"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/session"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/subscription"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/usercontext"
)

// tierCacheTTL caps how long a resolved tier is trusted without going back
// to the subscription store. Cancellations and back-office tier grants from
// other sessions become visible within this window.
const tierCacheTTL = 5 * time.Minute

var (
	roleResolver *roles.Resolver
	subService   *subscription.Service
	sessions     sessionState = redisSessionState{}
	timeNow                   = time.Now
)

// Setup injects the services the user context middleware resolves against.
// Must be called once during application startup.
func Setup(r *roles.Resolver, s *subscription.Service) {
	roleResolver = r
	subService = s
}

// sessionState is the narrow session surface the user context middleware
// touches. The production implementation sits on the Redis session store.
type sessionState interface {
	// Identity returns the logged-in user id and name. ok is false for
	// anonymous sessions and for session store failures.
	Identity(c *fiber.Ctx) (uid uint, username string, ok bool)
	// TierCache returns the cached tier and the instant it stops being
	// trustworthy. ok is false when nothing usable is cached.
	TierCache(c *fiber.Ctx) (tier string, until time.Time, ok bool)
	CacheTier(c *fiber.Ctx, tier string, until time.Time)
	DropTier(c *fiber.Ctx)
}

// UserContextMiddleware sets up the complete user context for every request.
// This centralizes user session handling and eliminates code duplication.
func UserContextMiddleware(c *fiber.Ctx) error {
	// Avoid interfering with Goth/Fiber session handling on OAuth routes.
	// Goth uses its own fiber session store and relies on per-request locals.
	// We skip our app session on /auth/* to prevent cross-store collisions.
	if strings.HasPrefix(c.Path(), "/auth/") {
		return c.Next()
	}

	uid, username, ok := sessions.Identity(c)
	if !ok {
		setAnonymous(c)
		return c.Next()
	}

	isAdmin := false
	if roleResolver != nil {
		isAdmin = roleResolver.Resolve(uid)
	}

	tier := resolveTier(c, uid)

	userCtx := usercontext.UserContext{
		UserID:       uid,
		Username:     username,
		IsLoggedIn:   true,
		IsAdmin:      isAdmin,
		Tier:         tier,
		IsSubscribed: tier != models.TierNone,
	}
	c.Locals("USER_CONTEXT", userCtx)

	// Legacy compatibility locals used by templates and older handlers.
	c.Locals(usercontext.KeyFromProtected, true)
	c.Locals(usercontext.KeyUsername, username)
	c.Locals(usercontext.KeyUserID, uid)
	c.Locals(usercontext.KeyIsAdmin, isAdmin)

	return c.Next()
}

// resolveTier serves the session-cached tier while it is still fresh and
// inside the subscription's own lifetime, otherwise re-resolves against the
// store. The cache entry never outlives the subscription end date, so an
// expiry mid-session downgrades on the next request past the boundary.
func resolveTier(c *fiber.Ctx, uid uint) string {
	now := timeNow()

	if tier, until, ok := sessions.TierCache(c); ok && until.After(now) {
		return tier
	}

	tier := models.TierNone
	until := now.Add(tierCacheTTL)
	if subService != nil {
		if status, err := subService.Resolve(c.Context(), uid); err == nil {
			tier = status.Tier
			if status.ExpiresAt != nil && status.ExpiresAt.Before(until) {
				until = *status.ExpiresAt
			}
		}
	}
	if until.After(now) {
		sessions.CacheTier(c, tier, until)
	}
	return tier
}

func setAnonymous(c *fiber.Ctx) {
	c.Locals("USER_CONTEXT", usercontext.UserContext{
		IsLoggedIn: false,
		IsAdmin:    false,
		Tier:       models.TierNone,
	})
	c.Locals(usercontext.KeyFromProtected, false)
	c.Locals(usercontext.KeyIsAdmin, false)
}

// InvalidateTierCache drops the session-cached tier so the next request
// re-resolves it. Called after checkout and cancellation.
func InvalidateTierCache(c *fiber.Ctx) {
	sessions.DropTier(c)
}

// redisSessionState reads and writes the Redis-backed per-user session.
type redisSessionState struct{}

func (redisSessionState) Identity(c *fiber.Ctx) (uint, string, bool) {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return 0, "", false
	}

	uid, ok := sess.Get(usercontext.KeyUserID).(uint)
	if !ok || uid == 0 {
		return 0, "", false
	}

	username, _ := sess.Get(usercontext.KeyUsername).(string)
	return uid, username, true
}

func (redisSessionState) TierCache(c *fiber.Ctx) (string, time.Time, bool) {
	tier := session.GetSessionValue(c, usercontext.KeyTier)
	if tier == "" {
		return "", time.Time{}, false
	}

	unix, err := strconv.ParseInt(session.GetSessionValue(c, usercontext.KeyTierUntil), 10, 64)
	if err != nil {
		return "", time.Time{}, false
	}
	return tier, time.Unix(unix, 0), true
}

func (redisSessionState) CacheTier(c *fiber.Ctx, tier string, until time.Time) {
	_ = session.SetSessionValue(c, usercontext.KeyTier, tier)
	_ = session.SetSessionValue(c, usercontext.KeyTierUntil, strconv.FormatInt(until.Unix(), 10))
}

func (redisSessionState) DropTier(c *fiber.Ctx) {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return
	}
	sess.Delete(usercontext.KeyTier)
	sess.Delete(usercontext.KeyTierUntil)
	_ = sess.Save()
}
