package usercontext

// Shared Locals/session keys used across controllers and middlewares
const (
	AuthKey          = "authenticated"
	KeyUserID        = "user_id"
	KeyUsername      = "username"
	KeyIsAdmin       = "isAdmin"
	KeyTier          = "user_tier"
	KeyTierUntil     = "user_tier_until"
	KeyFromProtected = "from_protected"
)
