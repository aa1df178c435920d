// Package gate decides whether a route is reachable for the current request
// state. Decisions are pure; callers apply the redirect.
package gate

// Class describes how strongly a route is protected.
type Class int

const (
	ClassPublic Class = iota
	ClassSubscriber
	ClassAdmin
)

// State is the per-request access state, as resolved by the middleware.
type State struct {
	Authenticated bool
	Subscribed    bool
	Admin         bool
}

// Decision is the outcome of a gate check. RedirectTo is only set when
// Allow is false.
type Decision struct {
	Allow      bool
	RedirectTo string
}

const (
	redirectHome         = "/"
	redirectLogin        = "/login"
	redirectSubscription = "/subscription"
)

// Decide applies the gate rules in priority order. Admin routes redirect to
// home rather than login so their existence is not leaked to outsiders.
func Decide(route Class, s State) Decision {
	switch route {
	case ClassAdmin:
		if s.Authenticated && s.Admin {
			return Decision{Allow: true}
		}
		return Decision{RedirectTo: redirectHome}
	case ClassSubscriber:
		if !s.Authenticated {
			return Decision{RedirectTo: redirectLogin}
		}
		if !s.Subscribed {
			return Decision{RedirectTo: redirectSubscription}
		}
		return Decision{Allow: true}
	default:
		return Decision{Allow: true}
	}
}
