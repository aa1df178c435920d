// Package roles resolves whether an identity carries administrative
// privilege. Privilege is never granted on uncertainty: any lookup error
// resolves to non-admin.
package roles

import "log"

// AdminChecker is the privileged lookup against the admin_users table.
type AdminChecker interface {
	IsAdmin(userID uint) (bool, error)
}

// Resolver answers admin checks for the middleware.
type Resolver struct {
	repo AdminChecker
}

func NewResolver(repo AdminChecker) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve returns the admin flag for userID. A zero id resolves to false
// immediately without touching the repository. Errors degrade to false and
// are logged; there are no retries until the next identity change.
func (r *Resolver) Resolve(userID uint) bool {
	if userID == 0 {
		return false
	}

	isAdmin, err := r.repo.IsAdmin(userID)
	if err != nil {
		log.Printf("admin check failed for user %d: %v", userID, err)
		return false
	}
	return isAdmin
}
