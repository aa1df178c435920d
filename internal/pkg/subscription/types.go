package subscription

import (
	"errors"
	"strings"
	"time"

	"github.com/Rothin8/smart-study-ai-solution/app/models"
)

// Status is the effective subscription state for one identity, as confirmed
// by the store (never an optimistic local guess).
type Status struct {
	Tier      string
	ExpiresAt *time.Time
}

// None is the terminal status for anonymous or unsubscribed identities.
func None() Status {
	return Status{Tier: models.TierNone}
}

// Active reports whether the status grants access to subscriber content.
func (s Status) Active() bool {
	return s.Tier != models.TierNone && s.Tier != ""
}

// LegacyEntry is the pre-migration fallback cache blob kept outside the
// primary store for identities that transacted before it became
// authoritative.
type LegacyEntry struct {
	Tier      string    `json:"tier"`
	Expiry    time.Time `json:"expiry"`
	PaymentID string    `json:"payment_id,omitempty"`
	OrderID   string    `json:"order_id,omitempty"`
}

var (
	// ErrProcessing means a subscribe/cancel for the same user is already
	// in flight; the caller should surface a retry hint, not queue.
	ErrProcessing = errors.New("subscription change already in progress")

	// ErrInvalidTier rejects tiers outside basic/premium.
	ErrInvalidTier = errors.New("invalid subscription tier")
)

func normalizeTier(tier string) string {
	switch strings.ToLower(strings.TrimSpace(tier)) {
	case models.TierBasic:
		return models.TierBasic
	case models.TierPremium:
		return models.TierPremium
	default:
		return models.TierNone
	}
}
