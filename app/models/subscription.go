package models

import "time"

const (
	TierNone    = "none"
	TierBasic   = "basic"
	TierPremium = "premium"
)

// Subscription holds the single subscription row per user. Purchases and
// legacy admin grants both go through an idempotent upsert keyed on user_id.
//
// The stored is_active flag may lag reality: a row whose EndDate has passed
// must resolve to tier "none" regardless of the flag. Staleness is corrected
// lazily on read, never by a background sweep.
type Subscription struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	Tier      string     `gorm:"type:varchar(20);not null;default:'none'" json:"tier"`
	EndDate   *time.Time `gorm:"type:timestamp;default:null" json:"end_date"`
	IsActive  bool       `gorm:"default:false;index" json:"is_active"`
	AutoRenew bool       `gorm:"default:false" json:"auto_renew"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsExpired reports whether the row has run out at the given instant. A row
// with no end date never grants access.
func (s *Subscription) IsExpired(now time.Time) bool {
	return s.EndDate == nil || !s.EndDate.After(now)
}

// ValidTier reports whether t is a purchasable tier.
func ValidTier(t string) bool {
	return t == TierBasic || t == TierPremium
}
