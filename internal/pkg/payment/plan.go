package payment

import (
	"strings"

	"github.com/Rothin8/smart-study-ai-solution/app/models"
)

// Plan prices are kept in paise, the smallest INR unit the gateway accepts.
const (
	BasicAmountPaise   int64 = 120000
	PremiumAmountPaise int64 = 150000

	Currency = "INR"
)

// NormalizeTier maps free-form input to a canonical tier name, with none
// for anything unknown.
func NormalizeTier(tier string) string {
	switch strings.ToLower(strings.TrimSpace(tier)) {
	case models.TierBasic:
		return models.TierBasic
	case models.TierPremium:
		return models.TierPremium
	default:
		return models.TierNone
	}
}

// AmountForTier returns the checkout amount in paise, or 0 for a tier that
// cannot be purchased.
func AmountForTier(tier string) int64 {
	switch NormalizeTier(tier) {
	case models.TierBasic:
		return BasicAmountPaise
	case models.TierPremium:
		return PremiumAmountPaise
	default:
		return 0
	}
}

func tierRank(tier string) int {
	switch NormalizeTier(tier) {
	case models.TierPremium:
		return 2
	case models.TierBasic:
		return 1
	default:
		return 0
	}
}

// IsUpgrade reports whether moving from the current tier to the target tier
// grants more access.
func IsUpgrade(current, target string) bool {
	return tierRank(target) > tierRank(current)
}
