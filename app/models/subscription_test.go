package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionIsExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	assert.False(t, (&Subscription{EndDate: &future}).IsExpired(now))
	assert.True(t, (&Subscription{EndDate: &past}).IsExpired(now))
	assert.True(t, (&Subscription{EndDate: nil}).IsExpired(now), "missing end date counts as expired")
	assert.True(t, (&Subscription{EndDate: &now}).IsExpired(now), "the boundary instant is already expired")
}

func TestValidTier(t *testing.T) {
	assert.True(t, ValidTier(TierBasic))
	assert.True(t, ValidTier(TierPremium))
	assert.False(t, ValidTier(TierNone), "none cannot be purchased")
	assert.False(t, ValidTier("gold"))
	assert.False(t, ValidTier(""))
}
