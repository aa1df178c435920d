package subscription

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/cache"
)

// LegacyCache is the keyed {tier, expiry} snapshot kept outside the primary
// store. It is consulted only when the store has no active row for the
// identity, and entries are invalidated once their expiry passes.
type LegacyCache interface {
	Get(userID uint) (*LegacyEntry, error)
	Delete(userID uint) error
}

const legacyKeyFormat = "subscription:legacy:%d"

type redisLegacyCache struct{}

// NewLegacyCache returns the Redis-backed legacy fallback cache.
func NewLegacyCache() LegacyCache {
	return &redisLegacyCache{}
}

func (redisLegacyCache) Get(userID uint) (*LegacyEntry, error) {
	raw, err := cache.Get(fmt.Sprintf(legacyKeyFormat, userID))
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entry LegacyEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		// Unparseable blobs are treated as absent rather than fatal.
		return nil, nil
	}
	return &entry, nil
}

func (redisLegacyCache) Delete(userID uint) error {
	return cache.Delete(fmt.Sprintf(legacyKeyFormat, userID))
}

// Locker serializes subscribe/cancel for one user. The lock is advisory:
// it rejects the second mutation instead of queueing it.
type Locker interface {
	Acquire(userID uint) (bool, error)
	Release(userID uint)
}

const (
	lockKeyFormat = "subscription:processing:%d"
	lockTTL       = 30 * time.Second
)

type redisLocker struct{}

// NewLocker returns the Redis-backed advisory processing lock.
func NewLocker() Locker {
	return &redisLocker{}
}

func (redisLocker) Acquire(userID uint) (bool, error) {
	return cache.SetNX(fmt.Sprintf(lockKeyFormat, userID), "1", lockTTL)
}

func (redisLocker) Release(userID uint) {
	_ = cache.Delete(fmt.Sprintf(lockKeyFormat, userID))
}
