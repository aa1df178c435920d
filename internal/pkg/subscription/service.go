package subscription

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/Rothin8/smart-study-ai-solution/app/models"
)

// Service reconciles subscription state between the primary store and the
// legacy fallback cache, and applies purchase/cancellation mutations.
type Service struct {
	repo   Repository
	legacy LegacyCache
	locker Locker
	now    func() time.Time
}

// NewService creates a subscription service from injected dependencies.
func NewService(repo Repository, legacy LegacyCache, locker Locker) *Service {
	return &Service{repo: repo, legacy: legacy, locker: locker, now: time.Now}
}

// NewServiceFromDB creates a subscription service from a GORM DB handle with
// the Redis-backed legacy cache and processing lock.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db), NewLegacyCache(), NewLocker())
}

// Resolve computes the effective subscription status for userID.
//
// A stored row whose end date has passed never yields its tier: it is
// deactivated with a single correction write (errors logged, not surfaced)
// and treated as absent. The legacy cache is consulted only when no row
// exists and is itself dropped once expired.
func (s *Service) Resolve(ctx context.Context, userID uint) (Status, error) {
	_ = ctx
	if userID == 0 {
		return None(), nil
	}

	now := s.now()

	sub, err := s.repo.GetActiveByUserID(userID)
	switch {
	case err == nil:
		if !sub.IsExpired(now) {
			return Status{Tier: normalizeTier(sub.Tier), ExpiresAt: sub.EndDate}, nil
		}
		// Lazy correction; resolution does not depend on its success.
		if derr := s.repo.Deactivate(userID); derr != nil {
			log.Printf("failed to deactivate expired subscription for user %d: %v", userID, derr)
		}
	case errors.Is(err, ErrNotFound):
		// fall through to the legacy cache
	default:
		return None(), err
	}

	return s.resolveLegacy(userID, now), nil
}

func (s *Service) resolveLegacy(userID uint, now time.Time) Status {
	entry, err := s.legacy.Get(userID)
	if err != nil {
		log.Printf("legacy subscription lookup failed for user %d: %v", userID, err)
		return None()
	}
	if entry == nil {
		return None()
	}
	if !entry.Expiry.After(now) {
		if derr := s.legacy.Delete(userID); derr != nil {
			log.Printf("failed to drop stale legacy subscription for user %d: %v", userID, derr)
		}
		return None()
	}
	if tier := normalizeTier(entry.Tier); tier != models.TierNone {
		expiry := entry.Expiry
		return Status{Tier: tier, ExpiresAt: &expiry}
	}
	return None()
}

// Subscribe records a completed checkout: the order row and the subscription
// upsert are persisted in one transaction, then the status is re-resolved
// from the store so callers see server-confirmed state instead of the
// optimistic local write.
func (s *Service) Subscribe(ctx context.Context, userID uint, tier, orderRef, paymentID string, amount int64) (Status, error) {
	if userID == 0 {
		return None(), errors.New("user_id is required")
	}
	if !models.ValidTier(tier) {
		return None(), ErrInvalidTier
	}

	ok, err := s.locker.Acquire(userID)
	if err != nil {
		return None(), err
	}
	if !ok {
		return None(), ErrProcessing
	}
	defer s.locker.Release(userID)

	endDate := s.now().AddDate(1, 0, 0)
	order := &models.Order{
		OrderID:   orderRef,
		PaymentID: paymentID,
		UserID:    userID,
		Amount:    amount,
		Currency:  "INR",
		Tier:      tier,
		Status:    models.OrderStatusCompleted,
	}
	sub := &models.Subscription{
		UserID:    userID,
		Tier:      tier,
		EndDate:   &endDate,
		IsActive:  true,
		AutoRenew: true,
	}

	if err := s.repo.CreateOrderWithSubscription(order, sub); err != nil {
		return None(), err
	}

	return s.Resolve(ctx, userID)
}

// Cancel marks the subscription inactive and non-renewing. On success the
// caller may treat the tier as none immediately; the mutation is narrow and
// idempotent, so no re-fetch is required.
func (s *Service) Cancel(ctx context.Context, userID uint) (Status, error) {
	_ = ctx
	if userID == 0 {
		return None(), errors.New("user_id is required")
	}

	ok, err := s.locker.Acquire(userID)
	if err != nil {
		return None(), err
	}
	if !ok {
		return None(), ErrProcessing
	}
	defer s.locker.Release(userID)

	if err := s.repo.Deactivate(userID); err != nil && !errors.Is(err, ErrNotFound) {
		return None(), err
	}

	// The legacy blob must not resurrect a cancelled subscription.
	if err := s.legacy.Delete(userID); err != nil {
		log.Printf("failed to drop legacy subscription for user %d: %v", userID, err)
	}

	return None(), nil
}

// GrantTier is the back-office path that hands a user a tier without a
// checkout (support gestures, promotions). It reuses the same idempotent
// upsert as the purchase flow.
func (s *Service) GrantTier(ctx context.Context, userID uint, tier string, until time.Time) (Status, error) {
	if userID == 0 {
		return None(), errors.New("user_id is required")
	}
	if !models.ValidTier(tier) {
		return None(), ErrInvalidTier
	}

	sub := &models.Subscription{
		UserID:   userID,
		Tier:     tier,
		EndDate:  &until,
		IsActive: true,
	}
	if err := s.repo.Upsert(sub); err != nil {
		return None(), err
	}
	return s.Resolve(ctx, userID)
}
