package subscription

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rothin8/smart-study-ai-solution/app/models"
)

type fakeRepo struct {
	rows        map[uint]*models.Subscription
	orders      []*models.Order
	deactivates int
	getCalls    int
	failGet     error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[uint]*models.Subscription{}}
}

func (f *fakeRepo) GetActiveByUserID(userID uint) (*models.Subscription, error) {
	f.getCalls++
	if f.failGet != nil {
		return nil, f.failGet
	}
	sub, ok := f.rows[userID]
	if !ok || !sub.IsActive {
		return nil, ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (f *fakeRepo) Upsert(sub *models.Subscription) error {
	cp := *sub
	f.rows[sub.UserID] = &cp
	return nil
}

func (f *fakeRepo) Deactivate(userID uint) error {
	f.deactivates++
	sub, ok := f.rows[userID]
	if !ok {
		return ErrNotFound
	}
	sub.IsActive = false
	sub.AutoRenew = false
	return nil
}

func (f *fakeRepo) CreateOrderWithSubscription(order *models.Order, sub *models.Subscription) error {
	f.orders = append(f.orders, order)
	cp := *sub
	f.rows[sub.UserID] = &cp
	return nil
}

type fakeLegacy struct {
	entries map[uint]*LegacyEntry
	deletes int
}

func newFakeLegacy() *fakeLegacy {
	return &fakeLegacy{entries: map[uint]*LegacyEntry{}}
}

func (f *fakeLegacy) Get(userID uint) (*LegacyEntry, error) {
	return f.entries[userID], nil
}

func (f *fakeLegacy) Delete(userID uint) error {
	f.deletes++
	delete(f.entries, userID)
	return nil
}

type fakeLocker struct {
	held map[uint]bool
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: map[uint]bool{}}
}

func (f *fakeLocker) Acquire(userID uint) (bool, error) {
	if f.held[userID] {
		return false, nil
	}
	f.held[userID] = true
	return true, nil
}

func (f *fakeLocker) Release(userID uint) {
	delete(f.held, userID)
}

func newTestService(repo *fakeRepo, legacy *fakeLegacy, now time.Time) *Service {
	svc := NewService(repo, legacy, newFakeLocker())
	svc.now = func() time.Time { return now }
	return svc
}

func TestResolveAnonymousIsNone(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeLegacy(), time.Now())

	status, err := svc.Resolve(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, models.TierNone, status.Tier)
	assert.Nil(t, status.ExpiresAt)
	assert.Equal(t, 0, repo.getCalls, "anonymous resolution must not hit the store")
}

func TestResolveActiveRow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	end := now.AddDate(0, 6, 0)
	repo := newFakeRepo()
	repo.rows[1] = &models.Subscription{UserID: 1, Tier: models.TierPremium, EndDate: &end, IsActive: true}
	svc := newTestService(repo, newFakeLegacy(), now)

	status, err := svc.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.TierPremium, status.Tier)
	require.NotNil(t, status.ExpiresAt)
	assert.True(t, status.ExpiresAt.Equal(end))
	assert.True(t, status.Active())
}

func TestResolveExpiredRowCorrectsOnce(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	repo := newFakeRepo()
	repo.rows[1] = &models.Subscription{UserID: 1, Tier: models.TierBasic, EndDate: &yesterday, IsActive: true}
	svc := newTestService(repo, newFakeLegacy(), now)

	status, err := svc.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.TierNone, status.Tier, "expired row must never yield its stored tier")
	assert.Nil(t, status.ExpiresAt)
	assert.Equal(t, 1, repo.deactivates, "exactly one correction write expected")
	assert.False(t, repo.rows[1].IsActive)
}

func TestResolveLegacyFallback(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	legacy := newFakeLegacy()
	legacy.entries[2] = &LegacyEntry{Tier: models.TierBasic, Expiry: now.AddDate(0, 1, 0)}
	svc := newTestService(repo, legacy, now)

	status, err := svc.Resolve(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, models.TierBasic, status.Tier)
}

func TestResolveStaleLegacyEntryIsDropped(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	legacy := newFakeLegacy()
	legacy.entries[2] = &LegacyEntry{Tier: models.TierPremium, Expiry: now.Add(-time.Hour)}
	svc := newTestService(repo, legacy, now)

	status, err := svc.Resolve(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, models.TierNone, status.Tier, "stale cache value must not be resurrected")
	assert.Equal(t, 1, legacy.deletes)
	assert.Nil(t, legacy.entries[2])

	// A second resolve finds nothing and must not recreate the entry.
	status, err = svc.Resolve(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, models.TierNone, status.Tier)
}

func TestSubscribePersistsOrderAndReResolves(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeLegacy(), now)

	status, err := svc.Subscribe(context.Background(), 3, models.TierPremium, "order_abc", "pay_xyz", 150000)
	require.NoError(t, err)
	assert.Equal(t, models.TierPremium, status.Tier)
	assert.True(t, status.Active())

	require.Len(t, repo.orders, 1)
	assert.Equal(t, "order_abc", repo.orders[0].OrderID)
	assert.Equal(t, "pay_xyz", repo.orders[0].PaymentID)
	assert.Equal(t, models.OrderStatusCompleted, repo.orders[0].Status)
	assert.Equal(t, int64(150000), repo.orders[0].Amount)

	// The returned status comes from a fresh resolution, not the write.
	assert.GreaterOrEqual(t, repo.getCalls, 1)

	row := repo.rows[3]
	require.NotNil(t, row)
	assert.True(t, row.EndDate.Equal(now.AddDate(1, 0, 0)))
}

func TestSubscribeRejectsInvalidTier(t *testing.T) {
	svc := newTestService(newFakeRepo(), newFakeLegacy(), time.Now())

	_, err := svc.Subscribe(context.Background(), 3, "gold", "o", "p", 1)
	assert.ErrorIs(t, err, ErrInvalidTier)
}

func TestSubscribeWhileProcessing(t *testing.T) {
	repo := newFakeRepo()
	locker := newFakeLocker()
	svc := NewService(repo, newFakeLegacy(), locker)

	ok, err := locker.Acquire(3)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = svc.Subscribe(context.Background(), 3, models.TierBasic, "o", "p", 1)
	assert.ErrorIs(t, err, ErrProcessing)
	assert.Empty(t, repo.orders)
}

func TestCancelYieldsNoneImmediatelyAndOnReload(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	end := now.AddDate(0, 6, 0)
	repo := newFakeRepo()
	repo.rows[4] = &models.Subscription{UserID: 4, Tier: models.TierBasic, EndDate: &end, IsActive: true}
	svc := newTestService(repo, newFakeLegacy(), now)

	status, err := svc.Cancel(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, models.TierNone, status.Tier)

	// Simulated page reload: resolving against the now-inactive row also
	// yields none.
	status, err = svc.Resolve(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, models.TierNone, status.Tier)
	assert.False(t, repo.rows[4].AutoRenew)
}

func TestResolveSurfacesStoreErrors(t *testing.T) {
	repo := newFakeRepo()
	repo.failGet = errors.New("connection reset")
	svc := newTestService(repo, newFakeLegacy(), time.Now())

	_, err := svc.Resolve(context.Background(), 5)
	assert.Error(t, err)
}
