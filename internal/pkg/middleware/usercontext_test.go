package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rothin8/smart-study-ai-solution/app/models"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/roles"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/subscription"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/usercontext"
)

type fakeSessionState struct {
	uid      uint
	username string
	loggedIn bool

	tier     string
	until    time.Time
	hasTier  bool

	cachedTier  string
	cachedUntil time.Time
	cachePuts   int
	drops       int
}

func (f *fakeSessionState) Identity(c *fiber.Ctx) (uint, string, bool) {
	return f.uid, f.username, f.loggedIn
}

func (f *fakeSessionState) TierCache(c *fiber.Ctx) (string, time.Time, bool) {
	return f.tier, f.until, f.hasTier
}

func (f *fakeSessionState) CacheTier(c *fiber.Ctx, tier string, until time.Time) {
	f.cachePuts++
	f.cachedTier = tier
	f.cachedUntil = until
	f.tier, f.until, f.hasTier = tier, until, true
}

func (f *fakeSessionState) DropTier(c *fiber.Ctx) {
	f.drops++
	f.tier, f.until, f.hasTier = "", time.Time{}, false
}

type fakeSubRepo struct {
	rows        map[uint]*models.Subscription
	getCalls    int
	deactivates int
}

func newFakeSubRepo() *fakeSubRepo {
	return &fakeSubRepo{rows: map[uint]*models.Subscription{}}
}

func (f *fakeSubRepo) GetActiveByUserID(userID uint) (*models.Subscription, error) {
	f.getCalls++
	sub, ok := f.rows[userID]
	if !ok || !sub.IsActive {
		return nil, subscription.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (f *fakeSubRepo) Upsert(sub *models.Subscription) error {
	cp := *sub
	f.rows[sub.UserID] = &cp
	return nil
}

func (f *fakeSubRepo) Deactivate(userID uint) error {
	f.deactivates++
	sub, ok := f.rows[userID]
	if !ok {
		return subscription.ErrNotFound
	}
	sub.IsActive = false
	return nil
}

func (f *fakeSubRepo) CreateOrderWithSubscription(order *models.Order, sub *models.Subscription) error {
	cp := *sub
	f.rows[sub.UserID] = &cp
	return nil
}

type noLegacy struct{}

func (noLegacy) Get(userID uint) (*subscription.LegacyEntry, error) { return nil, nil }
func (noLegacy) Delete(userID uint) error                          { return nil }

type openLocker struct{}

func (openLocker) Acquire(userID uint) (bool, error) { return true, nil }
func (openLocker) Release(userID uint)               {}

type noAdmins struct{}

func (noAdmins) IsAdmin(userID uint) (bool, error) { return false, nil }

func withServices(t *testing.T, sess sessionState, repo *fakeSubRepo) {
	t.Helper()

	prevSessions := sessions
	prevSub := subService
	prevRoles := roleResolver

	sessions = sess
	subService = subscription.NewService(repo, noLegacy{}, openLocker{})
	roleResolver = roles.NewResolver(noAdmins{})

	t.Cleanup(func() {
		sessions = prevSessions
		subService = prevSub
		roleResolver = prevRoles
	})
}

func contextApp(captured *usercontext.UserContext) *fiber.App {
	app := fiber.New()
	app.Use(UserContextMiddleware)
	app.Get("/", func(c *fiber.Ctx) error {
		*captured = usercontext.GetUserContext(c)
		return c.SendString("ok")
	})
	return app
}

func TestAnonymousWhenSessionUnavailable(t *testing.T) {
	repo := newFakeSubRepo()
	withServices(t, &fakeSessionState{loggedIn: false}, repo)

	var uc usercontext.UserContext
	app := contextApp(&uc)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.False(t, uc.IsLoggedIn)
	assert.False(t, uc.IsAdmin)
	assert.Equal(t, models.TierNone, uc.Tier)
	assert.Equal(t, 0, repo.getCalls)
}

func TestTierResolvedAndCachedOnFirstRequest(t *testing.T) {
	end := time.Now().AddDate(1, 0, 0)
	repo := newFakeSubRepo()
	repo.rows[7] = &models.Subscription{UserID: 7, Tier: models.TierBasic, EndDate: &end, IsActive: true}

	sess := &fakeSessionState{uid: 7, username: "asha", loggedIn: true}
	withServices(t, sess, repo)

	var uc usercontext.UserContext
	app := contextApp(&uc)

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	assert.True(t, uc.IsLoggedIn)
	assert.Equal(t, models.TierBasic, uc.Tier)
	assert.True(t, uc.IsSubscribed)

	require.Equal(t, 1, sess.cachePuts)
	assert.Equal(t, models.TierBasic, sess.cachedTier)
	assert.WithinDuration(t, time.Now().Add(tierCacheTTL), sess.cachedUntil, 2*time.Second)
}

func TestCachedTierServedWithoutStoreLookup(t *testing.T) {
	repo := newFakeSubRepo()
	sess := &fakeSessionState{
		uid: 7, loggedIn: true,
		tier: models.TierPremium, until: time.Now().Add(time.Minute), hasTier: true,
	}
	withServices(t, sess, repo)

	var uc usercontext.UserContext
	app := contextApp(&uc)

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	assert.Equal(t, models.TierPremium, uc.Tier)
	assert.True(t, uc.IsSubscribed)
	assert.Equal(t, 0, repo.getCalls)
}

// A session that cached a tier before the subscription ran out must lose
// access on the next request past the boundary, not at session expiry.
func TestStaleCachedTierReResolved(t *testing.T) {
	end := time.Now().Add(-time.Hour)
	repo := newFakeSubRepo()
	repo.rows[7] = &models.Subscription{UserID: 7, Tier: models.TierBasic, EndDate: &end, IsActive: true}

	sess := &fakeSessionState{
		uid: 7, loggedIn: true,
		tier: models.TierBasic, until: time.Now().Add(-time.Second), hasTier: true,
	}
	withServices(t, sess, repo)

	var uc usercontext.UserContext
	app := contextApp(&uc)

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	assert.Equal(t, models.TierNone, uc.Tier)
	assert.False(t, uc.IsSubscribed)
	assert.Equal(t, 1, repo.getCalls)
	assert.Equal(t, 1, repo.deactivates)

	require.Equal(t, 1, sess.cachePuts)
	assert.Equal(t, models.TierNone, sess.cachedTier)
}

func TestCachedTierCappedAtSubscriptionEnd(t *testing.T) {
	end := time.Now().Add(90 * time.Second)
	repo := newFakeSubRepo()
	repo.rows[7] = &models.Subscription{UserID: 7, Tier: models.TierPremium, EndDate: &end, IsActive: true}

	sess := &fakeSessionState{uid: 7, loggedIn: true}
	withServices(t, sess, repo)

	var uc usercontext.UserContext
	app := contextApp(&uc)

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	assert.Equal(t, models.TierPremium, uc.Tier)
	require.Equal(t, 1, sess.cachePuts)
	assert.WithinDuration(t, end, sess.cachedUntil, time.Second)
}

func TestInvalidateTierCacheDropsEntry(t *testing.T) {
	repo := newFakeSubRepo()
	sess := &fakeSessionState{
		uid: 7, loggedIn: true,
		tier: models.TierBasic, until: time.Now().Add(time.Minute), hasTier: true,
	}
	withServices(t, sess, repo)

	app := fiber.New()
	app.Post("/drop", func(c *fiber.Ctx) error {
		InvalidateTierCache(c)
		return c.SendString("ok")
	})

	_, err := app.Test(httptest.NewRequest("POST", "/drop", nil))
	require.NoError(t, err)

	assert.Equal(t, 1, sess.drops)
	assert.False(t, sess.hasTier)
}
