package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rothin8/smart-study-ai-solution/app/models"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/session"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/subscription"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/usercontext"
)

type checkoutFakeRepo struct {
	rows   map[uint]*models.Subscription
	orders []*models.Order
}

func newCheckoutFakeRepo() *checkoutFakeRepo {
	return &checkoutFakeRepo{rows: map[uint]*models.Subscription{}}
}

func (f *checkoutFakeRepo) GetActiveByUserID(userID uint) (*models.Subscription, error) {
	sub, ok := f.rows[userID]
	if !ok || !sub.IsActive {
		return nil, subscription.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (f *checkoutFakeRepo) Upsert(sub *models.Subscription) error {
	cp := *sub
	f.rows[sub.UserID] = &cp
	return nil
}

func (f *checkoutFakeRepo) Deactivate(userID uint) error {
	sub, ok := f.rows[userID]
	if !ok {
		return subscription.ErrNotFound
	}
	sub.IsActive = false
	return nil
}

func (f *checkoutFakeRepo) CreateOrderWithSubscription(order *models.Order, sub *models.Subscription) error {
	f.orders = append(f.orders, order)
	cp := *sub
	f.rows[sub.UserID] = &cp
	return nil
}

type checkoutNoLegacy struct{}

func (checkoutNoLegacy) Get(userID uint) (*subscription.LegacyEntry, error) { return nil, nil }
func (checkoutNoLegacy) Delete(userID uint) error                          { return nil }

type checkoutOpenLocker struct{}

func (checkoutOpenLocker) Acquire(userID uint) (bool, error) { return true, nil }
func (checkoutOpenLocker) Release(userID uint)               {}

func newCheckoutApp(t *testing.T, repo *checkoutFakeRepo) *fiber.App {
	t.Helper()
	t.Setenv("PAYMENT_KEY_SECRET", "test-key-secret")

	session.NewMemorySessionStore()
	SetupSubscriptionControllers(subscription.NewService(repo, checkoutNoLegacy{}, checkoutOpenLocker{}), nil)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("USER_CONTEXT", usercontext.UserContext{UserID: 7, IsLoggedIn: true})
		return c.Next()
	})
	// Stands in for the pinning HandleCheckoutStart does after creating
	// the gateway order.
	app.Post("/pin", func(c *fiber.Ctx) error {
		if err := session.SetSessionValue(c, CHECKOUT_ORDER, c.FormValue("order")); err != nil {
			return err
		}
		return session.SetSessionValue(c, CHECKOUT_TIER, c.FormValue("tier"))
	})
	app.Post("/subscription/complete", HandleCheckoutComplete)
	return app
}

func checkoutSignature(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte("test-key-secret"))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func formRequest(path string, form url.Values, cookies []*http.Cookie) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return req
}

func TestCheckoutCompleteWithoutPinnedOrderIsRejected(t *testing.T) {
	repo := newCheckoutFakeRepo()
	app := newCheckoutApp(t, repo)

	form := url.Values{}
	form.Set("gateway_order_id", "order_A")
	form.Set("gateway_payment_id", "pay_1")
	form.Set("gateway_signature", checkoutSignature("order_A", "pay_1"))
	form.Set("tier", models.TierPremium)

	resp, err := app.Test(formRequest("/subscription/complete", form, nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/subscription", resp.Header.Get("Location"))
	assert.Empty(t, repo.orders)
	assert.Empty(t, repo.rows)
}

// The activated tier is the one the gateway order was created for; a
// client posting a different tier alongside a valid signature gets the
// pinned plan, not the posted one.
func TestCheckoutCompleteIgnoresPostedTier(t *testing.T) {
	repo := newCheckoutFakeRepo()
	app := newCheckoutApp(t, repo)

	pin := url.Values{}
	pin.Set("order", "order_A")
	pin.Set("tier", models.TierBasic)
	pinResp, err := app.Test(formRequest("/pin", pin, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, pinResp.StatusCode)

	form := url.Values{}
	form.Set("gateway_order_id", "order_A")
	form.Set("gateway_payment_id", "pay_1")
	form.Set("gateway_signature", checkoutSignature("order_A", "pay_1"))
	form.Set("tier", models.TierPremium)

	resp, err := app.Test(formRequest("/subscription/complete", form, pinResp.Cookies()))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/chat", resp.Header.Get("Location"))

	require.Len(t, repo.orders, 1)
	assert.Equal(t, models.TierBasic, repo.orders[0].Tier)
	require.NotNil(t, repo.rows[7])
	assert.Equal(t, models.TierBasic, repo.rows[7].Tier)
}

func TestCheckoutCompleteRejectsMismatchedOrder(t *testing.T) {
	repo := newCheckoutFakeRepo()
	app := newCheckoutApp(t, repo)

	pin := url.Values{}
	pin.Set("order", "order_A")
	pin.Set("tier", models.TierBasic)
	pinResp, err := app.Test(formRequest("/pin", pin, nil))
	require.NoError(t, err)

	form := url.Values{}
	form.Set("gateway_order_id", "order_B")
	form.Set("gateway_payment_id", "pay_1")
	form.Set("gateway_signature", checkoutSignature("order_B", "pay_1"))

	resp, err := app.Test(formRequest("/subscription/complete", form, pinResp.Cookies()))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/subscription", resp.Header.Get("Location"))
	assert.Empty(t, repo.orders)
}
