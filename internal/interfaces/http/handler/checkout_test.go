package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	contentapp "github.com/shopfront/backend/internal/application/content"
	orderapp "github.com/shopfront/backend/internal/application/order"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/cache"
	"github.com/shopfront/backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type checkoutEnv struct {
	engine    *gin.Engine
	products  *testutil.MockProductRepository
	inventory *testutil.MockInventoryRepository
	orders    *testutil.MockOrderRepository
}

func newCheckoutEnv(t *testing.T) *checkoutEnv {
	t.Helper()
	env := &checkoutEnv{
		products:  new(testutil.MockProductRepository),
		inventory: new(testutil.MockInventoryRepository),
		orders:    new(testutil.MockOrderRepository),
	}
	coupons := new(testutil.MockCouponRepository)
	settingsRepo := new(testutil.MockSettingsRepository)
	settingsRepo.On("Get", mock.Anything).Return(nil, shared.ErrNotFound)
	settings := contentapp.NewSettingsService(settingsRepo, contentapp.SettingsDefaults{
		StoreName:             "Shopfront",
		Currency:              "USD",
		FreeShippingThreshold: decimal.NewFromInt(75),
		FlatShippingFee:       decimal.RequireFromString("6.95"),
	})

	store := cache.NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	publisher := testutil.NewRecordingPublisher()
	scope := orderapp.NewNoOpTransactionScope(env.products, env.inventory, coupons, env.orders)
	checkout := orderapp.NewCheckoutService(scope, env.products, coupons, env.orders, settings, publisher,
		orderapp.CheckoutConfig{OrderNumberPrefix: "SF", IdempotencyTTL: time.Hour}).
		WithIdempotencyStore(store)
	orders := orderapp.NewOrderService(env.orders, scope, publisher)

	h := NewCheckoutHandler(checkout, orders)
	env.engine = newEngine()
	env.engine.POST("/api/checkout/quote", h.Quote)
	env.engine.POST("/api/checkout/validate-coupon", h.ValidateCoupon)
	env.engine.POST("/api/orders", h.PlaceOrder)
	env.engine.GET("/api/orders/track", h.Track)
	return env
}

func orderBody(variantID uuid.UUID, quantity int) map[string]any {
	return map[string]any{
		"customer_name":  "Grace Hopper",
		"customer_email": "grace@example.com",
		"shipping_address": map[string]any{
			"line1":       "1 Compiler Way",
			"city":        "Arlington",
			"postal_code": "22201",
			"country":     "US",
		},
		"items": []map[string]any{{"variant_id": variantID, "quantity": quantity}},
	}
}

func TestCheckoutHandler_Quote(t *testing.T) {
	env := newCheckoutEnv(t)
	tee := newTee(t)
	variantID := tee.Variants[0].ID
	env.products.On("FindByVariantIDs", mock.Anything, []uuid.UUID{variantID}).Return([]catalog.Product{*tee}, nil)

	w := testutil.PerformRequest(t, env.engine, http.MethodPost, "/api/checkout/quote", map[string]any{
		"items": []map[string]any{{"variant_id": variantID, "quantity": 2}},
	})
	resp := testutil.AssertSuccessResponse(t, w, http.StatusOK)
	data := resp["data"].(map[string]any)
	assert.Equal(t, 40.0, data["subtotal"])
	assert.Equal(t, 6.95, data["shipping_fee"])
	assert.Equal(t, 46.95, data["total"])
}

func TestCheckoutHandler_Quote_Validation(t *testing.T) {
	env := newCheckoutEnv(t)

	w := testutil.PerformRequest(t, env.engine, http.MethodPost, "/api/checkout/quote", map[string]any{"items": []any{}})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION_ERROR")

	w = testutil.PerformRequest(t, env.engine, http.MethodPost, "/api/checkout/quote", map[string]any{
		"items": []map[string]any{{"variant_id": uuid.New(), "quantity": 0}},
	})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
	env.products.AssertNotCalled(t, "FindByVariantIDs", mock.Anything, mock.Anything)
}

func TestCheckoutHandler_Quote_UnknownVariant(t *testing.T) {
	env := newCheckoutEnv(t)
	env.products.On("FindByVariantIDs", mock.Anything, mock.Anything).Return([]catalog.Product{}, nil)

	w := testutil.PerformRequest(t, env.engine, http.MethodPost, "/api/checkout/quote", map[string]any{
		"items": []map[string]any{{"variant_id": uuid.New(), "quantity": 1}},
	})
	testutil.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "ITEM_UNAVAILABLE")
}

func TestCheckoutHandler_PlaceOrder_Idempotent(t *testing.T) {
	env := newCheckoutEnv(t)
	tee := newTee(t)
	variantID := tee.Variants[0].ID

	var placed *order.Order
	env.products.On("FindByVariantIDs", mock.Anything, []uuid.UUID{variantID}).Return([]catalog.Product{*tee}, nil).Once()
	env.inventory.On("Adjust", mock.Anything, variantID, -2).Return(nil).Once()
	env.orders.On("Create", mock.Anything, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) { placed = args.Get(1).(*order.Order) }).
		Return(nil).Once()

	headers := map[string]string{IdempotencyKeyHeader: "cart-42"}
	w := testutil.PerformRequest(t, env.engine, http.MethodPost, "/api/orders", orderBody(variantID, 2), headers)
	resp := testutil.AssertSuccessResponse(t, w, http.StatusCreated)
	assert.Empty(t, w.Header().Get(IdempotentReplayedHeader))
	number := resp["data"].(map[string]any)["order_number"].(string)
	require.NotNil(t, placed)
	assert.Equal(t, placed.OrderNumber, number)

	env.orders.On("FindByOrderNumber", mock.Anything, number).Return(placed, nil)

	w = testutil.PerformRequest(t, env.engine, http.MethodPost, "/api/orders", orderBody(variantID, 2), headers)
	resp = testutil.AssertSuccessResponse(t, w, http.StatusOK)
	assert.Equal(t, "true", w.Header().Get(IdempotentReplayedHeader))
	assert.Equal(t, number, resp["data"].(map[string]any)["order_number"])

	env.inventory.AssertNumberOfCalls(t, "Adjust", 1)
	env.orders.AssertNumberOfCalls(t, "Create", 1)
}

func TestCheckoutHandler_PlaceOrder_Validation(t *testing.T) {
	env := newCheckoutEnv(t)

	body := orderBody(uuid.New(), 1)
	body["customer_email"] = "not-an-email"
	w := testutil.PerformRequest(t, env.engine, http.MethodPost, "/api/orders", body)
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
	assert.Contains(t, w.Body.String(), `"field":"customer_email"`)
}

func TestCheckoutHandler_PlaceOrder_InsufficientStock(t *testing.T) {
	env := newCheckoutEnv(t)
	tee := newTee(t)
	variantID := tee.Variants[0].ID
	env.products.On("FindByVariantIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*tee}, nil)

	w := testutil.PerformRequest(t, env.engine, http.MethodPost, "/api/orders", orderBody(variantID, 13))
	testutil.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK")
	env.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckoutHandler_Track(t *testing.T) {
	env := newCheckoutEnv(t)

	w := testutil.PerformRequest(t, env.engine, http.MethodGet, "/api/orders/track?order_number=SF-1", nil)
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION_ERROR")

	env.orders.On("FindByOrderNumber", mock.Anything, "SF-20260601-DEADBEEF").Return(nil, shared.ErrNotFound)
	w = testutil.PerformRequest(t, env.engine, http.MethodGet,
		"/api/orders/track?order_number=sf-20260601-deadbeef&email=grace@example.com", nil)
	testutil.AssertErrorResponse(t, w, http.StatusNotFound, "NOT_FOUND")
}
