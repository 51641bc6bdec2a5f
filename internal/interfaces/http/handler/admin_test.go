package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	couponapp "github.com/shopfront/backend/internal/application/coupon"
	"github.com/shopfront/backend/internal/application/dashboard"
	inventoryapp "github.com/shopfront/backend/internal/application/inventory"
	orderapp "github.com/shopfront/backend/internal/application/order"
	"github.com/shopfront/backend/internal/domain/coupon"
	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCouponHandler_Create(t *testing.T) {
	repo := new(testutil.MockCouponRepository)
	h := NewCouponHandler(couponapp.NewCouponService(repo))
	engine := newEngine()
	engine.POST("/api/admin/coupons", h.Create)

	repo.On("ExistsByCode", mock.Anything, "SPRING10", uuid.Nil).Return(false, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*coupon.Coupon")).Return(nil)

	w := testutil.PerformRequest(t, engine, http.MethodPost, "/api/admin/coupons", map[string]any{
		"code":          "spring10",
		"discount_type": "PERCENTAGE",
		"value":         10,
		"usage_limit":   100,
	})
	resp := testutil.AssertSuccessResponse(t, w, http.StatusCreated)
	data := resp["data"].(map[string]any)
	assert.Equal(t, "SPRING10", data["code"])
	assert.Equal(t, 10.0, data["value"])
}

func TestCouponHandler_Create_Rejected(t *testing.T) {
	repo := new(testutil.MockCouponRepository)
	h := NewCouponHandler(couponapp.NewCouponService(repo))
	engine := newEngine()
	engine.POST("/api/admin/coupons", h.Create)

	w := testutil.PerformRequest(t, engine, http.MethodPost, "/api/admin/coupons", map[string]any{
		"code": "HALF", "discount_type": "BOGO", "value": 50,
	})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION_ERROR")

	w = testutil.PerformRequest(t, engine, http.MethodPost, "/api/admin/coupons", map[string]any{
		"code": "HUGE", "discount_type": "PERCENTAGE", "value": 150,
	})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "INVALID_DISCOUNT_VALUE")
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCouponHandler_SetActive(t *testing.T) {
	repo := new(testutil.MockCouponRepository)
	h := NewCouponHandler(couponapp.NewCouponService(repo))
	engine := newEngine()
	engine.PATCH("/api/admin/coupons/:id/active", h.SetActive)

	c, err := coupon.NewCoupon("WELCOME", coupon.DiscountTypeFixedAmount, decimal.NewFromInt(5))
	require.NoError(t, err)
	repo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
	repo.On("Save", mock.Anything, c).Return(nil)

	w := testutil.PerformRequest(t, engine, http.MethodPatch, "/api/admin/coupons/"+c.ID.String()+"/active", map[string]any{"active": false})
	resp := testutil.AssertSuccessResponse(t, w, http.StatusOK)
	assert.Equal(t, false, resp["data"].(map[string]any)["active"])
}

func TestInventoryHandler_AdjustStock(t *testing.T) {
	repo := new(testutil.MockInventoryRepository)
	publisher := testutil.NewRecordingPublisher()
	h := NewInventoryHandler(inventoryapp.NewInventoryService(repo, publisher))
	engine := newEngine()
	engine.POST("/api/admin/inventory/:variant_id/adjust", h.AdjustStock)

	variantID := uuid.New()
	path := "/api/admin/inventory/" + variantID.String() + "/adjust"

	w := testutil.PerformRequest(t, engine, http.MethodPost, path, map[string]any{"delta": 0})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION_ERROR")

	before := &inventory.Item{VariantID: variantID, SKU: "TEE-M", Stock: 1, MinStock: 2, Active: true}
	after := &inventory.Item{VariantID: variantID, SKU: "TEE-M", Stock: 11, MinStock: 2, Active: true}
	repo.On("FindByVariantID", mock.Anything, variantID).Return(before, nil).Once()
	repo.On("Adjust", mock.Anything, variantID, 10).Return(nil)
	repo.On("FindByVariantID", mock.Anything, variantID).Return(after, nil).Once()

	w = testutil.PerformRequest(t, engine, http.MethodPost, path, map[string]any{"delta": 10, "reason": "restock"})
	resp := testutil.AssertSuccessResponse(t, w, http.StatusOK)
	data := resp["data"].(map[string]any)
	assert.Equal(t, 11.0, data["stock"])
	assert.Equal(t, "ok", data["status"])
}

func TestInventoryHandler_AdjustStock_Insufficient(t *testing.T) {
	repo := new(testutil.MockInventoryRepository)
	h := NewInventoryHandler(inventoryapp.NewInventoryService(repo, nil))
	engine := newEngine()
	engine.POST("/api/admin/inventory/:variant_id/adjust", h.AdjustStock)

	variantID := uuid.New()
	repo.On("FindByVariantID", mock.Anything, variantID).Return(&inventory.Item{VariantID: variantID, Stock: 1}, nil)
	repo.On("Adjust", mock.Anything, variantID, -5).Return(shared.ErrInsufficientStock)

	w := testutil.PerformRequest(t, engine, http.MethodPost, "/api/admin/inventory/"+variantID.String()+"/adjust", map[string]any{"delta": -5})
	testutil.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK")
}

func TestInventoryHandler_Summary(t *testing.T) {
	repo := new(testutil.MockInventoryRepository)
	h := NewInventoryHandler(inventoryapp.NewInventoryService(repo, nil))
	engine := newEngine()
	engine.GET("/api/admin/inventory/summary", h.Summary)

	repo.On("Summary", mock.Anything).Return(inventory.Summary{TotalVariants: 10, OK: 6, Low: 3, Out: 1, TotalUnits: 240}, nil)

	w := testutil.PerformRequest(t, engine, http.MethodGet, "/api/admin/inventory/summary", nil)
	resp := testutil.AssertSuccessResponse(t, w, http.StatusOK)
	data := resp["data"].(map[string]any)
	assert.Equal(t, 4.0, data["needs_attention"])
	assert.Equal(t, 240.0, data["total_units"])
}

func newOrderEngine() (*OrderHandler, *testutil.MockOrderRepository, *testutil.MockInventoryRepository, *testutil.MockCouponRepository) {
	orders := new(testutil.MockOrderRepository)
	inv := new(testutil.MockInventoryRepository)
	coupons := new(testutil.MockCouponRepository)
	scope := orderapp.NewNoOpTransactionScope(new(testutil.MockProductRepository), inv, coupons, orders)
	overview := dashboard.NewService(orders, inv, coupons).
		WithClock(func() time.Time { return time.Date(2026, 6, 1, 15, 0, 0, 0, time.UTC) })
	h := NewOrderHandler(orderapp.NewOrderService(orders, scope, testutil.NewRecordingPublisher()), overview)
	return h, orders, inv, coupons
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	h, orders, _, _ := newOrderEngine()
	engine := newEngine()
	engine.PATCH("/api/admin/orders/:id/status", h.UpdateStatus)

	id := uuid.New()
	path := "/api/admin/orders/" + id.String() + "/status"

	w := testutil.PerformRequest(t, engine, http.MethodPatch, path, map[string]any{"status": "LOST"})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION_ERROR")

	orders.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)
	w = testutil.PerformRequest(t, engine, http.MethodPatch, path, map[string]any{"status": "CONFIRMED"})
	testutil.AssertErrorResponse(t, w, http.StatusNotFound, "NOT_FOUND")

	w = testutil.PerformRequest(t, engine, http.MethodPatch, "/api/admin/orders/abc/status", map[string]any{"status": "CONFIRMED"})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "INVALID_ID")
}

func TestOrderHandler_List_InvalidFilter(t *testing.T) {
	h, orders, _, _ := newOrderEngine()
	engine := newEngine()
	engine.GET("/api/admin/orders", h.List)

	w := testutil.PerformRequest(t, engine, http.MethodGet, "/api/admin/orders?status=LOST", nil)
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
	orders.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestOrderHandler_Dashboard(t *testing.T) {
	h, orders, inv, coupons := newOrderEngine()
	engine := newEngine()
	engine.GET("/api/admin/dashboard", h.Dashboard)

	orders.On("CountByStatus", mock.Anything).Return(map[order.Status]int64{
		order.StatusPending:   2,
		order.StatusDelivered: 5,
	}, nil)
	orders.On("Revenue", mock.Anything).Return(decimal.RequireFromString("412.456"), nil)
	orders.On("CountSince", mock.Anything, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)).Return(int64(3), nil)
	orders.On("List", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.PageSize == dashboard.RecentOrderLimit && f.OrderDir == "desc"
	})).Return([]order.Order{}, int64(7), nil)
	inv.On("Summary", mock.Anything).Return(inventory.Summary{TotalVariants: 4, OK: 3, Low: 1}, nil)
	coupons.On("CountActive", mock.Anything).Return(int64(2), nil)

	w := testutil.PerformRequest(t, engine, http.MethodGet, "/api/admin/dashboard", nil)
	resp := testutil.AssertSuccessResponse(t, w, http.StatusOK)
	data := resp["data"].(map[string]any)
	assert.Equal(t, 7.0, data["total_orders"])
	assert.Equal(t, 412.46, data["revenue"])
	assert.Equal(t, 3.0, data["orders_today"])
	assert.Equal(t, 2.0, data["active_coupons"])
	assert.Equal(t, 0.0, data["orders_by_status"].(map[string]any)["CANCELLED"])
	assert.Equal(t, 1.0, data["inventory"].(map[string]any)["needs_attention"])
}
