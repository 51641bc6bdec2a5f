package handler

import (
	"github.com/gin-gonic/gin"
	orderapp "github.com/shopfront/backend/internal/application/order"
)

// Idempotency headers for order placement
const (
	IdempotencyKeyHeader     = "Idempotency-Key"
	IdempotentReplayedHeader = "Idempotent-Replayed"
)

// CheckoutHandler serves cart pricing, order placement and tracking
type CheckoutHandler struct {
	BaseHandler
	checkout *orderapp.CheckoutService
	orders   *orderapp.OrderService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkout *orderapp.CheckoutService, orders *orderapp.OrderService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, orders: orders}
}

// Quote handles POST /api/checkout/quote
func (h *CheckoutHandler) Quote(c *gin.Context) {
	var req orderapp.QuoteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quote, err := h.checkout.QuoteCart(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// ValidateCoupon handles POST /api/checkout/validate-coupon
func (h *CheckoutHandler) ValidateCoupon(c *gin.Context) {
	var req orderapp.ValidateCouponRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.checkout.ValidateCoupon(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// PlaceOrder handles POST /api/orders. A retried request carrying the same
// Idempotency-Key gets the original order back with a 200.
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req orderapp.PlaceOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	placed, err := h.checkout.PlaceOrder(c.Request.Context(), req, c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if placed.Replayed {
		c.Header(IdempotentReplayedHeader, "true")
		h.Success(c, placed)
		return
	}
	h.Created(c, placed)
}

// Track handles GET /api/orders/track
func (h *CheckoutHandler) Track(c *gin.Context) {
	var req orderapp.TrackOrderRequest
	if !h.bindQuery(c, &req) {
		return
	}

	tracking, err := h.orders.Track(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tracking)
}
