// Package event holds the application-level subscribers of order and coupon
// events.
package event

import (
	"context"
	"fmt"

	"github.com/shopfront/backend/internal/domain/coupon"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderAuditHandler writes a structured audit line for every order and
// coupon event so that lifecycle changes can be traced from the logs.
type OrderAuditHandler struct {
	logger *zap.Logger
}

// NewOrderAuditHandler creates a new audit handler
func NewOrderAuditHandler(logger *zap.Logger) *OrderAuditHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderAuditHandler{logger: logger.Named("audit")}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderAuditHandler) EventTypes() []string {
	return []string{
		order.EventTypeOrderPlaced,
		order.EventTypeOrderStatusChanged,
		coupon.EventTypeCouponRedeemed,
	}
}

// Handle logs the event
func (h *OrderAuditHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	base := []zap.Field{
		zap.String("event_id", event.EventID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}

	switch e := event.(type) {
	case *order.OrderPlacedEvent:
		h.logger.Info("order placed", append(base,
			zap.String("order_number", e.OrderNumber),
			zap.String("customer_email", e.CustomerEmail),
			zap.Int("items", len(e.Items)),
			zap.String("subtotal", e.Subtotal.StringFixed(2)),
			zap.String("shipping_fee", e.ShippingFee.StringFixed(2)),
			zap.String("discount", e.DiscountAmount.StringFixed(2)),
			zap.String("total", e.Total.StringFixed(2)),
			zap.String("coupon_code", e.CouponCode),
		)...)
	case *order.OrderStatusChangedEvent:
		fields := append(base,
			zap.String("order_number", e.OrderNumber),
			zap.String("from", string(e.FromStatus)),
			zap.String("to", string(e.ToStatus)),
		)
		if e.Note != "" {
			fields = append(fields, zap.String("note", e.Note))
		}
		if e.TrackingNumber != "" {
			fields = append(fields, zap.String("tracking_number", e.TrackingNumber))
		}
		h.logger.Info("order status changed", fields...)
	case *coupon.CouponRedeemedEvent:
		h.logger.Info("coupon redeemed", append(base,
			zap.String("code", e.Code),
			zap.String("order_number", e.OrderNumber),
			zap.String("discount", e.Discount.StringFixed(2)),
			zap.Int("used_count", e.UsedCount),
		)...)
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
	return nil
}

var _ shared.EventHandler = (*OrderAuditHandler)(nil)
