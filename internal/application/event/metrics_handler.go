package event

import (
	"context"

	"github.com/shopfront/backend/internal/domain/coupon"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderMetricsRecorder receives business counters derived from events
type OrderMetricsRecorder interface {
	RecordOrderPlaced(ctx context.Context, total decimal.Decimal, hasCoupon bool)
	RecordStatusChange(ctx context.Context, from, to string)
	RecordCouponRedeemed(ctx context.Context, code string, discount decimal.Decimal)
}

// MetricsHandler feeds order and coupon events into the metrics recorder
type MetricsHandler struct {
	recorder OrderMetricsRecorder
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(recorder OrderMetricsRecorder) *MetricsHandler {
	return &MetricsHandler{recorder: recorder}
}

// EventTypes returns the event types this handler is interested in
func (h *MetricsHandler) EventTypes() []string {
	return []string{
		order.EventTypeOrderPlaced,
		order.EventTypeOrderStatusChanged,
		coupon.EventTypeCouponRedeemed,
	}
}

// Handle records the event. Unknown events are ignored.
func (h *MetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.recorder == nil {
		return nil
	}
	switch e := event.(type) {
	case *order.OrderPlacedEvent:
		h.recorder.RecordOrderPlaced(ctx, e.Total, e.CouponCode != "")
	case *order.OrderStatusChangedEvent:
		h.recorder.RecordStatusChange(ctx, string(e.FromStatus), string(e.ToStatus))
	case *coupon.CouponRedeemedEvent:
		h.recorder.RecordCouponRedeemed(ctx, e.Code, e.Discount)
	}
	return nil
}

var _ shared.EventHandler = (*MetricsHandler)(nil)
