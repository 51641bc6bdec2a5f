package coupon

import (
	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeCoupon is the aggregate type for coupon events
const AggregateTypeCoupon = "Coupon"

// EventTypeCouponRedeemed is raised when a coupon is applied to a placed order
const EventTypeCouponRedeemed = "CouponRedeemed"

// CouponRedeemedEvent records a successful coupon application
type CouponRedeemedEvent struct {
	shared.BaseDomainEvent
	CouponID    uuid.UUID       `json:"coupon_id"`
	Code        string          `json:"code"`
	OrderNumber string          `json:"order_number"`
	Discount    decimal.Decimal `json:"discount"`
	UsedCount   int             `json:"used_count"`
}

// NewCouponRedeemedEvent creates a new CouponRedeemedEvent
func NewCouponRedeemedEvent(c *Coupon, orderNumber string, discount decimal.Decimal) *CouponRedeemedEvent {
	return &CouponRedeemedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCouponRedeemed, AggregateTypeCoupon, c.ID),
		CouponID:        c.ID,
		Code:            c.Code,
		OrderNumber:     orderNumber,
		Discount:        discount,
		UsedCount:       c.UsedCount,
	}
}
