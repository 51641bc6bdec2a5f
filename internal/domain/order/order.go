package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/pricing"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps the quantity of a single order line
const MaxLineQuantity = 99

// Customer identifies who placed an order
type Customer struct {
	Name  string
	Email string
	Phone string
}

// AppliedCoupon is a coupon accepted for an order
type AppliedCoupon struct {
	ID         uuid.UUID
	Code       string
	Discounter pricing.Discounter
}

// Order is a placed storefront order
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber     string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerName    string              `gorm:"type:varchar(200);not null"`
	CustomerEmail   string              `gorm:"type:varchar(254);not null;index"`
	CustomerPhone   string              `gorm:"type:varchar(30)"`
	ShippingAddress valueobject.Address `gorm:"type:jsonb;serializer:json;not null"`
	Items           []Item              `gorm:"foreignKey:OrderID;references:ID"`
	Subtotal        decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	ShippingFee     decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	DiscountAmount  decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	Total           decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	CouponID        *uuid.UUID          `gorm:"type:uuid"`
	CouponCode      string              `gorm:"type:varchar(50)"`
	Status          Status              `gorm:"type:varchar(20);not null;index"`
	TrackingNumber  string              `gorm:"type:varchar(100)"`
	Notes           string              `gorm:"type:text"`
	ConfirmedAt     *time.Time
	ProcessingAt    *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a PENDING order from priced cart lines. Totals follow
// pricing.Quote and are rounded to cents.
func NewOrder(
	orderNumber string,
	customer Customer,
	address valueobject.Address,
	lines []LineInput,
	policy pricing.ShippingPolicy,
	coupon *AppliedCoupon,
) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	customer, err := normalizeCustomer(customer)
	if err != nil {
		return nil, err
	}
	if address.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address is required")
	}
	if err := validateLines(lines); err != nil {
		return nil, err
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerName:      customer.Name,
		CustomerEmail:     customer.Email,
		CustomerPhone:     customer.Phone,
		ShippingAddress:   address,
		Status:            StatusPending,
	}

	priced := make([]pricing.Line, len(lines))
	order.Items = make([]Item, len(lines))
	for i, l := range lines {
		priced[i] = pricing.Line{UnitPrice: l.UnitPrice, Quantity: l.Quantity}
		order.Items[i] = Item{
			ID:           uuid.New(),
			OrderID:      order.ID,
			ProductID:    l.ProductID,
			VariantID:    l.VariantID,
			ProductName:  l.ProductName,
			VariantLabel: l.VariantLabel,
			SKU:          l.SKU,
			UnitPrice:    l.UnitPrice,
			Quantity:     l.Quantity,
			LineTotal:    priced[i].Total().Round(2),
			CreatedAt:    order.CreatedAt,
		}
	}

	var discounter pricing.Discounter
	if coupon != nil {
		discounter = coupon.Discounter
		id := coupon.ID
		order.CouponID = &id
		order.CouponCode = coupon.Code
	}

	breakdown := pricing.Quote(priced, policy, discounter)
	order.Subtotal = breakdown.Subtotal.Round(2)
	order.ShippingFee = breakdown.Shipping.Round(2)
	order.DiscountAmount = breakdown.Discount.Round(2)
	order.Total = breakdown.Total.Round(2)

	order.AddDomainEvent(NewOrderPlacedEvent(order))

	return order, nil
}

// SetNotes stores the customer note given at checkout
func (o *Order) SetNotes(notes string) error {
	notes = strings.TrimSpace(notes)
	if len(notes) > 1000 {
		return shared.NewDomainError("INVALID_NOTES", "Notes cannot exceed 1000 characters")
	}
	o.Notes = notes
	return nil
}

// TransitionTo moves the order to target. Cancelling goes through Cancel.
func (o *Order) TransitionTo(target Status, note string, now time.Time) error {
	if target == StatusCancelled {
		return o.Cancel(note, now)
	}
	if err := o.checkTransition(target); err != nil {
		return err
	}

	from := o.Status
	o.Status = target
	stamp := now
	switch target {
	case StatusConfirmed:
		o.ConfirmedAt = &stamp
	case StatusProcessing:
		o.ProcessingAt = &stamp
	case StatusShipped:
		o.ShippedAt = &stamp
	case StatusDelivered:
		o.DeliveredAt = &stamp
	}
	o.touch(now)

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, note))
	return nil
}

// Cancel cancels a non-terminal order. The caller is responsible for
// returning item quantities to stock.
func (o *Order) Cancel(reason string, now time.Time) error {
	if err := o.checkTransition(StatusCancelled); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if len(reason) > 500 {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason cannot exceed 500 characters")
	}

	from := o.Status
	o.Status = StatusCancelled
	stamp := now
	o.CancelledAt = &stamp
	o.CancelReason = reason
	o.touch(now)

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, reason))
	return nil
}

// SetTrackingNumber records the carrier tracking number
func (o *Order) SetTrackingNumber(trackingNumber string) error {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == o.TrackingNumber {
		return nil
	}
	if o.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot set a tracking number on a cancelled order")
	}
	if len(trackingNumber) > 100 {
		return shared.NewDomainError("INVALID_TRACKING_NUMBER", "Tracking number cannot exceed 100 characters")
	}
	o.TrackingNumber = trackingNumber
	o.touch(time.Now())
	return nil
}

// MatchesEmail compares the customer email case-insensitively
func (o *Order) MatchesEmail(email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && strings.EqualFold(o.CustomerEmail, email)
}

// ItemCount returns the total number of units ordered
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// IsCancelled reports whether the order was cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == StatusCancelled
}

func (o *Order) checkTransition(target Status) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status: %s", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change order status from %s to %s", o.Status, target))
	}
	return nil
}

func (o *Order) touch(now time.Time) {
	o.UpdatedAt = now
	o.IncrementVersion()
}

func normalizeCustomer(c Customer) (Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = valueobject.NormalizeEmail(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)

	if c.Name == "" {
		return c, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if len(c.Name) > 200 {
		return c, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot exceed 200 characters")
	}
	if err := valueobject.ValidateEmail(c.Email); err != nil {
		return c, err
	}
	if len(c.Phone) > 30 {
		return c, shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 30 characters")
	}
	return c, nil
}

func validateLines(lines []LineInput) error {
	if len(lines) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, l := range lines {
		if l.VariantID == uuid.Nil || l.ProductID == uuid.Nil {
			return shared.NewDomainError("INVALID_ITEM", "Order item must reference a product variant")
		}
		if _, dup := seen[l.VariantID]; dup {
			return shared.NewDomainError("INVALID_ITEM", fmt.Sprintf("Variant %s appears more than once", l.SKU))
		}
		seen[l.VariantID] = struct{}{}
		if l.Quantity < 1 || l.Quantity > MaxLineQuantity {
			return shared.NewDomainError("INVALID_QUANTITY",
				fmt.Sprintf("Quantity for %s must be between 1 and %d", l.SKU, MaxLineQuantity))
		}
		if !l.UnitPrice.IsPositive() {
			return shared.NewDomainError("INVALID_PRICE", fmt.Sprintf("%s is not available for purchase", l.ProductName))
		}
	}
	return nil
}
