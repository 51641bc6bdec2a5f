package coupon

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DiscountType determines how a coupon value is applied
type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "PERCENTAGE"
	DiscountTypeFixedAmount DiscountType = "FIXED_AMOUNT"
)

// IsValid reports whether t is a known discount type
func (t DiscountType) IsValid() bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixedAmount
}

var hundred = decimal.NewFromInt(100)

// Coupon errors returned by CheckApplicable and Redeem
var (
	ErrCouponNotFound          = shared.NewDomainError("COUPON_NOT_FOUND", "Coupon code is not valid")
	ErrCouponInactive          = shared.NewDomainError("COUPON_INACTIVE", "Coupon is not active")
	ErrCouponNotStarted        = shared.NewDomainError("COUPON_NOT_STARTED", "Coupon is not valid yet")
	ErrCouponExpired           = shared.NewDomainError("COUPON_EXPIRED", "Coupon has expired")
	ErrCouponUsageLimitReached = shared.NewDomainError("COUPON_USAGE_LIMIT_REACHED", "Coupon usage limit has been reached")
)

// Coupon is a discount code applied at checkout
type Coupon struct {
	shared.BaseAggregateRoot
	Code           string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	Description    string           `gorm:"type:varchar(500)"`
	DiscountType   DiscountType     `gorm:"type:varchar(20);not null"`
	Value          decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	MinOrderAmount *decimal.Decimal `gorm:"type:decimal(12,2)"`
	StartsAt       *time.Time
	ExpiresAt      *time.Time
	UsageLimit     *int
	UsedCount      int  `gorm:"not null;default:0"`
	Active         bool `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Coupon) TableName() string {
	return "coupons"
}

// NewCoupon creates an active coupon without restrictions
func NewCoupon(code string, discountType DiscountType, value decimal.Decimal) (*Coupon, error) {
	code = NormalizeCode(code)
	if err := validateCode(code); err != nil {
		return nil, err
	}
	if err := validateDiscount(discountType, value); err != nil {
		return nil, err
	}

	return &Coupon{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		DiscountType:      discountType,
		Value:             value,
		Active:            true,
	}, nil
}

// NormalizeCode trims and upper-cases a coupon code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Update replaces the code, description and discount terms
func (c *Coupon) Update(code, description string, discountType DiscountType, value decimal.Decimal) error {
	code = NormalizeCode(code)
	if err := validateCode(code); err != nil {
		return err
	}
	if err := validateDiscount(discountType, value); err != nil {
		return err
	}
	if len(description) > 500 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}

	c.Code = code
	c.Description = strings.TrimSpace(description)
	c.DiscountType = discountType
	c.Value = value
	c.touch()
	return nil
}

// SetValidity sets the optional validity window
func (c *Coupon) SetValidity(startsAt, expiresAt *time.Time) error {
	if startsAt != nil && expiresAt != nil && !expiresAt.After(*startsAt) {
		return shared.NewDomainError("INVALID_VALIDITY", "Expiry must be after the start date")
	}
	c.StartsAt = startsAt
	c.ExpiresAt = expiresAt
	c.touch()
	return nil
}

// SetUsageLimit sets the optional total usage limit. A limit below the
// current usage count is rejected.
func (c *Coupon) SetUsageLimit(limit *int) error {
	if limit != nil {
		if *limit < 1 {
			return shared.NewDomainError("INVALID_USAGE_LIMIT", "Usage limit must be at least 1")
		}
		if *limit < c.UsedCount {
			return shared.NewDomainError("INVALID_USAGE_LIMIT", fmt.Sprintf("Usage limit cannot be below current usage (%d)", c.UsedCount))
		}
	}
	c.UsageLimit = limit
	c.touch()
	return nil
}

// SetMinOrderAmount sets the optional minimum subtotal
func (c *Coupon) SetMinOrderAmount(amount *decimal.Decimal) error {
	if amount != nil && amount.IsNegative() {
		return shared.NewDomainError("INVALID_MIN_ORDER", "Minimum order amount cannot be negative")
	}
	c.MinOrderAmount = amount
	c.touch()
	return nil
}

// Activate enables the coupon
func (c *Coupon) Activate() {
	c.Active = true
	c.touch()
}

// Deactivate disables the coupon
func (c *Coupon) Deactivate() {
	c.Active = false
	c.touch()
}

// CheckApplicable verifies the coupon can be applied to a cart with the
// given subtotal at time now.
func (c *Coupon) CheckApplicable(subtotal decimal.Decimal, now time.Time) error {
	if !c.Active {
		return ErrCouponInactive
	}
	if c.StartsAt != nil && now.Before(*c.StartsAt) {
		return ErrCouponNotStarted
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return ErrCouponExpired
	}
	if c.IsExhausted() {
		return ErrCouponUsageLimitReached
	}
	if c.MinOrderAmount != nil && subtotal.LessThan(*c.MinOrderAmount) {
		return shared.NewDomainError("COUPON_MIN_ORDER_NOT_MET",
			fmt.Sprintf("Order subtotal must be at least %s to use this coupon", c.MinOrderAmount.StringFixed(2)))
	}
	return nil
}

// Discount returns the discount for a subtotal: the coupon value for
// FIXED_AMOUNT, subtotal × value / 100 for PERCENTAGE (rounded to cents).
func (c *Coupon) Discount(subtotal decimal.Decimal) decimal.Decimal {
	switch c.DiscountType {
	case DiscountTypePercentage:
		return subtotal.Mul(c.Value).Div(hundred).Round(2)
	case DiscountTypeFixedAmount:
		return c.Value
	default:
		return decimal.Zero
	}
}

// IsExhausted reports whether the usage limit has been reached
func (c *Coupon) IsExhausted() bool {
	return c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit
}

// RemainingUses returns how many redemptions are left, or nil when unlimited
func (c *Coupon) RemainingUses() *int {
	if c.UsageLimit == nil {
		return nil
	}
	remaining := *c.UsageLimit - c.UsedCount
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}

// Redeem records one successful application of the coupon to an order
func (c *Coupon) Redeem(orderNumber string, discount decimal.Decimal) error {
	if c.IsExhausted() {
		return ErrCouponUsageLimitReached
	}
	c.UsedCount++
	c.touch()
	c.AddDomainEvent(NewCouponRedeemedEvent(c, orderNumber, discount))
	return nil
}

func (c *Coupon) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

func validateCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Coupon code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Coupon code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return shared.NewDomainError("INVALID_CODE", "Coupon code may only contain letters, digits, dashes and underscores")
		}
	}
	return nil
}

func validateDiscount(discountType DiscountType, value decimal.Decimal) error {
	if !discountType.IsValid() {
		return shared.NewDomainError("INVALID_DISCOUNT_TYPE", "Discount type must be PERCENTAGE or FIXED_AMOUNT")
	}
	if !value.IsPositive() {
		return shared.NewDomainError("INVALID_DISCOUNT_VALUE", "Discount value must be positive")
	}
	if discountType == DiscountTypePercentage && value.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_DISCOUNT_VALUE", "Percentage discount cannot exceed 100")
	}
	return nil
}
