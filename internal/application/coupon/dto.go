package coupon

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/coupon"
	"github.com/shopspring/decimal"
)

// CreateCouponRequest represents a request to create a coupon
type CreateCouponRequest struct {
	Code           string           `json:"code" binding:"required,max=50,coupon_code"`
	Description    string           `json:"description" binding:"max=500"`
	DiscountType   string           `json:"discount_type" binding:"required,oneof=PERCENTAGE FIXED_AMOUNT"`
	Value          decimal.Decimal  `json:"value"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount" binding:"omitempty,gte=0"`
	StartsAt       *time.Time       `json:"starts_at"`
	ExpiresAt      *time.Time       `json:"expires_at"`
	UsageLimit     *int             `json:"usage_limit" binding:"omitempty,min=1"`
	Active         *bool            `json:"active"`
}

// UpdateCouponRequest replaces the terms of a coupon. Restrictions left
// nil are cleared.
type UpdateCouponRequest struct {
	Code           string           `json:"code" binding:"required,max=50,coupon_code"`
	Description    string           `json:"description" binding:"max=500"`
	DiscountType   string           `json:"discount_type" binding:"required,oneof=PERCENTAGE FIXED_AMOUNT"`
	Value          decimal.Decimal  `json:"value"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount" binding:"omitempty,gte=0"`
	StartsAt       *time.Time       `json:"starts_at"`
	ExpiresAt      *time.Time       `json:"expires_at"`
	UsageLimit     *int             `json:"usage_limit" binding:"omitempty,min=1"`
}

// SetActiveRequest toggles a coupon on or off
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// ListFilter represents filter options for the coupon list
type ListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CouponResponse represents a coupon in admin API responses
type CouponResponse struct {
	ID             uuid.UUID        `json:"id"`
	Code           string           `json:"code"`
	Description    string           `json:"description"`
	DiscountType   string           `json:"discount_type"`
	Value          decimal.Decimal  `json:"value"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount,omitempty"`
	StartsAt       *time.Time       `json:"starts_at,omitempty"`
	ExpiresAt      *time.Time       `json:"expires_at,omitempty"`
	UsageLimit     *int             `json:"usage_limit,omitempty"`
	UsedCount      int              `json:"used_count"`
	RemainingUses  *int             `json:"remaining_uses,omitempty"`
	Active         bool             `json:"active"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	Version        int              `json:"version"`
}

// ValidationResult is the outcome of checking a coupon against a subtotal
type ValidationResult struct {
	Code         string          `json:"code"`
	Description  string          `json:"description"`
	DiscountType string          `json:"discount_type"`
	Value        decimal.Decimal `json:"value"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
}

// ToCouponResponse converts a domain Coupon to CouponResponse
func ToCouponResponse(c *coupon.Coupon) CouponResponse {
	return CouponResponse{
		ID:             c.ID,
		Code:           c.Code,
		Description:    c.Description,
		DiscountType:   string(c.DiscountType),
		Value:          c.Value,
		MinOrderAmount: c.MinOrderAmount,
		StartsAt:       c.StartsAt,
		ExpiresAt:      c.ExpiresAt,
		UsageLimit:     c.UsageLimit,
		UsedCount:      c.UsedCount,
		RemainingUses:  c.RemainingUses(),
		Active:         c.Active,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		Version:        c.Version,
	}
}

// ToCouponResponses converts a slice of coupons to responses
func ToCouponResponses(coupons []coupon.Coupon) []CouponResponse {
	responses := make([]CouponResponse, len(coupons))
	for i := range coupons {
		responses[i] = ToCouponResponse(&coupons[i])
	}
	return responses
}
