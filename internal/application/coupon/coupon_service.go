package coupon

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/coupon"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CouponService handles coupon administration and validation
type CouponService struct {
	couponRepo coupon.Repository
	now        func() time.Time
}

// NewCouponService creates a new CouponService
func NewCouponService(couponRepo coupon.Repository) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		now:        time.Now,
	}
}

// WithClock overrides the time source used for validity checks
func (s *CouponService) WithClock(now func() time.Time) *CouponService {
	s.now = now
	return s
}

// Create creates a new coupon
func (s *CouponService) Create(ctx context.Context, req CreateCouponRequest) (*CouponResponse, error) {
	c, err := coupon.NewCoupon(req.Code, coupon.DiscountType(req.DiscountType), req.Value)
	if err != nil {
		return nil, err
	}
	if err := s.apply(c, req.Code, req.Description, req.DiscountType, req.Value, req.MinOrderAmount, req.StartsAt, req.ExpiresAt, req.UsageLimit); err != nil {
		return nil, err
	}
	if req.Active != nil && !*req.Active {
		c.Deactivate()
	}

	if err := s.ensureCodeFree(ctx, c.Code, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.couponRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCouponResponse(c)
	return &response, nil
}

// GetByID retrieves a coupon by ID
func (s *CouponService) GetByID(ctx context.Context, id uuid.UUID) (*CouponResponse, error) {
	c, err := s.couponRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCouponResponse(c)
	return &response, nil
}

// List retrieves a page of coupons
func (s *CouponService) List(ctx context.Context, filter ListFilter) ([]CouponResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   strings.TrimSpace(filter.Search),
		Filters:  make(map[string]interface{}),
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	coupons, total, err := s.couponRepo.List(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToCouponResponses(coupons), total, nil
}

// Update replaces the terms of a coupon
func (s *CouponService) Update(ctx context.Context, id uuid.UUID, req UpdateCouponRequest) (*CouponResponse, error) {
	c, err := s.couponRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(c, req.Code, req.Description, req.DiscountType, req.Value, req.MinOrderAmount, req.StartsAt, req.ExpiresAt, req.UsageLimit); err != nil {
		return nil, err
	}
	if err := s.ensureCodeFree(ctx, c.Code, c.ID); err != nil {
		return nil, err
	}
	if err := s.couponRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCouponResponse(c)
	return &response, nil
}

// SetActive switches a coupon on or off
func (s *CouponService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*CouponResponse, error) {
	c, err := s.couponRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if active {
		c.Activate()
	} else {
		c.Deactivate()
	}
	if err := s.couponRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCouponResponse(c)
	return &response, nil
}

// Delete removes a coupon. Orders keep the code they were placed with.
func (s *CouponService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.couponRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.couponRepo.Delete(ctx, id)
}

// Validate checks a code against a cart subtotal and returns the discount
// it would grant.
func (s *CouponService) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*ValidationResult, error) {
	c, err := s.Lookup(ctx, code, subtotal)
	if err != nil {
		return nil, err
	}
	return &ValidationResult{
		Code:         c.Code,
		Description:  c.Description,
		DiscountType: string(c.DiscountType),
		Value:        c.Value,
		Subtotal:     subtotal,
		Discount:     c.Discount(subtotal),
	}, nil
}

// Lookup finds an applicable coupon by code
func (s *CouponService) Lookup(ctx context.Context, code string, subtotal decimal.Decimal) (*coupon.Coupon, error) {
	return FindApplicable(ctx, s.couponRepo, code, subtotal, s.now())
}

// FindApplicable loads a coupon by code and checks it against subtotal.
// Unknown codes yield ErrCouponNotFound.
func FindApplicable(ctx context.Context, repo coupon.Repository, code string, subtotal decimal.Decimal, now time.Time) (*coupon.Coupon, error) {
	normalized := coupon.NormalizeCode(code)
	if normalized == "" {
		return nil, coupon.ErrCouponNotFound
	}

	c, err := repo.FindByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, coupon.ErrCouponNotFound
		}
		return nil, err
	}
	if err := c.CheckApplicable(subtotal, now); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CouponService) apply(c *coupon.Coupon, code, description, discountType string, value decimal.Decimal,
	minOrder *decimal.Decimal, startsAt, expiresAt *time.Time, usageLimit *int) error {
	if err := c.Update(code, description, coupon.DiscountType(discountType), value); err != nil {
		return err
	}
	if err := c.SetMinOrderAmount(minOrder); err != nil {
		return err
	}
	if err := c.SetValidity(startsAt, expiresAt); err != nil {
		return err
	}
	return c.SetUsageLimit(usageLimit)
}

func (s *CouponService) ensureCodeFree(ctx context.Context, code string, excludeID uuid.UUID) error {
	exists, err := s.couponRepo.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Coupon code already exists")
	}
	return nil
}
