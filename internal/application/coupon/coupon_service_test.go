package coupon

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/coupon"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newService(repo *testutil.MockCouponRepository) *CouponService {
	return NewCouponService(repo).WithClock(func() time.Time { return fixedNow })
}

func percentCoupon(t *testing.T, code string, value int64) *coupon.Coupon {
	t.Helper()
	c, err := coupon.NewCoupon(code, coupon.DiscountTypePercentage, decimal.NewFromInt(value))
	require.NoError(t, err)
	return c
}

func TestCouponService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("normalises code and applies restrictions", func(t *testing.T) {
		repo := new(testutil.MockCouponRepository)
		svc := newService(repo)
		limit := 50
		minOrder := decimal.NewFromInt(40)

		repo.On("ExistsByCode", ctx, "SPRING10", uuid.Nil).Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*coupon.Coupon")).Return(nil)

		resp, err := svc.Create(ctx, CreateCouponRequest{
			Code:           " spring10 ",
			Description:    "Spring sale",
			DiscountType:   "PERCENTAGE",
			Value:          decimal.NewFromInt(10),
			MinOrderAmount: &minOrder,
			UsageLimit:     &limit,
		})
		require.NoError(t, err)
		assert.Equal(t, "SPRING10", resp.Code)
		assert.Equal(t, "Spring sale", resp.Description)
		assert.True(t, resp.Active)
		require.NotNil(t, resp.RemainingUses)
		assert.Equal(t, 50, *resp.RemainingUses)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate code", func(t *testing.T) {
		repo := new(testutil.MockCouponRepository)
		svc := newService(repo)
		repo.On("ExistsByCode", ctx, "SPRING10", uuid.Nil).Return(true, nil)

		_, err := svc.Create(ctx, CreateCouponRequest{Code: "SPRING10", DiscountType: "PERCENTAGE", Value: decimal.NewFromInt(10)})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("percentage above 100", func(t *testing.T) {
		svc := newService(new(testutil.MockCouponRepository))
		_, err := svc.Create(ctx, CreateCouponRequest{Code: "HUGE", DiscountType: "PERCENTAGE", Value: decimal.NewFromInt(150)})
		assert.Error(t, err)
	})

	t.Run("expiry before start", func(t *testing.T) {
		svc := newService(new(testutil.MockCouponRepository))
		starts := fixedNow
		expires := fixedNow.Add(-time.Hour)
		_, err := svc.Create(ctx, CreateCouponRequest{
			Code: "WINDOW", DiscountType: "FIXED_AMOUNT", Value: decimal.NewFromInt(5),
			StartsAt: &starts, ExpiresAt: &expires,
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_VALIDITY", domainErr.Code)
	})

	t.Run("created inactive", func(t *testing.T) {
		repo := new(testutil.MockCouponRepository)
		svc := newService(repo)
		repo.On("ExistsByCode", ctx, "LATER", uuid.Nil).Return(false, nil)
		repo.On("Save", ctx, mock.Anything).Return(nil)

		inactive := false
		resp, err := svc.Create(ctx, CreateCouponRequest{Code: "later", DiscountType: "FIXED_AMOUNT", Value: decimal.NewFromInt(5), Active: &inactive})
		require.NoError(t, err)
		assert.False(t, resp.Active)
	})
}

func TestCouponService_Update(t *testing.T) {
	ctx := context.Background()
	repo := new(testutil.MockCouponRepository)
	svc := newService(repo)
	existing := percentCoupon(t, "OLD", 10)
	limit := 5
	existing.UsageLimit = &limit

	repo.On("FindByID", ctx, existing.ID).Return(existing, nil)
	repo.On("ExistsByCode", ctx, "NEW", existing.ID).Return(false, nil)
	repo.On("Save", ctx, existing).Return(nil)

	resp, err := svc.Update(ctx, existing.ID, UpdateCouponRequest{Code: "new", DiscountType: "FIXED_AMOUNT", Value: decimal.NewFromInt(7)})
	require.NoError(t, err)
	assert.Equal(t, "NEW", resp.Code)
	assert.Equal(t, "FIXED_AMOUNT", resp.DiscountType)
	assert.Nil(t, resp.UsageLimit, "omitted restrictions are cleared")
}

func TestCouponService_SetActive(t *testing.T) {
	ctx := context.Background()
	repo := new(testutil.MockCouponRepository)
	svc := newService(repo)
	c := percentCoupon(t, "TOGGLE", 10)

	repo.On("FindByID", ctx, c.ID).Return(c, nil)
	repo.On("Save", ctx, c).Return(nil)

	resp, err := svc.SetActive(ctx, c.ID, false)
	require.NoError(t, err)
	assert.False(t, resp.Active)

	resp, err = svc.SetActive(ctx, c.ID, true)
	require.NoError(t, err)
	assert.True(t, resp.Active)
}

func TestCouponService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(testutil.MockCouponRepository)
	svc := newService(repo)
	missing := uuid.New()
	repo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, missing), shared.ErrNotFound)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCouponService_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("percentage discount", func(t *testing.T) {
		repo := new(testutil.MockCouponRepository)
		svc := newService(repo)
		repo.On("FindByCode", ctx, "SAVE15").Return(percentCoupon(t, "SAVE15", 15), nil)

		result, err := svc.Validate(ctx, "save15", decimal.RequireFromString("80.00"))
		require.NoError(t, err)
		assert.True(t, result.Discount.Equal(decimal.NewFromInt(12)))
		assert.Equal(t, "PERCENTAGE", result.DiscountType)
	})

	t.Run("unknown code", func(t *testing.T) {
		repo := new(testutil.MockCouponRepository)
		svc := newService(repo)
		repo.On("FindByCode", ctx, "NOPE").Return(nil, shared.ErrNotFound)

		_, err := svc.Validate(ctx, "nope", decimal.NewFromInt(10))
		assert.ErrorIs(t, err, coupon.ErrCouponNotFound)
	})

	t.Run("blank code", func(t *testing.T) {
		svc := newService(new(testutil.MockCouponRepository))
		_, err := svc.Validate(ctx, "   ", decimal.NewFromInt(10))
		assert.ErrorIs(t, err, coupon.ErrCouponNotFound)
	})

	t.Run("expired", func(t *testing.T) {
		repo := new(testutil.MockCouponRepository)
		svc := newService(repo)
		c := percentCoupon(t, "OLD", 10)
		expired := fixedNow.Add(-time.Minute)
		c.ExpiresAt = &expired
		repo.On("FindByCode", ctx, "OLD").Return(c, nil)

		_, err := svc.Validate(ctx, "OLD", decimal.NewFromInt(10))
		assert.ErrorIs(t, err, coupon.ErrCouponExpired)
	})

	t.Run("repository failure is passed through", func(t *testing.T) {
		repo := new(testutil.MockCouponRepository)
		svc := newService(repo)
		failure := assert.AnError
		repo.On("FindByCode", ctx, "BROKEN").Return(nil, failure)

		_, err := svc.Validate(ctx, "BROKEN", decimal.NewFromInt(10))
		assert.ErrorIs(t, err, failure)
	})
}
