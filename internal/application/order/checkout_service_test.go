package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/coupon"
	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/pricing"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var checkoutNow = time.Date(2026, 6, 1, 10, 30, 0, 0, time.UTC)

type staticShipping pricing.ShippingPolicy

func (p staticShipping) ShippingPolicy(context.Context) (pricing.ShippingPolicy, error) {
	return pricing.ShippingPolicy(p), nil
}

// memoryIdempotency is a minimal shared.IdempotencyStore for service tests
type memoryIdempotency struct {
	mu      sync.Mutex
	entries map[string]string
}

func newMemoryIdempotency() *memoryIdempotency {
	return &memoryIdempotency{entries: make(map[string]string)}
}

func (m *memoryIdempotency) Reserve(_ context.Context, key string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; ok {
		return false, nil
	}
	m.entries[key] = ""
	return true, nil
}

func (m *memoryIdempotency) Complete(_ context.Context, key, result string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = result
	return nil
}

func (m *memoryIdempotency) Result(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result, ok := m.entries[key]
	return result, ok, nil
}

func (m *memoryIdempotency) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *memoryIdempotency) Close() error { return nil }

type checkoutFixture struct {
	products  *testutil.MockProductRepository
	inventory *testutil.MockInventoryRepository
	coupons   *testutil.MockCouponRepository
	orders    *testutil.MockOrderRepository
	publisher *testutil.RecordingPublisher
	service   *CheckoutService
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		products:  new(testutil.MockProductRepository),
		inventory: new(testutil.MockInventoryRepository),
		coupons:   new(testutil.MockCouponRepository),
		orders:    new(testutil.MockOrderRepository),
		publisher: testutil.NewRecordingPublisher(),
	}
	scope := NewNoOpTransactionScope(f.products, f.inventory, f.coupons, f.orders)
	shipping := staticShipping{
		FreeShippingThreshold: decimal.NewFromInt(100),
		FlatFee:               decimal.RequireFromString("7.50"),
	}
	f.service = NewCheckoutService(scope, f.products, f.coupons, f.orders, shipping, f.publisher,
		CheckoutConfig{OrderNumberPrefix: "SF"}).
		WithClock(func() time.Time { return checkoutNow })
	return f
}

// newShirt returns a product priced 25.00 with an M variant (stock 10,
// min 3) and an XL variant at +5.00 (stock 2, min 1).
func newShirt(t *testing.T) (*catalog.Product, uuid.UUID, uuid.UUID) {
	t.Helper()
	p, err := catalog.NewProduct("Linen Shirt", decimal.NewFromInt(25))
	require.NoError(t, err)
	m, err := p.AddVariant("ls-m", "M", "White", decimal.Zero, 10, 3)
	require.NoError(t, err)
	mID := m.ID
	xl, err := p.AddVariant("ls-xl", "XL", "White", decimal.NewFromInt(5), 2, 1)
	require.NoError(t, err)
	return p, mID, xl.ID
}

func placeRequest(items ...CartItemRequest) PlaceOrderRequest {
	return PlaceOrderRequest{
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "Ada@Example.com",
		ShippingAddress: AddressRequest{
			Line1:      "12 Analytical Row",
			City:       "London",
			PostalCode: "n1 9gu",
			Country:    "GB",
		},
		Items: items,
	}
}

func TestCheckoutService_QuoteCart(t *testing.T) {
	ctx := context.Background()

	t.Run("merges lines and charges shipping below threshold", func(t *testing.T) {
		f := newCheckoutFixture()
		shirt, mID, xlID := newShirt(t)
		f.products.On("FindByVariantIDs", ctx, []uuid.UUID{mID, xlID}).Return([]catalog.Product{*shirt}, nil)

		quote, err := f.service.QuoteCart(ctx, QuoteRequest{Items: []CartItemRequest{
			{VariantID: mID, Quantity: 1},
			{VariantID: xlID, Quantity: 1},
			{VariantID: mID, Quantity: 1},
		}})
		require.NoError(t, err)
		require.Len(t, quote.Items, 2)
		assert.Equal(t, 2, quote.Items[0].Quantity)
		assert.True(t, quote.Subtotal.Equal(decimal.NewFromInt(80)))
		assert.True(t, quote.ShippingFee.Equal(decimal.RequireFromString("7.50")))
		assert.True(t, quote.Total.Equal(decimal.RequireFromString("87.50")))
		assert.Equal(t, "M / White", quote.Items[0].VariantLabel)
	})

	t.Run("applies coupon", func(t *testing.T) {
		f := newCheckoutFixture()
		shirt, mID, _ := newShirt(t)
		f.products.On("FindByVariantIDs", ctx, mock.Anything).Return([]catalog.Product{*shirt}, nil)
		c, err := coupon.NewCoupon("TEN", coupon.DiscountTypePercentage, decimal.NewFromInt(10))
		require.NoError(t, err)
		f.coupons.On("FindByCode", ctx, "TEN").Return(c, nil)

		quote, err := f.service.QuoteCart(ctx, QuoteRequest{
			Items:      []CartItemRequest{{VariantID: mID, Quantity: 4}},
			CouponCode: "ten",
		})
		require.NoError(t, err)
		assert.Equal(t, "TEN", quote.CouponCode)
		assert.Empty(t, quote.CouponError)
		assert.True(t, quote.Discount.Equal(decimal.NewFromInt(10)))
		assert.True(t, quote.ShippingFee.IsZero())
		assert.True(t, quote.Total.Equal(decimal.NewFromInt(90)))
	})

	t.Run("inapplicable coupon is reported not fatal", func(t *testing.T) {
		f := newCheckoutFixture()
		shirt, mID, _ := newShirt(t)
		f.products.On("FindByVariantIDs", ctx, mock.Anything).Return([]catalog.Product{*shirt}, nil)
		f.coupons.On("FindByCode", ctx, "GONE").Return(nil, shared.ErrNotFound)

		quote, err := f.service.QuoteCart(ctx, QuoteRequest{
			Items:      []CartItemRequest{{VariantID: mID, Quantity: 1}},
			CouponCode: "gone",
		})
		require.NoError(t, err)
		assert.Equal(t, coupon.ErrCouponNotFound.Message, quote.CouponError)
		assert.True(t, quote.Discount.IsZero())
		assert.True(t, quote.Total.Equal(decimal.RequireFromString("32.50")))
	})

	t.Run("unknown variant", func(t *testing.T) {
		f := newCheckoutFixture()
		f.products.On("FindByVariantIDs", ctx, mock.Anything).Return([]catalog.Product{}, nil)

		_, err := f.service.QuoteCart(ctx, QuoteRequest{Items: []CartItemRequest{{VariantID: uuid.New(), Quantity: 1}}})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ITEM_UNAVAILABLE", domainErr.Code)
	})

	t.Run("merged quantity above limit", func(t *testing.T) {
		f := newCheckoutFixture()
		shirt, mID, _ := newShirt(t)
		f.products.On("FindByVariantIDs", ctx, mock.Anything).Return([]catalog.Product{*shirt}, nil)

		_, err := f.service.QuoteCart(ctx, QuoteRequest{Items: []CartItemRequest{
			{VariantID: mID, Quantity: 60},
			{VariantID: mID, Quantity: 60},
		}})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	})
}

func TestCheckoutService_ValidateCoupon(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	c, err := coupon.NewCoupon("FIVE", coupon.DiscountTypeFixedAmount, decimal.NewFromInt(5))
	require.NoError(t, err)
	minOrder := decimal.NewFromInt(50)
	require.NoError(t, c.SetMinOrderAmount(&minOrder))
	f.coupons.On("FindByCode", ctx, "FIVE").Return(c, nil)

	result, err := f.service.ValidateCoupon(ctx, ValidateCouponRequest{Code: "five", Subtotal: decimal.NewFromInt(60)})
	require.NoError(t, err)
	assert.True(t, result.Discount.Equal(decimal.NewFromInt(5)))

	_, err = f.service.ValidateCoupon(ctx, ValidateCouponRequest{Code: "five", Subtotal: decimal.NewFromInt(20)})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "COUPON_MIN_ORDER_NOT_MET", domainErr.Code)
}

func TestCheckoutService_PlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("places order, takes stock and redeems coupon", func(t *testing.T) {
		f := newCheckoutFixture()
		shirt, mID, xlID := newShirt(t)
		c, err := coupon.NewCoupon("FIVE", coupon.DiscountTypeFixedAmount, decimal.NewFromInt(5))
		require.NoError(t, err)

		f.products.On("FindByVariantIDs", ctx, []uuid.UUID{mID, xlID}).Return([]catalog.Product{*shirt}, nil)
		f.coupons.On("FindByCode", ctx, "FIVE").Return(c, nil)
		f.inventory.On("Adjust", ctx, mID, -2).Return(nil)
		f.inventory.On("Adjust", ctx, xlID, -2).Return(nil)
		f.coupons.On("IncrementUsage", ctx, c.ID).Return(nil)
		f.orders.On("Create", ctx, mock.AnythingOfType("*order.Order")).Return(nil)

		req := placeRequest(CartItemRequest{VariantID: mID, Quantity: 2}, CartItemRequest{VariantID: xlID, Quantity: 2})
		req.CouponCode = "five"
		req.Notes = "Leave at the door"

		resp, err := f.service.PlaceOrder(ctx, req, "")
		require.NoError(t, err)

		assert.Regexp(t, `^SF-20260601-[0-9A-F]{8}$`, resp.OrderNumber)
		assert.Equal(t, "ada@example.com", resp.CustomerEmail)
		assert.Equal(t, string(order.StatusPending), resp.Status)
		assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(110)))
		assert.True(t, resp.ShippingFee.IsZero())
		assert.True(t, resp.DiscountAmount.Equal(decimal.NewFromInt(5)))
		assert.True(t, resp.Total.Equal(decimal.NewFromInt(105)))
		assert.Equal(t, "FIVE", resp.CouponCode)
		assert.Equal(t, "Leave at the door", resp.Notes)
		assert.Equal(t, "N1 9GU", resp.ShippingAddress.PostalCode())

		assert.Len(t, f.publisher.OfType(order.EventTypeOrderPlaced), 1)
		redeemed := f.publisher.OfType(coupon.EventTypeCouponRedeemed)
		require.Len(t, redeemed, 1)
		assert.Equal(t, resp.OrderNumber, redeemed[0].(*coupon.CouponRedeemedEvent).OrderNumber)

		// XL drops from 2 to 0, M from 10 to 8 stays ok
		stock := f.publisher.OfType(inventory.EventTypeStockLevelChanged)
		require.Len(t, stock, 1)
		changed := stock[0].(*inventory.StockLevelChangedEvent)
		assert.Equal(t, xlID, changed.VariantID)
		assert.Equal(t, inventory.StockStatusOut, changed.Status)

		f.inventory.AssertExpectations(t)
		f.coupons.AssertExpectations(t)
		f.orders.AssertExpectations(t)
	})

	t.Run("not enough stock", func(t *testing.T) {
		f := newCheckoutFixture()
		shirt, _, xlID := newShirt(t)
		f.products.On("FindByVariantIDs", ctx, mock.Anything).Return([]catalog.Product{*shirt}, nil)

		_, err := f.service.PlaceOrder(ctx, placeRequest(CartItemRequest{VariantID: xlID, Quantity: 3}), "")
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		f.inventory.AssertNotCalled(t, "Adjust", mock.Anything, mock.Anything, mock.Anything)
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Empty(t, f.publisher.Events())
	})

	t.Run("stock taken concurrently", func(t *testing.T) {
		f := newCheckoutFixture()
		shirt, mID, _ := newShirt(t)
		f.products.On("FindByVariantIDs", ctx, mock.Anything).Return([]catalog.Product{*shirt}, nil)
		f.inventory.On("Adjust", ctx, mID, -5).Return(shared.ErrInsufficientStock)

		_, err := f.service.PlaceOrder(ctx, placeRequest(CartItemRequest{VariantID: mID, Quantity: 5}), "")
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("inactive product", func(t *testing.T) {
		f := newCheckoutFixture()
		shirt, mID, _ := newShirt(t)
		shirt.Deactivate()
		f.products.On("FindByVariantIDs", ctx, mock.Anything).Return([]catalog.Product{*shirt}, nil)

		_, err := f.service.PlaceOrder(ctx, placeRequest(CartItemRequest{VariantID: mID, Quantity: 1}), "")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ITEM_UNAVAILABLE", domainErr.Code)
	})

	t.Run("exhausted coupon", func(t *testing.T) {
		f := newCheckoutFixture()
		shirt, mID, _ := newShirt(t)
		c, err := coupon.NewCoupon("ONCE", coupon.DiscountTypeFixedAmount, decimal.NewFromInt(5))
		require.NoError(t, err)
		f.products.On("FindByVariantIDs", ctx, mock.Anything).Return([]catalog.Product{*shirt}, nil)
		f.coupons.On("FindByCode", ctx, "ONCE").Return(c, nil)
		f.inventory.On("Adjust", ctx, mID, -1).Return(nil)
		f.coupons.On("IncrementUsage", ctx, c.ID).Return(coupon.ErrCouponUsageLimitReached)

		req := placeRequest(CartItemRequest{VariantID: mID, Quantity: 1})
		req.CouponCode = "ONCE"
		_, err = f.service.PlaceOrder(ctx, req, "")
		assert.ErrorIs(t, err, coupon.ErrCouponUsageLimitReached)
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Empty(t, f.publisher.Events())
	})

	t.Run("invalid address", func(t *testing.T) {
		f := newCheckoutFixture()
		req := placeRequest(CartItemRequest{VariantID: uuid.New(), Quantity: 1})
		req.ShippingAddress.City = ""

		_, err := f.service.PlaceOrder(ctx, req, "")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ADDRESS", domainErr.Code)
	})
}

func TestCheckoutService_PlaceOrder_Idempotency(t *testing.T) {
	ctx := context.Background()

	t.Run("replay returns the first order", func(t *testing.T) {
		f := newCheckoutFixture()
		store := newMemoryIdempotency()
		f.service.WithIdempotencyStore(store)
		shirt, mID, _ := newShirt(t)

		var created *order.Order
		f.products.On("FindByVariantIDs", ctx, mock.Anything).Return([]catalog.Product{*shirt}, nil)
		f.inventory.On("Adjust", ctx, mID, -1).Return(nil).Once()
		f.orders.On("Create", ctx, mock.AnythingOfType("*order.Order")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*order.Order) }).
			Return(nil).Once()

		req := placeRequest(CartItemRequest{VariantID: mID, Quantity: 1})
		first, err := f.service.PlaceOrder(ctx, req, "key-1")
		require.NoError(t, err)
		require.NotNil(t, created)

		f.orders.On("FindByOrderNumber", ctx, first.OrderNumber).Return(created, nil)
		second, err := f.service.PlaceOrder(ctx, req, "key-1")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.OrderNumber, second.OrderNumber)
		assert.False(t, first.Replayed)
		assert.True(t, second.Replayed)
		f.inventory.AssertNumberOfCalls(t, "Adjust", 1)
		f.orders.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("in flight key", func(t *testing.T) {
		f := newCheckoutFixture()
		store := newMemoryIdempotency()
		f.service.WithIdempotencyStore(store)
		_, err := store.Reserve(ctx, "checkout:busy", time.Minute)
		require.NoError(t, err)

		_, err = f.service.PlaceOrder(ctx, placeRequest(CartItemRequest{VariantID: uuid.New(), Quantity: 1}), "busy")
		assert.ErrorIs(t, err, ErrIdempotencyInProgress)
	})

	t.Run("failure releases the key", func(t *testing.T) {
		f := newCheckoutFixture()
		store := newMemoryIdempotency()
		f.service.WithIdempotencyStore(store)
		f.products.On("FindByVariantIDs", ctx, mock.Anything).Return(nil, errors.New("db down"))

		_, err := f.service.PlaceOrder(ctx, placeRequest(CartItemRequest{VariantID: uuid.New(), Quantity: 1}), "retry-me")
		require.Error(t, err)
		_, found, _ := store.Result(ctx, "checkout:retry-me")
		assert.False(t, found)
	})

	t.Run("key too long", func(t *testing.T) {
		f := newCheckoutFixture()
		f.service.WithIdempotencyStore(newMemoryIdempotency())
		long := make([]byte, maxIdempotencyKeyLength+1)
		for i := range long {
			long[i] = 'k'
		}
		_, err := f.service.PlaceOrder(ctx, placeRequest(), string(long))
		assert.ErrorIs(t, err, ErrInvalidIdempotencyKey)
	})
}
