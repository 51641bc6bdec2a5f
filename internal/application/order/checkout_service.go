package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	appcoupon "github.com/shopfront/backend/internal/application/coupon"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/coupon"
	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/pricing"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxIdempotencyKeyLength bounds client supplied Idempotency-Key headers
const maxIdempotencyKeyLength = 200

// Checkout errors
var (
	ErrIdempotencyInProgress = shared.NewDomainError("IDEMPOTENCY_IN_PROGRESS", "A request with this idempotency key is still being processed")
	ErrInvalidIdempotencyKey = shared.NewDomainError("INVALID_IDEMPOTENCY_KEY", fmt.Sprintf("Idempotency key cannot exceed %d characters", maxIdempotencyKeyLength))
)

// ShippingPolicyProvider supplies the shipping rules in force
type ShippingPolicyProvider interface {
	ShippingPolicy(ctx context.Context) (pricing.ShippingPolicy, error)
}

// CheckoutConfig holds checkout settings
type CheckoutConfig struct {
	// OrderNumberPrefix is prepended to generated order numbers
	OrderNumberPrefix string
	// IdempotencyTTL is how long a completed Idempotency-Key is remembered
	IdempotencyTTL time.Duration
}

// CheckoutService prices carts and places orders
type CheckoutService struct {
	txScope     TransactionScope
	productRepo catalog.ProductRepository
	couponRepo  coupon.Repository
	orderRepo   order.Repository
	shipping    ShippingPolicyProvider
	publisher   shared.EventPublisher
	idempotency shared.IdempotencyStore
	cfg         CheckoutConfig
	logger      *zap.Logger
	now         func() time.Time
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	txScope TransactionScope,
	productRepo catalog.ProductRepository,
	couponRepo coupon.Repository,
	orderRepo order.Repository,
	shipping ShippingPolicyProvider,
	publisher shared.EventPublisher,
	cfg CheckoutConfig,
) *CheckoutService {
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = shared.DefaultIdempotencyConfig().TTL
	}
	return &CheckoutService{
		txScope:     txScope,
		productRepo: productRepo,
		couponRepo:  couponRepo,
		orderRepo:   orderRepo,
		shipping:    shipping,
		publisher:   publisher,
		cfg:         cfg,
		logger:      zap.NewNop(),
		now:         time.Now,
	}
}

// WithIdempotencyStore enables Idempotency-Key handling for PlaceOrder
func (s *CheckoutService) WithIdempotencyStore(store shared.IdempotencyStore) *CheckoutService {
	s.idempotency = store
	return s
}

// WithLogger sets the logger
func (s *CheckoutService) WithLogger(logger *zap.Logger) *CheckoutService {
	s.logger = logger
	return s
}

// WithClock overrides the time source
func (s *CheckoutService) WithClock(now func() time.Time) *CheckoutService {
	s.now = now
	return s
}

// QuoteCart prices a cart. An inapplicable coupon does not fail the quote;
// the reason is reported in CouponError instead.
func (s *CheckoutService) QuoteCart(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	lines, err := loadCart(ctx, s.productRepo, req.Items)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		if !l.product.IsPurchasable(l.variant) {
			return nil, unavailable(l)
		}
	}

	policy, err := s.shipping.ShippingPolicy(ctx)
	if err != nil {
		return nil, err
	}

	response := &QuoteResponse{Items: make([]QuoteLine, len(lines))}
	var discounter pricing.Discounter
	if code := strings.TrimSpace(req.CouponCode); code != "" {
		c, err := appcoupon.FindApplicable(ctx, s.couponRepo, code, cartSubtotal(lines), s.now())
		var domainErr *shared.DomainError
		switch {
		case err == nil:
			discounter = c
			response.CouponCode = c.Code
		case errors.As(err, &domainErr):
			response.CouponError = domainErr.Message
		default:
			return nil, err
		}
	}

	priced := make([]pricing.Line, len(lines))
	for i, l := range lines {
		priced[i] = l.pricingLine()
		response.Items[i] = QuoteLine{
			VariantID:    l.variant.ID,
			ProductID:    l.product.ID,
			ProductName:  l.product.Name,
			ProductSlug:  l.product.Slug,
			VariantLabel: l.variant.Label(),
			SKU:          l.variant.SKU,
			ImageURL:     l.product.ImageURL,
			UnitPrice:    l.unitPrice(),
			Quantity:     l.quantity,
			LineTotal:    priced[i].Total().Round(2),
			Available:    l.variant.Stock,
		}
	}

	breakdown := pricing.Quote(priced, policy, discounter)
	response.Subtotal = breakdown.Subtotal.Round(2)
	response.ShippingFee = breakdown.Shipping.Round(2)
	response.Discount = breakdown.Discount.Round(2)
	response.Total = breakdown.Total.Round(2)
	return response, nil
}

// ValidateCoupon checks a coupon code against a cart subtotal
func (s *CheckoutService) ValidateCoupon(ctx context.Context, req ValidateCouponRequest) (*appcoupon.ValidationResult, error) {
	c, err := appcoupon.FindApplicable(ctx, s.couponRepo, req.Code, req.Subtotal, s.now())
	if err != nil {
		return nil, err
	}
	return &appcoupon.ValidationResult{
		Code:         c.Code,
		Description:  c.Description,
		DiscountType: string(c.DiscountType),
		Value:        c.Value,
		Subtotal:     req.Subtotal,
		Discount:     c.Discount(req.Subtotal).Round(2),
	}, nil
}

// PlaceOrder validates the cart, reserves stock, redeems the coupon and
// stores the order in one transaction. A repeated idempotencyKey returns
// the order created by the first request.
func (s *CheckoutService) PlaceOrder(ctx context.Context, req PlaceOrderRequest, idempotencyKey string) (*OrderResponse, error) {
	key := strings.TrimSpace(idempotencyKey)
	if key == "" || s.idempotency == nil {
		return s.placeOrder(ctx, req)
	}
	if len(key) > maxIdempotencyKeyLength {
		return nil, ErrInvalidIdempotencyKey
	}
	storeKey := "checkout:" + key

	reserved, err := s.idempotency.Reserve(ctx, storeKey, s.cfg.IdempotencyTTL)
	if err != nil {
		s.logger.Warn("idempotency store unavailable, placing order without key",
			zap.String("idempotency_key", key), zap.Error(err))
		return s.placeOrder(ctx, req)
	}
	if !reserved {
		return s.replay(ctx, storeKey)
	}

	response, err := s.placeOrder(ctx, req)
	if err != nil {
		if releaseErr := s.idempotency.Release(ctx, storeKey); releaseErr != nil {
			s.logger.Warn("failed to release idempotency key",
				zap.String("idempotency_key", key), zap.Error(releaseErr))
		}
		return nil, err
	}
	if err := s.idempotency.Complete(ctx, storeKey, response.OrderNumber, s.cfg.IdempotencyTTL); err != nil {
		s.logger.Warn("failed to complete idempotency key",
			zap.String("idempotency_key", key), zap.String("order_number", response.OrderNumber), zap.Error(err))
	}
	return response, nil
}

func (s *CheckoutService) replay(ctx context.Context, storeKey string) (*OrderResponse, error) {
	orderNumber, found, err := s.idempotency.Result(ctx, storeKey)
	if err != nil {
		return nil, err
	}
	if !found || orderNumber == "" {
		return nil, ErrIdempotencyInProgress
	}
	o, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	response.Replayed = true
	return &response, nil
}

func (s *CheckoutService) placeOrder(ctx context.Context, req PlaceOrderRequest) (*OrderResponse, error) {
	customer := order.Customer{
		Name:  req.CustomerName,
		Email: req.CustomerEmail,
		Phone: req.CustomerPhone,
	}
	address, err := req.ShippingAddress.ToAddress()
	if err != nil {
		return nil, err
	}
	policy, err := s.shipping.ShippingPolicy(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	orderNumber := order.GenerateOrderNumber(s.cfg.OrderNumberPrefix, now)

	var (
		placed      *order.Order
		afterCommit []shared.DomainEvent
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		afterCommit = nil

		lines, err := loadCart(ctx, repos.ProductRepo(), req.Items)
		if err != nil {
			return err
		}
		inputs := make([]order.LineInput, len(lines))
		for i, l := range lines {
			if !l.product.IsPurchasable(l.variant) {
				return unavailable(l)
			}
			if !l.variant.HasStock(l.quantity) {
				return insufficientStock(l)
			}
			inputs[i] = l.lineInput()
		}

		var (
			applied *order.AppliedCoupon
			c       *coupon.Coupon
		)
		if code := strings.TrimSpace(req.CouponCode); code != "" {
			c, err = appcoupon.FindApplicable(ctx, repos.CouponRepo(), code, cartSubtotal(lines), now)
			if err != nil {
				return err
			}
			applied = &order.AppliedCoupon{ID: c.ID, Code: c.Code, Discounter: c}
		}

		o, err := order.NewOrder(orderNumber, customer, address, inputs, policy, applied)
		if err != nil {
			return err
		}
		if err := o.SetNotes(req.Notes); err != nil {
			return err
		}

		reason := "order " + orderNumber
		for _, l := range lines {
			if err := repos.InventoryRepo().Adjust(ctx, l.variant.ID, -l.quantity); err != nil {
				if errors.Is(err, shared.ErrInsufficientStock) {
					return insufficientStock(l)
				}
				return err
			}
			before := l.inventoryItem()
			after := *before
			after.Stock -= l.quantity
			if event := inventory.StatusChangeEvent(&after, before.Status(), reason); event != nil {
				afterCommit = append(afterCommit, event)
			}
		}

		if c != nil {
			if err := c.Redeem(orderNumber, o.DiscountAmount); err != nil {
				return err
			}
			if err := repos.CouponRepo().IncrementUsage(ctx, c.ID); err != nil {
				return err
			}
			afterCommit = append(afterCommit, c.PullDomainEvents()...)
		}

		if err := repos.OrderRepo().Create(ctx, o); err != nil {
			return err
		}
		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	events := append(placed.PullDomainEvents(), afterCommit...)
	publishEvents(ctx, s.publisher, s.logger, events)

	s.logger.Info("order placed",
		zap.String("order_number", placed.OrderNumber),
		zap.String("total", placed.Total.StringFixed(2)),
		zap.Int("items", placed.ItemCount()),
	)

	response := ToOrderResponse(placed)
	return &response, nil
}

// cartLine is a cart item resolved against the catalog
type cartLine struct {
	product  *catalog.Product
	variant  *catalog.ProductVariant
	quantity int
}

func (l cartLine) unitPrice() decimal.Decimal {
	return l.product.UnitPrice(l.variant)
}

func (l cartLine) pricingLine() pricing.Line {
	return pricing.Line{UnitPrice: l.unitPrice(), Quantity: l.quantity}
}

func (l cartLine) lineInput() order.LineInput {
	return order.LineInput{
		ProductID:    l.product.ID,
		VariantID:    l.variant.ID,
		ProductName:  l.product.Name,
		VariantLabel: l.variant.Label(),
		SKU:          l.variant.SKU,
		UnitPrice:    l.unitPrice(),
		Quantity:     l.quantity,
	}
}

func (l cartLine) inventoryItem() *inventory.Item {
	return &inventory.Item{
		VariantID:   l.variant.ID,
		ProductID:   l.product.ID,
		ProductName: l.product.Name,
		SKU:         l.variant.SKU,
		Size:        l.variant.Size,
		Color:       l.variant.Color,
		UnitPrice:   l.unitPrice(),
		Stock:       l.variant.Stock,
		MinStock:    l.variant.MinStock,
		Active:      l.variant.Active,
	}
}

// loadCart merges repeated variants and resolves every line against the
// catalog, keeping the order in which variants first appear.
func loadCart(ctx context.Context, repo catalog.ProductRepository, items []CartItemRequest) ([]cartLine, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Cart is empty")
	}

	quantities := make(map[uuid.UUID]int, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
		}
		if _, seen := quantities[item.VariantID]; !seen {
			ids = append(ids, item.VariantID)
		}
		quantities[item.VariantID] += item.Quantity
	}

	products, err := repo.FindByVariantIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]cartLine, 0, len(ids))
	for _, id := range ids {
		line, ok := findVariant(products, id)
		if !ok {
			return nil, shared.NewDomainError("ITEM_UNAVAILABLE", "An item in your cart is no longer available")
		}
		line.quantity = quantities[id]
		if line.quantity > order.MaxLineQuantity {
			return nil, shared.NewDomainError("INVALID_QUANTITY",
				fmt.Sprintf("Quantity for %s cannot exceed %d", line.variant.SKU, order.MaxLineQuantity))
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func findVariant(products []catalog.Product, variantID uuid.UUID) (cartLine, bool) {
	for i := range products {
		if v := products[i].Variant(variantID); v != nil {
			return cartLine{product: &products[i], variant: v}, true
		}
	}
	return cartLine{}, false
}

func cartSubtotal(lines []cartLine) decimal.Decimal {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.pricingLine().Total())
	}
	return subtotal
}

func unavailable(l cartLine) error {
	name := l.product.Name
	if label := l.variant.Label(); label != "" {
		name += " (" + label + ")"
	}
	return shared.NewDomainError("ITEM_UNAVAILABLE", fmt.Sprintf("%s is not available for purchase", name))
}

func insufficientStock(l cartLine) error {
	return shared.NewDomainError("INSUFFICIENT_STOCK",
		fmt.Sprintf("Only %d of %s left in stock", l.variant.Stock, l.variant.SKU))
}

// publishEvents publishes events after commit. Failures are logged since
// the state change has already been persisted.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, events []shared.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Warn("failed to publish domain events", zap.Int("count", len(events)), zap.Error(err))
	}
}
