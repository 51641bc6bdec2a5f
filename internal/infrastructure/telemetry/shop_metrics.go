package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when a metrics constructor gets no meter
var ErrMeterNil = &MetricsError{Op: "NewShopMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// StockLevels is a snapshot of variant counts per stock status
type StockLevels struct {
	OK  int64
	Low int64
	Out int64
}

// StockLevelsFunc returns the current stock level snapshot
type StockLevelsFunc func(ctx context.Context) (StockLevels, error)

// ShopMetrics records storefront business metrics: orders, revenue,
// status transitions, coupon use and stock health.
type ShopMetrics struct {
	logger *zap.Logger

	ordersPlaced       *Counter
	orderRevenueCents  *Counter
	statusChanges      *Counter
	couponRedemptions  *Counter
	couponDiscountCent *Counter
	stockVariants      *Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
}

// ShopMetricsConfig holds configuration for shop metrics
type ShopMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewShopMetrics creates the shop instruments on the given meter
func NewShopMetrics(cfg ShopMetricsConfig) (*ShopMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sm := &ShopMetrics{logger: logger, stopChan: make(chan struct{})}

	var err error
	if sm.ordersPlaced, err = NewCounter(cfg.Meter, "shop_orders_placed_total", "Orders placed through checkout", "{orders}"); err != nil {
		return nil, err
	}
	if sm.orderRevenueCents, err = NewCounter(cfg.Meter, "shop_order_revenue_cents_total", "Order totals at placement in minor currency units", "{cents}"); err != nil {
		return nil, err
	}
	if sm.statusChanges, err = NewCounter(cfg.Meter, "shop_order_status_changes_total", "Order status transitions", "{transitions}"); err != nil {
		return nil, err
	}
	if sm.couponRedemptions, err = NewCounter(cfg.Meter, "shop_coupon_redemptions_total", "Coupons redeemed on placed orders", "{redemptions}"); err != nil {
		return nil, err
	}
	if sm.couponDiscountCent, err = NewCounter(cfg.Meter, "shop_coupon_discount_cents_total", "Discount granted by coupons in minor currency units", "{cents}"); err != nil {
		return nil, err
	}
	if sm.stockVariants, err = NewGauge(cfg.Meter, "shop_inventory_variants", "Variants per stock status", "{variants}"); err != nil {
		return nil, err
	}

	return sm, nil
}

func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// RecordOrderPlaced counts a placed order and its total
func (sm *ShopMetrics) RecordOrderPlaced(ctx context.Context, total decimal.Decimal, hasCoupon bool) {
	sm.ordersPlaced.Inc(ctx, AttrHasCoupon.Bool(hasCoupon))
	sm.orderRevenueCents.Add(ctx, toCents(total), AttrHasCoupon.Bool(hasCoupon))
}

// RecordStatusChange counts an order status transition
func (sm *ShopMetrics) RecordStatusChange(ctx context.Context, from, to string) {
	sm.statusChanges.Inc(ctx, AttrFromStatus.String(from), AttrOrderStatus.String(to))
}

// RecordCouponRedeemed counts a coupon redemption and the discount it gave
func (sm *ShopMetrics) RecordCouponRedeemed(ctx context.Context, code string, discount decimal.Decimal) {
	sm.couponRedemptions.Inc(ctx, AttrCouponCode.String(code))
	sm.couponDiscountCent.Add(ctx, toCents(discount), AttrCouponCode.String(code))
}

// RecordStockLevels records the variant count per stock status
func (sm *ShopMetrics) RecordStockLevels(ctx context.Context, levels StockLevels) {
	sm.stockVariants.Record(ctx, levels.OK, AttrStockStatus.String("ok"))
	sm.stockVariants.Record(ctx, levels.Low, AttrStockStatus.String("low"))
	sm.stockVariants.Record(ctx, levels.Out, AttrStockStatus.String("out"))
}

// StartStockCollection samples stock levels every interval until Stop is
// called or ctx ends. It returns immediately.
func (sm *ShopMetrics) StartStockCollection(ctx context.Context, levels StockLevelsFunc, interval time.Duration) {
	sm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go sm.runStockCollection(ctx, levels, interval)
	})
}

func (sm *ShopMetrics) runStockCollection(ctx context.Context, levels StockLevelsFunc, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sm.collectStock(ctx, levels)
	for {
		select {
		case <-sm.stopChan:
			sm.logger.Info("Stopping stock metrics collection")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			sm.collectStock(ctx, levels)
		}
	}
}

func (sm *ShopMetrics) collectStock(ctx context.Context, levels StockLevelsFunc) {
	snapshot, err := levels(ctx)
	if err != nil {
		sm.logger.Warn("Failed to collect stock levels for metrics", zap.Error(err))
		return
	}
	sm.RecordStockLevels(ctx, snapshot)
}

// Stop stops periodic collection
func (sm *ShopMetrics) Stop() {
	sm.stopOnce.Do(func() {
		close(sm.stopChan)
	})
}
