package dashboard

import (
	"context"
	"time"

	"github.com/shopfront/backend/internal/application/inventory"
	apporder "github.com/shopfront/backend/internal/application/order"
	domaincoupon "github.com/shopfront/backend/internal/domain/coupon"
	domaininventory "github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RecentOrderLimit is the number of orders shown on the dashboard
const RecentOrderLimit = 5

// Response is the admin dashboard overview
type Response struct {
	TotalOrders    int64                           `json:"total_orders"`
	OrdersByStatus map[string]int64                `json:"orders_by_status"`
	Revenue        decimal.Decimal                 `json:"revenue"`
	OrdersToday    int64                           `json:"orders_today"`
	Inventory      inventory.SummaryResponse       `json:"inventory"`
	ActiveCoupons  int64                           `json:"active_coupons"`
	RecentOrders   []apporder.OrderSummaryResponse `json:"recent_orders"`
	GeneratedAt    time.Time                       `json:"generated_at"`
}

// Service aggregates read models for the dashboard
type Service struct {
	orderRepo     order.Repository
	inventoryRepo domaininventory.Repository
	couponRepo    domaincoupon.Repository
	now           func() time.Time
}

// NewService creates a new dashboard service
func NewService(orderRepo order.Repository, inventoryRepo domaininventory.Repository, couponRepo domaincoupon.Repository) *Service {
	return &Service{
		orderRepo:     orderRepo,
		inventoryRepo: inventoryRepo,
		couponRepo:    couponRepo,
		now:           time.Now,
	}
}

// WithClock overrides the time source that defines "today"
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Get builds the dashboard. Revenue excludes cancelled orders.
func (s *Service) Get(ctx context.Context) (*Response, error) {
	now := s.now()

	counts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.orderRepo.Revenue(ctx)
	if err != nil {
		return nil, err
	}
	today, err := s.orderRepo.CountSince(ctx, apporder.StartOfDay(now))
	if err != nil {
		return nil, err
	}
	summary, err := s.inventoryRepo.Summary(ctx)
	if err != nil {
		return nil, err
	}
	activeCoupons, err := s.couponRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	recent, _, err := s.orderRepo.List(ctx, shared.Filter{
		Page:     1,
		PageSize: RecentOrderLimit,
		OrderBy:  "created_at",
		OrderDir: "desc",
	})
	if err != nil {
		return nil, err
	}

	resp := &Response{
		OrdersByStatus: make(map[string]int64, len(order.AllStatuses())),
		Revenue:        revenue.Round(2),
		OrdersToday:    today,
		Inventory:      inventory.ToSummaryResponse(summary),
		ActiveCoupons:  activeCoupons,
		RecentOrders:   apporder.ToOrderSummaryResponses(recent),
		GeneratedAt:    now,
	}
	for _, status := range order.AllStatuses() {
		n := counts[status]
		resp.OrdersByStatus[string(status)] = n
		resp.TotalOrders += n
	}
	return resp, nil
}
