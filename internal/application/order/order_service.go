package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrOrderNotFound is returned when tracking details do not match an order.
// Wrong number and wrong email are indistinguishable.
var ErrOrderNotFound = shared.NewDomainError("NOT_FOUND", "No order matches that order number and email")

// OrderService handles order tracking and administration
type OrderService struct {
	orderRepo order.Repository
	txScope   TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo order.Repository, txScope TransactionScope, publisher shared.EventPublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		txScope:   txScope,
		publisher: publisher,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
}

// WithLogger sets the logger
func (s *OrderService) WithLogger(logger *zap.Logger) *OrderService {
	s.logger = logger
	return s
}

// WithClock overrides the time source
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// Track returns the customer view of an order. The email must match the
// one used at checkout, ignoring case.
func (s *OrderService) Track(ctx context.Context, req TrackOrderRequest) (*TrackingResponse, error) {
	number := order.NormalizeOrderNumber(req.OrderNumber)
	if number == "" {
		return nil, ErrOrderNotFound
	}

	o, err := s.orderRepo.FindByOrderNumber(ctx, number)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !o.MatchesEmail(req.Email) {
		return nil, ErrOrderNotFound
	}

	response := ToTrackingResponse(o)
	return &response, nil
}

// List retrieves a page of orders
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderSummaryResponse, int64, error) {
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
	if filter.Status != "" {
		status, err := order.ParseStatus(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Filters["status"] = status
	}
	if filter.DateFrom != nil {
		domainFilter.Filters["date_from"] = *filter.DateFrom
	}
	if filter.DateTo != nil {
		// date_to is inclusive of the whole day
		domainFilter.Filters["date_to"] = filter.DateTo.Add(24*time.Hour - time.Nanosecond)
	}

	orders, total, err := s.orderRepo.List(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToOrderSummaryResponses(orders), total, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// UpdateStatus moves an order to a new status. Sending the current status
// together with a tracking number only updates the tracking number.
// Cancelling returns the ordered quantities to stock.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var (
		updated     *order.Order
		afterCommit []shared.DomainEvent
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		afterCommit = nil

		o, err := repos.OrderRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		loadedVersion := o.Version

		trackingOnly := req.TrackingNumber != nil && target == o.Status
		if req.TrackingNumber != nil {
			if err := o.SetTrackingNumber(*req.TrackingNumber); err != nil {
				return err
			}
		}
		if !trackingOnly {
			if err := o.TransitionTo(target, req.Note, now); err != nil {
				return err
			}
		}

		if o.IsCancelled() && !trackingOnly {
			events, err := restock(ctx, repos.InventoryRepo(), o, s.logger)
			if err != nil {
				return err
			}
			afterCommit = events
		}

		if err := repos.OrderRepo().Update(ctx, o, loadedVersion); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	events := append(updated.PullDomainEvents(), afterCommit...)
	publishEvents(ctx, s.publisher, s.logger, events)

	response := ToOrderResponse(updated)
	return &response, nil
}

// Stats returns order counters for the admin console
func (s *OrderService) Stats(ctx context.Context) (*StatsResponse, error) {
	counts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.orderRepo.Revenue(ctx)
	if err != nil {
		return nil, err
	}
	today, err := s.orderRepo.CountSince(ctx, StartOfDay(s.now()))
	if err != nil {
		return nil, err
	}

	response := &StatsResponse{
		ByStatus:    make(map[string]int64, len(order.AllStatuses())),
		Revenue:     revenue.Round(2),
		OrdersToday: today,
	}
	for _, status := range order.AllStatuses() {
		n := counts[status]
		response.ByStatus[string(status)] = n
		response.TotalOrders += n
	}
	return response, nil
}

// StartOfDay truncates t to midnight in its location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// restock returns the items of a cancelled order to stock. Variants deleted
// since the order was placed are skipped.
func restock(ctx context.Context, repo inventory.Repository, o *order.Order, logger *zap.Logger) ([]shared.DomainEvent, error) {
	reason := "order " + o.OrderNumber + " cancelled"
	var events []shared.DomainEvent
	for _, item := range o.Items {
		if err := repo.Adjust(ctx, item.VariantID, item.Quantity); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				logger.Info("skipping restock of removed variant",
					zap.String("order_number", o.OrderNumber), zap.String("sku", item.SKU))
				continue
			}
			return nil, err
		}

		after, err := repo.FindByVariantID(ctx, item.VariantID)
		if err != nil {
			return nil, err
		}
		previous := inventory.DeriveStockStatus(after.Stock-item.Quantity, after.MinStock)
		if event := inventory.StatusChangeEvent(after, previous, reason); event != nil {
			events = append(events, event)
		}
	}
	return events, nil
}
