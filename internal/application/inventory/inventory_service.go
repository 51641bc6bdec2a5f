package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/shared"
)

// InventoryService handles stock level operations on variants
type InventoryService struct {
	inventoryRepo  inventory.Repository
	eventPublisher shared.EventPublisher
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(inventoryRepo inventory.Repository, eventPublisher shared.EventPublisher) *InventoryService {
	return &InventoryService{
		inventoryRepo:  inventoryRepo,
		eventPublisher: eventPublisher,
	}
}

// List returns a page of inventory items
func (s *InventoryService) List(ctx context.Context, filter ListFilter) ([]ItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "stock"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
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
		status, err := inventory.ParseStockStatus(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Filters["status"] = status
	}
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}

	items, total, err := s.inventoryRepo.List(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToItemResponses(items), total, nil
}

// Get returns the stock of a single variant
func (s *InventoryService) Get(ctx context.Context, variantID uuid.UUID) (*ItemResponse, error) {
	item, err := s.inventoryRepo.FindByVariantID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// UpdateStock sets absolute stock levels. MinStock keeps its current
// value when omitted.
func (s *InventoryService) UpdateStock(ctx context.Context, variantID uuid.UUID, req UpdateStockRequest) (*ItemResponse, error) {
	before, err := s.inventoryRepo.FindByVariantID(ctx, variantID)
	if err != nil {
		return nil, err
	}

	stock := before.Stock
	if req.Stock != nil {
		stock = *req.Stock
	}
	minStock := before.MinStock
	if req.MinStock != nil {
		minStock = *req.MinStock
	}
	if err := inventory.ValidateLevels(stock, minStock); err != nil {
		return nil, err
	}

	if err := s.inventoryRepo.SetLevels(ctx, variantID, stock, minStock); err != nil {
		return nil, err
	}
	return s.afterChange(ctx, before, "manual update")
}

// AdjustStock adds delta to the stock of a variant. The result may not be
// negative.
func (s *InventoryService) AdjustStock(ctx context.Context, variantID uuid.UUID, req AdjustStockRequest) (*ItemResponse, error) {
	if req.Delta == 0 {
		return nil, shared.NewDomainError("INVALID_DELTA", "Adjustment cannot be zero")
	}

	before, err := s.inventoryRepo.FindByVariantID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if err := s.inventoryRepo.Adjust(ctx, variantID, req.Delta); err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = "manual adjustment"
	}
	return s.afterChange(ctx, before, reason)
}

// Summary returns counters per stock status
func (s *InventoryService) Summary(ctx context.Context) (*SummaryResponse, error) {
	summary, err := s.inventoryRepo.Summary(ctx)
	if err != nil {
		return nil, err
	}
	response := ToSummaryResponse(summary)
	return &response, nil
}

// afterChange reloads the item and publishes a status change event
func (s *InventoryService) afterChange(ctx context.Context, before *inventory.Item, reason string) (*ItemResponse, error) {
	after, err := s.inventoryRepo.FindByVariantID(ctx, before.VariantID)
	if err != nil {
		return nil, err
	}

	if event := inventory.StatusChangeEvent(after, before.Status(), reason); event != nil && s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, event)
	}

	response := ToItemResponse(after)
	return &response, nil
}
