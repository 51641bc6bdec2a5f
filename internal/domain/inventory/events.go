package inventory

import (
	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// AggregateTypeVariant is the aggregate type for stock events
const AggregateTypeVariant = "ProductVariant"

// EventTypeStockLevelChanged is raised when a variant moves between stock statuses
const EventTypeStockLevelChanged = "StockLevelChanged"

// StockLevelChangedEvent records a stock status transition of a variant
type StockLevelChangedEvent struct {
	shared.BaseDomainEvent
	VariantID      uuid.UUID   `json:"variant_id"`
	ProductID      uuid.UUID   `json:"product_id"`
	ProductName    string      `json:"product_name"`
	SKU            string      `json:"sku"`
	PreviousStatus StockStatus `json:"previous_status"`
	Status         StockStatus `json:"status"`
	Stock          int         `json:"stock"`
	MinStock       int         `json:"min_stock"`
	Reason         string      `json:"reason,omitempty"`
}

// NewStockLevelChangedEvent builds the event from the item state after the change
func NewStockLevelChangedEvent(item *Item, previous StockStatus, reason string) *StockLevelChangedEvent {
	return &StockLevelChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockLevelChanged, AggregateTypeVariant, item.VariantID),
		VariantID:       item.VariantID,
		ProductID:       item.ProductID,
		ProductName:     item.ProductName,
		SKU:             item.SKU,
		PreviousStatus:  previous,
		Status:          item.Status(),
		Stock:           item.Stock,
		MinStock:        item.MinStock,
		Reason:          reason,
	}
}

// StatusChangeEvent returns an event when the status moved, or nil
func StatusChangeEvent(item *Item, previous StockStatus, reason string) *StockLevelChangedEvent {
	if item.Status() == previous {
		return nil
	}
	return NewStockLevelChangedEvent(item, previous, reason)
}
