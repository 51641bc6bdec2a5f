package catalog

import (
	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeProduct is the aggregate type for product events
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated           = "ProductCreated"
	EventTypeProductVisibilityChanged = "ProductVisibilityChanged"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	BasePrice decimal.Decimal `json:"base_price"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Name:            product.Name,
		Slug:            product.Slug,
		BasePrice:       product.BasePrice,
	}
}

// ProductVisibilityChangedEvent is published when a product is activated or deactivated
type ProductVisibilityChangedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Slug      string    `json:"slug"`
	Active    bool      `json:"active"`
}

// NewProductVisibilityChangedEvent creates a new ProductVisibilityChangedEvent
func NewProductVisibilityChangedEvent(product *Product) *ProductVisibilityChangedEvent {
	return &ProductVisibilityChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductVisibilityChanged, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Slug:            product.Slug,
		Active:          product.Active,
	}
}
