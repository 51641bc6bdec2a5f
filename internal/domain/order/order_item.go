package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a line of a placed order. It is a snapshot of the product and
// variant at checkout and never changes afterwards.
type Item struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null"`
	VariantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName  string          `gorm:"type:varchar(200);not null"`
	VariantLabel string          `gorm:"type:varchar(120)"`
	SKU          string          `gorm:"column:sku;type:varchar(64);not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity     int             `gorm:"not null"`
	LineTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "order_items"
}

// LineInput describes one cart line to be turned into an order item
type LineInput struct {
	ProductID    uuid.UUID
	VariantID    uuid.UUID
	ProductName  string
	VariantLabel string
	SKU          string
	UnitPrice    decimal.Decimal
	Quantity     int
}
