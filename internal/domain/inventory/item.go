package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is the inventory view of a product variant
type Item struct {
	VariantID   uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	SKU         string
	Size        string
	Color       string
	UnitPrice   decimal.Decimal
	Stock       int
	MinStock    int
	Active      bool
	UpdatedAt   time.Time
}

// Status derives the stock status of the item
func (i *Item) Status() StockStatus {
	return DeriveStockStatus(i.Stock, i.MinStock)
}

// Summary aggregates stock health across all variants
type Summary struct {
	TotalVariants int64
	OK            int64
	Low           int64
	Out           int64
	TotalUnits    int64
}

// NeedsAttention returns the number of low and out-of-stock variants
func (s Summary) NeedsAttention() int64 {
	return s.Low + s.Out
}
