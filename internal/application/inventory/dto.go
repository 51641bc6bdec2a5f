package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// ItemResponse represents a variant's stock in API responses
type ItemResponse struct {
	VariantID   uuid.UUID       `json:"variant_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Stock       int             `json:"stock"`
	MinStock    int             `json:"min_stock"`
	Status      string          `json:"status"`
	Active      bool            `json:"active"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SummaryResponse represents stock health counters
type SummaryResponse struct {
	TotalVariants  int64 `json:"total_variants"`
	OK             int64 `json:"ok"`
	Low            int64 `json:"low"`
	Out            int64 `json:"out"`
	NeedsAttention int64 `json:"needs_attention"`
	TotalUnits     int64 `json:"total_units"`
}

// ListFilter represents filter options for the inventory list
type ListFilter struct {
	Search    string     `form:"search"`
	Status    string     `form:"status" binding:"omitempty,oneof=ok low out"`
	ProductID *uuid.UUID `form:"product_id"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// UpdateStockRequest sets absolute stock levels
type UpdateStockRequest struct {
	Stock    *int `json:"stock" binding:"required,min=0"`
	MinStock *int `json:"min_stock" binding:"omitempty,min=0"`
}

// AdjustStockRequest changes stock by a relative amount
type AdjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required,ne=0"`
	Reason string `json:"reason" binding:"max=200"`
}

// ToItemResponse converts an inventory item to ItemResponse
func ToItemResponse(item *inventory.Item) ItemResponse {
	return ItemResponse{
		VariantID:   item.VariantID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		SKU:         item.SKU,
		Size:        item.Size,
		Color:       item.Color,
		UnitPrice:   item.UnitPrice,
		Stock:       item.Stock,
		MinStock:    item.MinStock,
		Status:      string(item.Status()),
		Active:      item.Active,
		UpdatedAt:   item.UpdatedAt,
	}
}

// ToItemResponses converts inventory items to responses
func ToItemResponses(items []inventory.Item) []ItemResponse {
	responses := make([]ItemResponse, len(items))
	for i := range items {
		responses[i] = ToItemResponse(&items[i])
	}
	return responses
}

// ToSummaryResponse converts a summary to its response
func ToSummaryResponse(s inventory.Summary) SummaryResponse {
	return SummaryResponse{
		TotalVariants:  s.TotalVariants,
		OK:             s.OK,
		Low:            s.Low,
		Out:            s.Out,
		NeedsAttention: s.NeedsAttention(),
		TotalUnits:     s.TotalUnits,
	}
}
