package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductVariant is a purchasable size/colour configuration of a product.
// It is also the unit of inventory.
type ProductVariant struct {
	shared.BaseEntity
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU           string          `gorm:"column:sku;type:varchar(64);not null;uniqueIndex"`
	Size          string          `gorm:"type:varchar(50)"`
	Color         string          `gorm:"type:varchar(50)"`
	PriceModifier decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Stock         int             `gorm:"not null;default:0"`
	MinStock      int             `gorm:"not null;default:0"`
	Active        bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductVariant) TableName() string {
	return "product_variants"
}

func newProductVariant(productID uuid.UUID, sku, size, color string, priceModifier decimal.Decimal, stock, minStock int) (*ProductVariant, error) {
	if err := validateVariantAttributes(size, color); err != nil {
		return nil, err
	}
	if err := inventory.ValidateLevels(stock, minStock); err != nil {
		return nil, err
	}
	return &ProductVariant{
		BaseEntity:    shared.NewBaseEntity(),
		ProductID:     productID,
		SKU:           sku,
		Size:          strings.TrimSpace(size),
		Color:         strings.TrimSpace(color),
		PriceModifier: priceModifier,
		Stock:         stock,
		MinStock:      minStock,
		Active:        true,
	}, nil
}

// Label returns a human readable description such as "M / Navy"
func (v *ProductVariant) Label() string {
	parts := make([]string, 0, 2)
	if v.Size != "" {
		parts = append(parts, v.Size)
	}
	if v.Color != "" {
		parts = append(parts, v.Color)
	}
	if len(parts) == 0 {
		return v.SKU
	}
	return strings.Join(parts, " / ")
}

// StockStatus derives the inventory status of the variant
func (v *ProductVariant) StockStatus() inventory.StockStatus {
	return inventory.DeriveStockStatus(v.Stock, v.MinStock)
}

// HasStock reports whether quantity units can be taken
func (v *ProductVariant) HasStock(quantity int) bool {
	return quantity > 0 && v.Stock >= quantity
}

// NormalizeSKU trims and upper-cases a SKU
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 64 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 64 characters")
	}
	for _, r := range sku {
		if !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' || r == '.') {
			return shared.NewDomainError("INVALID_SKU", fmt.Sprintf("SKU contains invalid character %q", r))
		}
	}
	return nil
}

func validateVariantAttributes(size, color string) error {
	if len(strings.TrimSpace(size)) > 50 {
		return shared.NewDomainError("INVALID_VARIANT", "Size cannot exceed 50 characters")
	}
	if len(strings.TrimSpace(color)) > 50 {
		return shared.NewDomainError("INVALID_VARIANT", "Color cannot exceed 50 characters")
	}
	return nil
}
