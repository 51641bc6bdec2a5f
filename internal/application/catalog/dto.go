package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// VariantRequest describes a variant to add to a product
type VariantRequest struct {
	SKU           string          `json:"sku" binding:"required,max=64,sku"`
	Size          string          `json:"size" binding:"max=50"`
	Color         string          `json:"color" binding:"max=50"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
	Stock         int             `json:"stock" binding:"min=0"`
	MinStock      *int            `json:"min_stock" binding:"omitempty,min=0"`
}

// UpdateVariantRequest represents a request to update a variant.
// Stock is managed through the inventory endpoints.
type UpdateVariantRequest struct {
	SKU           *string          `json:"sku" binding:"omitempty,max=64,sku"`
	Size          *string          `json:"size" binding:"omitempty,max=50"`
	Color         *string          `json:"color" binding:"omitempty,max=50"`
	PriceModifier *decimal.Decimal `json:"price_modifier"`
	Active        *bool            `json:"active"`
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=200"`
	Slug        string           `json:"slug" binding:"max=220"`
	Description string           `json:"description" binding:"max=5000"`
	Category    string           `json:"category" binding:"max=100"`
	BasePrice   decimal.Decimal  `json:"base_price" binding:"gte=0"`
	ImageURL    string           `json:"image_url" binding:"omitempty,max=500"`
	Active      *bool            `json:"active"`
	Featured    bool             `json:"featured"`
	SortOrder   int              `json:"sort_order"`
	Variants    []VariantRequest `json:"variants" binding:"omitempty,dive"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Slug        *string          `json:"slug" binding:"omitempty,min=1,max=220"`
	Description *string          `json:"description" binding:"omitempty,max=5000"`
	Category    *string          `json:"category" binding:"omitempty,max=100"`
	BasePrice   *decimal.Decimal `json:"base_price" binding:"omitempty,gte=0"`
	ImageURL    *string          `json:"image_url" binding:"omitempty,max=500"`
	SortOrder   *int             `json:"sort_order"`
}

// VariantResponse represents a variant in admin API responses
type VariantResponse struct {
	ID            uuid.UUID       `json:"id"`
	SKU           string          `json:"sku"`
	Size          string          `json:"size"`
	Color         string          `json:"color"`
	Label         string          `json:"label"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Stock         int             `json:"stock"`
	MinStock      int             `json:"min_stock"`
	StockStatus   string          `json:"stock_status"`
	Active        bool            `json:"active"`
}

// ProductResponse represents a product in admin API responses
type ProductResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	BasePrice   decimal.Decimal   `json:"base_price"`
	ImageURL    string            `json:"image_url"`
	Active      bool              `json:"active"`
	Featured    bool              `json:"featured"`
	SortOrder   int               `json:"sort_order"`
	PriceMin    decimal.Decimal   `json:"price_min"`
	PriceMax    decimal.Decimal   `json:"price_max"`
	TotalStock  int               `json:"total_stock"`
	Variants    []VariantResponse `json:"variants"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Version     int               `json:"version"`
}

// ProductListFilter represents filter options for the admin product list
type ProductListFilter struct {
	Search   string   `form:"search"`
	Category string   `form:"category"`
	Active   *bool    `form:"active"`
	Featured *bool    `form:"featured"`
	MinPrice *float64 `form:"min_price" binding:"omitempty,min=0"`
	MaxPrice *float64 `form:"max_price" binding:"omitempty,min=0"`
	Page     int      `form:"page" binding:"omitempty,min=1"`
	PageSize int      `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string   `form:"order_by"`
	OrderDir string   `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// StorefrontVariant is a variant as shown to shoppers
type StorefrontVariant struct {
	ID        uuid.UUID       `json:"id"`
	SKU       string          `json:"sku"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	Label     string          `json:"label"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	InStock   bool            `json:"in_stock"`
	LowStock  bool            `json:"low_stock"`
}

// StorefrontProduct is a product as shown to shoppers
type StorefrontProduct struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Slug        string              `json:"slug"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
	ImageURL    string              `json:"image_url"`
	Featured    bool                `json:"featured"`
	PriceMin    decimal.Decimal     `json:"price_min"`
	PriceMax    decimal.Decimal     `json:"price_max"`
	InStock     bool                `json:"in_stock"`
	Variants    []StorefrontVariant `json:"variants,omitempty"`
}

// StorefrontFilter represents the shopper-facing product query
type StorefrontFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Featured *bool  `form:"featured"`
	Sort     string `form:"sort" binding:"omitempty,oneof=featured newest price_asc price_desc name"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToVariantResponse converts a domain variant to VariantResponse
func ToVariantResponse(p *catalog.Product, v *catalog.ProductVariant) VariantResponse {
	return VariantResponse{
		ID:            v.ID,
		SKU:           v.SKU,
		Size:          v.Size,
		Color:         v.Color,
		Label:         v.Label(),
		PriceModifier: v.PriceModifier,
		UnitPrice:     p.UnitPrice(v),
		Stock:         v.Stock,
		MinStock:      v.MinStock,
		StockStatus:   string(v.StockStatus()),
		Active:        v.Active,
	}
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	low, high := p.PriceRange()
	variants := make([]VariantResponse, len(p.Variants))
	for i := range p.Variants {
		variants[i] = ToVariantResponse(p, &p.Variants[i])
	}
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Category:    p.Category,
		BasePrice:   p.BasePrice,
		ImageURL:    p.ImageURL,
		Active:      p.Active,
		Featured:    p.Featured,
		SortOrder:   p.SortOrder,
		PriceMin:    low,
		PriceMax:    high,
		TotalStock:  p.TotalStock(),
		Variants:    variants,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Version:     p.Version,
	}
}

// ToProductResponses converts a slice of domain Products to ProductResponses
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// ToStorefrontProduct converts a domain Product to the shopper view.
// Only active variants are included when withVariants is set.
func ToStorefrontProduct(p *catalog.Product, withVariants bool) StorefrontProduct {
	low, high := p.PriceRange()
	resp := StorefrontProduct{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		Featured:    p.Featured,
		PriceMin:    low,
		PriceMax:    high,
		InStock:     p.TotalStock() > 0,
	}
	if withVariants {
		active := p.ActiveVariants()
		resp.Variants = make([]StorefrontVariant, len(active))
		for i := range active {
			v := &active[i]
			resp.Variants[i] = StorefrontVariant{
				ID:        v.ID,
				SKU:       v.SKU,
				Size:      v.Size,
				Color:     v.Color,
				Label:     v.Label(),
				UnitPrice: p.UnitPrice(v),
				InStock:   v.Stock > 0,
				LowStock:  v.StockStatus() == inventory.StockStatusLow,
			}
		}
	}
	return resp
}

// ToStorefrontProducts converts products to the shopper list view
func ToStorefrontProducts(products []catalog.Product) []StorefrontProduct {
	responses := make([]StorefrontProduct, len(products))
	for i := range products {
		responses[i] = ToStorefrontProduct(&products[i], false)
	}
	return responses
}
