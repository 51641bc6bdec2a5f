package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry shown on the storefront. It is the aggregate
// root for its variants: variants are added, changed and removed through
// the product so SKU uniqueness within a product and price validity hold.
type Product struct {
	shared.BaseAggregateRoot
	Name        string           `gorm:"type:varchar(200);not null"`
	Slug        string           `gorm:"type:varchar(220);not null;uniqueIndex"`
	Description string           `gorm:"type:text"`
	Category    string           `gorm:"type:varchar(100);index"`
	BasePrice   decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	ImageURL    string           `gorm:"type:varchar(500)"`
	Active      bool             `gorm:"not null;index"`
	Featured    bool             `gorm:"not null;default:false"`
	SortOrder   int              `gorm:"not null;default:0"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;references:ID"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates an active product. The slug is derived from the name;
// callers may override it with SetSlug.
func NewProduct(name string, basePrice decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateBasePrice(basePrice); err != nil {
		return nil, err
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              Slugify(name),
		BasePrice:         basePrice,
		Active:            true,
		Variants:          make([]ProductVariant, 0),
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update changes the descriptive fields of the product
func (p *Product) Update(name, description, category, imageURL string) error {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return err
	}
	if len(category) > 100 {
		return shared.NewDomainError("INVALID_CATEGORY", "Category cannot exceed 100 characters")
	}
	if len(imageURL) > 500 {
		return shared.NewDomainError("INVALID_IMAGE_URL", "Image URL cannot exceed 500 characters")
	}

	p.Name = name
	p.Description = strings.TrimSpace(description)
	p.Category = strings.TrimSpace(category)
	p.ImageURL = strings.TrimSpace(imageURL)
	p.touch()

	return nil
}

// SetSlug sets an explicit slug. The value is normalised first.
func (p *Product) SetSlug(slug string) error {
	normalised := Slugify(slug)
	if strings.TrimSpace(slug) == "" || normalised == "" {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot be empty")
	}
	if len(normalised) > 220 {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot exceed 220 characters")
	}
	p.Slug = normalised
	p.touch()
	return nil
}

// SetBasePrice changes the base price. Every variant must keep a
// non-negative unit price.
func (p *Product) SetBasePrice(price decimal.Decimal) error {
	if err := validateBasePrice(price); err != nil {
		return err
	}
	for _, v := range p.Variants {
		if price.Add(v.PriceModifier).IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Base price would make variant "+v.SKU+" negative")
		}
	}
	p.BasePrice = price
	p.touch()
	return nil
}

// SetSortOrder sets the display position within listings
func (p *Product) SetSortOrder(order int) {
	p.SortOrder = order
	p.touch()
}

// Activate makes the product visible on the storefront
func (p *Product) Activate() {
	if p.Active {
		return
	}
	p.Active = true
	p.touch()
	p.AddDomainEvent(NewProductVisibilityChangedEvent(p))
}

// Deactivate hides the product from the storefront
func (p *Product) Deactivate() {
	if !p.Active {
		return
	}
	p.Active = false
	p.touch()
	p.AddDomainEvent(NewProductVisibilityChangedEvent(p))
}

// SetFeatured marks the product for featured listings
func (p *Product) SetFeatured(featured bool) {
	p.Featured = featured
	p.touch()
}

// AddVariant adds a purchasable variant with its opening stock
func (p *Product) AddVariant(sku, size, color string, priceModifier decimal.Decimal, stock, minStock int) (*ProductVariant, error) {
	sku = NormalizeSKU(sku)
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if p.findVariantBySKU(sku) != nil {
		return nil, shared.NewDomainError("DUPLICATE_SKU", "SKU "+sku+" already exists on this product")
	}
	if p.BasePrice.Add(priceModifier).IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE_MODIFIER", "Price modifier makes the unit price negative")
	}

	variant, err := newProductVariant(p.ID, sku, size, color, priceModifier, stock, minStock)
	if err != nil {
		return nil, err
	}

	p.Variants = append(p.Variants, *variant)
	p.touch()

	return &p.Variants[len(p.Variants)-1], nil
}

// UpdateVariant changes the identifying attributes and pricing of a
// variant. Stock levels are managed through inventory.
func (p *Product) UpdateVariant(variantID uuid.UUID, sku, size, color string, priceModifier decimal.Decimal, active bool) (*ProductVariant, error) {
	variant := p.Variant(variantID)
	if variant == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Variant not found")
	}

	sku = NormalizeSKU(sku)
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if other := p.findVariantBySKU(sku); other != nil && other.ID != variantID {
		return nil, shared.NewDomainError("DUPLICATE_SKU", "SKU "+sku+" already exists on this product")
	}
	if p.BasePrice.Add(priceModifier).IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE_MODIFIER", "Price modifier makes the unit price negative")
	}
	if err := validateVariantAttributes(size, color); err != nil {
		return nil, err
	}

	variant.SKU = sku
	variant.Size = strings.TrimSpace(size)
	variant.Color = strings.TrimSpace(color)
	variant.PriceModifier = priceModifier
	variant.Active = active
	variant.Touch()
	p.touch()

	return variant, nil
}

// RemoveVariant drops a variant from the product
func (p *Product) RemoveVariant(variantID uuid.UUID) error {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			p.Variants = append(p.Variants[:i], p.Variants[i+1:]...)
			p.touch()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Variant not found")
}

// Variant returns the variant with the given ID, or nil
func (p *Product) Variant(variantID uuid.UUID) *ProductVariant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}

// ActiveVariants returns the variants that can be shown to shoppers
func (p *Product) ActiveVariants() []ProductVariant {
	active := make([]ProductVariant, 0, len(p.Variants))
	for _, v := range p.Variants {
		if v.Active {
			active = append(active, v)
		}
	}
	return active
}

// UnitPrice returns the price a shopper pays for one unit of the variant
func (p *Product) UnitPrice(v *ProductVariant) decimal.Decimal {
	return p.BasePrice.Add(v.PriceModifier)
}

// IsPurchasable reports whether the variant can be put in an order
func (p *Product) IsPurchasable(v *ProductVariant) bool {
	return p.Active && v.Active && p.UnitPrice(v).IsPositive()
}

// PriceRange returns the lowest and highest unit price across active variants.
// A product without active variants reports its base price for both.
func (p *Product) PriceRange() (decimal.Decimal, decimal.Decimal) {
	active := p.ActiveVariants()
	if len(active) == 0 {
		return p.BasePrice, p.BasePrice
	}
	low := p.UnitPrice(&active[0])
	high := low
	for i := 1; i < len(active); i++ {
		price := p.UnitPrice(&active[i])
		if price.LessThan(low) {
			low = price
		}
		if price.GreaterThan(high) {
			high = price
		}
	}
	return low, high
}

// TotalStock sums stock over active variants
func (p *Product) TotalStock() int {
	total := 0
	for _, v := range p.ActiveVariants() {
		total += v.Stock
	}
	return total
}

func (p *Product) findVariantBySKU(sku string) *ProductVariant {
	for i := range p.Variants {
		if p.Variants[i].SKU == sku {
			return &p.Variants[i]
		}
	}
	return nil
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validateBasePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Base price cannot be negative")
	}
	return nil
}
