package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence.
// Products are always loaded with their variants.
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySlug finds a product by its slug
	FindBySlug(ctx context.Context, slug string) (*Product, error)

	// FindByVariantIDs returns the products owning any of the given variants
	FindByVariantIDs(ctx context.Context, variantIDs []uuid.UUID) ([]Product, error)

	// List returns a page of products and the total match count.
	// Supported filters: active (bool), featured (bool), category (string),
	// min_price / max_price (decimal).
	List(ctx context.Context, filter shared.Filter) ([]Product, int64, error)

	// ListCategories returns the distinct non-empty categories
	ListCategories(ctx context.Context, activeOnly bool) ([]string, error)

	// ExistsBySlug checks whether another product already uses the slug
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)

	// ExistsBySKU checks whether a variant other than excludeVariantID uses the SKU
	ExistsBySKU(ctx context.Context, sku string, excludeVariantID uuid.UUID) (bool, error)

	// Save creates or updates a product and synchronises its variants.
	// Stock levels of existing variants are not written.
	Save(ctx context.Context, product *Product) error

	// Delete removes a product and its variants
	Delete(ctx context.Context, id uuid.UUID) error
}
