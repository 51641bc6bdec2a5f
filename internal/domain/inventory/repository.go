package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// Repository reads and mutates variant stock levels
type Repository interface {
	// List returns a page of inventory items.
	// Supported filters: status (StockStatus), product_id (uuid.UUID), active (bool).
	List(ctx context.Context, filter shared.Filter) ([]Item, int64, error)

	// FindByVariantID returns the inventory view of a variant
	FindByVariantID(ctx context.Context, variantID uuid.UUID) (*Item, error)

	// SetLevels overwrites stock and minimum stock of a variant
	SetLevels(ctx context.Context, variantID uuid.UUID, stock, minStock int) error

	// Adjust adds delta to the stock of a variant. It fails with
	// ErrInsufficientStock when the result would be negative, without
	// changing the row.
	Adjust(ctx context.Context, variantID uuid.UUID, delta int) error

	// Summary counts variants per stock status
	Summary(ctx context.Context) (Summary, error)
}
