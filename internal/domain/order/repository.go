package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Repository defines the interface for order persistence.
// Orders are always loaded with their items.
type Repository interface {
	// Create inserts a new order together with its items
	Create(ctx context.Context, order *Order) error

	// Update saves the order row if the stored version still equals
	// expectedVersion, the version the order was loaded with. Items are
	// immutable and never written by Update.
	Update(ctx context.Context, order *Order, expectedVersion int) error

	// FindByID finds an order by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// List returns a page of orders and the total match count. Search
	// matches order number, customer name and email. Supported filters:
	// status (Status), date_from / date_to (time.Time).
	List(ctx context.Context, filter shared.Filter) ([]Order, int64, error)

	// CountByStatus counts orders per status
	CountByStatus(ctx context.Context) (map[Status]int64, error)

	// Revenue sums the totals of orders that were not cancelled
	Revenue(ctx context.Context) (decimal.Decimal, error)

	// CountSince counts orders created at or after since
	CountSince(ctx context.Context, since time.Time) (int64, error)
}
