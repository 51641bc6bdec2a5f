package coupon

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// Repository defines the interface for coupon persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Coupon, error)

	// FindByCode looks a coupon up by its normalised code
	FindByCode(ctx context.Context, code string) (*Coupon, error)

	// List returns a page of coupons. Supported filters: active (bool).
	List(ctx context.Context, filter shared.Filter) ([]Coupon, int64, error)

	// ExistsByCode checks whether a coupon other than excludeID uses the code
	ExistsByCode(ctx context.Context, code string, excludeID uuid.UUID) (bool, error)

	// CountActive counts coupons currently switched on
	CountActive(ctx context.Context) (int64, error)

	Save(ctx context.Context, coupon *Coupon) error

	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementUsage atomically bumps used_count, failing with
	// ErrCouponUsageLimitReached when the limit is already met.
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}
