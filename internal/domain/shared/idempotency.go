package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers client supplied idempotency keys so that a
// retried request resolves to the result of the first one.
//
// A key moves through two states: reserved (request in flight) and
// completed (a result reference is stored). Released keys may be reserved
// again.
type IdempotencyStore interface {
	// Reserve claims the key. It returns false if the key is already
	// reserved or completed.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Complete stores the result reference for a reserved key.
	Complete(ctx context.Context, key, result string, ttl time.Duration) error

	// Result returns the stored result reference. found is false when the
	// key is unknown; an empty result with found=true means the original
	// request is still in flight.
	Result(ctx context.Context, key string) (result string, found bool, err error)

	// Release drops a reservation after the guarded operation failed.
	Release(ctx context.Context, key string) error

	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a completed key is remembered. Default: 24 hours
	TTL time.Duration
	// Enabled determines whether idempotency checking is enabled
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
