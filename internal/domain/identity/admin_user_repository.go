package identity

import (
	"context"

	"github.com/google/uuid"
)

// AdminUserRepository defines the interface for admin account persistence
type AdminUserRepository interface {
	// FindByID finds an admin by ID
	FindByID(ctx context.Context, id uuid.UUID) (*AdminUser, error)

	// FindByEmail finds an admin by normalised email
	FindByEmail(ctx context.Context, email string) (*AdminUser, error)

	// Save creates or updates an admin
	Save(ctx context.Context, user *AdminUser) error

	// Count returns the number of admin accounts
	Count(ctx context.Context) (int64, error)
}
