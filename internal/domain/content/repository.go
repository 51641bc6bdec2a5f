package content

import (
	"context"

	"github.com/google/uuid"
)

// SettingsRepository persists the single store settings row
type SettingsRepository interface {
	// Get returns the settings row, or shared.ErrNotFound before the first save
	Get(ctx context.Context) (*StoreSettings, error)

	// Save upserts the settings row
	Save(ctx context.Context, settings *StoreSettings) error
}

// BannerRepository persists hero banners
type BannerRepository interface {
	// List returns banners ordered by sort order
	List(ctx context.Context, activeOnly bool) ([]HeroBanner, error)
	FindByID(ctx context.Context, id uuid.UUID) (*HeroBanner, error)
	Save(ctx context.Context, banner *HeroBanner) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SectionRepository persists homepage sections
type SectionRepository interface {
	// List returns sections ordered by sort order
	List(ctx context.Context, activeOnly bool) ([]HomepageSection, error)
	FindByID(ctx context.Context, id uuid.UUID) (*HomepageSection, error)
	Save(ctx context.Context, section *HomepageSection) error
	Delete(ctx context.Context, id uuid.UUID) error
}
