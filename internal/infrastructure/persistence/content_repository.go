package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/content"
	"github.com/shopfront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSettingsRepository implements content.SettingsRepository using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get returns the settings row
func (r *GormSettingsRepository) Get(ctx context.Context) (*content.StoreSettings, error) {
	var settings content.StoreSettings
	if err := r.db.WithContext(ctx).
		Where(&content.StoreSettings{Key: content.SettingsKey}).
		First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &settings, nil
}

// Save upserts the settings row
func (r *GormSettingsRepository) Save(ctx context.Context, settings *content.StoreSettings) error {
	settings.Key = content.SettingsKey
	return r.db.WithContext(ctx).Save(settings).Error
}

// GormBannerRepository implements content.BannerRepository using GORM
type GormBannerRepository struct {
	db *gorm.DB
}

// NewGormBannerRepository creates a new GormBannerRepository
func NewGormBannerRepository(db *gorm.DB) *GormBannerRepository {
	return &GormBannerRepository{db: db}
}

// List returns banners ordered by sort order
func (r *GormBannerRepository) List(ctx context.Context, activeOnly bool) ([]content.HeroBanner, error) {
	query := r.db.WithContext(ctx).Model(&content.HeroBanner{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var banners []content.HeroBanner
	if err := query.Order("sort_order ASC, created_at ASC").Find(&banners).Error; err != nil {
		return nil, err
	}
	return banners, nil
}

// FindByID finds a banner by its ID
func (r *GormBannerRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.HeroBanner, error) {
	var banner content.HeroBanner
	if err := r.db.WithContext(ctx).First(&banner, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &banner, nil
}

// Save creates or updates a banner
func (r *GormBannerRepository) Save(ctx context.Context, banner *content.HeroBanner) error {
	return r.db.WithContext(ctx).Save(banner).Error
}

// Delete removes a banner
func (r *GormBannerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &content.HeroBanner{}, id)
}

// GormSectionRepository implements content.SectionRepository using GORM
type GormSectionRepository struct {
	db *gorm.DB
}

// NewGormSectionRepository creates a new GormSectionRepository
func NewGormSectionRepository(db *gorm.DB) *GormSectionRepository {
	return &GormSectionRepository{db: db}
}

// List returns sections ordered by sort order
func (r *GormSectionRepository) List(ctx context.Context, activeOnly bool) ([]content.HomepageSection, error) {
	query := r.db.WithContext(ctx).Model(&content.HomepageSection{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var sections []content.HomepageSection
	if err := query.Order("sort_order ASC, created_at ASC").Find(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

// FindByID finds a section by its ID
func (r *GormSectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.HomepageSection, error) {
	var section content.HomepageSection
	if err := r.db.WithContext(ctx).First(&section, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &section, nil
}

// Save creates or updates a section
func (r *GormSectionRepository) Save(ctx context.Context, section *content.HomepageSection) error {
	return r.db.WithContext(ctx).Save(section).Error
}

// Delete removes a section
func (r *GormSectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &content.HomepageSection{}, id)
}

func deleteByID(ctx context.Context, db *gorm.DB, model interface{}, id uuid.UUID) error {
	result := db.WithContext(ctx).Delete(model, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var (
	_ content.SettingsRepository = (*GormSettingsRepository)(nil)
	_ content.BannerRepository   = (*GormBannerRepository)(nil)
	_ content.SectionRepository  = (*GormSectionRepository)(nil)
)
