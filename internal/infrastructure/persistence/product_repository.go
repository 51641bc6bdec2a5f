package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func preloadVariants(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, sku ASC")
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Variants", preloadVariants).
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindBySlug finds a product by its slug
func (r *GormProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Variants", preloadVariants).
		Where("slug = ?", slug).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByVariantIDs returns the products owning any of the given variants
func (r *GormProductRepository) FindByVariantIDs(ctx context.Context, variantIDs []uuid.UUID) ([]catalog.Product, error) {
	if len(variantIDs) == 0 {
		return []catalog.Product{}, nil
	}
	var products []catalog.Product
	sub := r.db.Model(&catalog.ProductVariant{}).Select("product_id").Where("id IN ?", variantIDs)
	if err := r.db.WithContext(ctx).
		Preload("Variants", preloadVariants).
		Where("id IN (?)", sub).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// List returns a page of products and the total match count
func (r *GormProductRepository) List(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []catalog.Product
	query = applySorting(query, filter, ProductSortFields, "sort_order")
	if err := applyPagination(query, filter).
		Preload("Variants", preloadVariants).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			"LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\' OR LOWER(category) LIKE ? ESCAPE '\\'",
			pattern, pattern, pattern,
		)
	}
	for key, value := range filter.Filters {
		switch key {
		case "active":
			if v, ok := value.(bool); ok {
				query = query.Where("active = ?", v)
			}
		case "featured":
			if v, ok := value.(bool); ok {
				query = query.Where("featured = ?", v)
			}
		case "category":
			if v, ok := value.(string); ok && v != "" {
				query = query.Where("category = ?", v)
			}
		case "min_price":
			if v, ok := value.(decimal.Decimal); ok {
				query = query.Where("base_price >= ?", v)
			}
		case "max_price":
			if v, ok := value.(decimal.Decimal); ok {
				query = query.Where("base_price <= ?", v)
			}
		}
	}
	return query
}

// ListCategories returns the distinct non-empty categories
func (r *GormProductRepository) ListCategories(ctx context.Context, activeOnly bool) ([]string, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Product{}).Where("category <> ''")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var categories []string
	if err := query.Distinct("category").Order("category ASC").Pluck("category", &categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// ExistsBySlug checks whether another product already uses the slug
func (r *GormProductRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.Product{}).Where("slug = ?", slug)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsBySKU checks whether a variant other than excludeVariantID uses the SKU
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, sku string, excludeVariantID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.ProductVariant{}).Where("sku = ?", catalog.NormalizeSKU(sku))
	if excludeVariantID != uuid.Nil {
		query = query.Where("id <> ?", excludeVariantID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// variantColumns are written when an existing variant changes. Stock
// levels belong to inventory and are left alone.
var variantColumns = []string{"sku", "size", "color", "price_modifier", "active", "updated_at"}

// Save creates or updates a product and synchronises its variants
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&catalog.Product{}).Where("id = ?", product.ID).Count(&existing).Error; err != nil {
			return err
		}

		if existing == 0 {
			if err := tx.Omit("Variants").Create(product).Error; err != nil {
				return err
			}
		} else {
			product.UpdatedAt = time.Now()
			if err := tx.Model(&catalog.Product{}).Where("id = ?", product.ID).Updates(map[string]interface{}{
				"name":        product.Name,
				"slug":        product.Slug,
				"description": product.Description,
				"category":    product.Category,
				"base_price":  product.BasePrice,
				"image_url":   product.ImageURL,
				"active":      product.Active,
				"featured":    product.Featured,
				"sort_order":  product.SortOrder,
				"version":     product.Version,
				"updated_at":  product.UpdatedAt,
			}).Error; err != nil {
				return err
			}
		}

		return r.syncVariants(tx, product)
	})
}

func (r *GormProductRepository) syncVariants(tx *gorm.DB, product *catalog.Product) error {
	var storedIDs []uuid.UUID
	if err := tx.Model(&catalog.ProductVariant{}).Where("product_id = ?", product.ID).Pluck("id", &storedIDs).Error; err != nil {
		return err
	}
	stored := make(map[uuid.UUID]bool, len(storedIDs))
	for _, id := range storedIDs {
		stored[id] = true
	}

	keep := make([]uuid.UUID, 0, len(product.Variants))
	for i := range product.Variants {
		keep = append(keep, product.Variants[i].ID)
	}
	removed := tx.Where("product_id = ?", product.ID)
	if len(keep) > 0 {
		removed = removed.Where("id NOT IN ?", keep)
	}
	if err := removed.Delete(&catalog.ProductVariant{}).Error; err != nil {
		return err
	}

	for i := range product.Variants {
		v := &product.Variants[i]
		v.ProductID = product.ID
		if stored[v.ID] {
			if err := tx.Model(v).Select(variantColumns).Updates(v).Error; err != nil {
				return err
			}
			continue
		}
		if err := tx.Create(v).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a product and its variants
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&catalog.ProductVariant{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&catalog.Product{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
