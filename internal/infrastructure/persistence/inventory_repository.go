package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormInventoryRepository implements inventory.Repository over the
// product_variants table. Stock lives on the variant row, so every write
// is a single-row update.
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GormInventoryRepository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// inventoryRow is the scan target of the variant/product join
type inventoryRow struct {
	VariantID     uuid.UUID
	ProductID     uuid.UUID
	ProductName   string
	SKU           string `gorm:"column:sku"`
	Size          string
	Color         string
	BasePrice     decimal.Decimal
	PriceModifier decimal.Decimal
	Stock         int
	MinStock      int
	VariantActive bool
	ProductActive bool
	UpdatedAt     time.Time
}

func (row inventoryRow) toItem() inventory.Item {
	return inventory.Item{
		VariantID:   row.VariantID,
		ProductID:   row.ProductID,
		ProductName: row.ProductName,
		SKU:         row.SKU,
		Size:        row.Size,
		Color:       row.Color,
		UnitPrice:   row.BasePrice.Add(row.PriceModifier),
		Stock:       row.Stock,
		MinStock:    row.MinStock,
		Active:      row.VariantActive && row.ProductActive,
		UpdatedAt:   row.UpdatedAt,
	}
}

const inventorySelect = "v.id AS variant_id, v.product_id, p.name AS product_name, v.sku, v.size, v.color, " +
	"p.base_price, v.price_modifier, v.stock, v.min_stock, " +
	"v.active AS variant_active, p.active AS product_active, v.updated_at"

func (r *GormInventoryRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("product_variants AS v").
		Joins("JOIN products AS p ON p.id = v.product_id")
}

// List returns a page of inventory items
func (r *GormInventoryRepository) List(ctx context.Context, filter shared.Filter) ([]inventory.Item, int64, error) {
	query := r.joined(ctx)

	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(v.sku) LIKE ? ESCAPE '\\' OR LOWER(p.name) LIKE ? ESCAPE '\\'", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			if status, ok := value.(inventory.StockStatus); ok {
				query = whereStockStatus(query, status)
			}
		case "product_id":
			if id, ok := value.(uuid.UUID); ok {
				query = query.Where("v.product_id = ?", id)
			}
		case "active":
			if active, ok := value.(bool); ok {
				if active {
					query = query.Where("v.active = ? AND p.active = ?", true, true)
				} else {
					query = query.Where("(v.active = ? OR p.active = ?)", false, false)
				}
			}
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := InventorySortFields[filter.OrderBy]
	if !ok {
		column = InventorySortFields["stock"]
	}
	query = query.Select(inventorySelect).
		Order(column + " " + ValidateSortOrder(filter.OrderDir)).
		Order("v.sku ASC")

	var rows []inventoryRow
	if err := applyPagination(query, filter).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	items := make([]inventory.Item, len(rows))
	for i, row := range rows {
		items[i] = row.toItem()
	}
	return items, total, nil
}

func whereStockStatus(query *gorm.DB, status inventory.StockStatus) *gorm.DB {
	switch status {
	case inventory.StockStatusOut:
		return query.Where("v.stock <= 0")
	case inventory.StockStatusLow:
		return query.Where("v.stock > 0 AND v.stock <= v.min_stock")
	default:
		return query.Where("v.stock > 0 AND v.stock > v.min_stock")
	}
}

// FindByVariantID returns the inventory view of a variant
func (r *GormInventoryRepository) FindByVariantID(ctx context.Context, variantID uuid.UUID) (*inventory.Item, error) {
	var rows []inventoryRow
	if err := r.joined(ctx).
		Select(inventorySelect).
		Where("v.id = ?", variantID).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, shared.ErrNotFound
	}
	item := rows[0].toItem()
	return &item, nil
}

// SetLevels overwrites stock and minimum stock of a variant
func (r *GormInventoryRepository) SetLevels(ctx context.Context, variantID uuid.UUID, stock, minStock int) error {
	if err := inventory.ValidateLevels(stock, minStock); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&catalog.ProductVariant{}).
		Where("id = ?", variantID).
		Updates(map[string]interface{}{
			"stock":      stock,
			"min_stock":  minStock,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Adjust adds delta to the stock of a variant. The guard sits in the
// UPDATE itself so concurrent checkouts cannot oversell.
func (r *GormInventoryRepository) Adjust(ctx context.Context, variantID uuid.UUID, delta int) error {
	result := r.db.WithContext(ctx).
		Model(&catalog.ProductVariant{}).
		Where("id = ? AND stock + ? >= 0", variantID, delta).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock + ?", delta),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.ProductVariant{}).Where("id = ?", variantID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrInsufficientStock
}

// Summary counts variants per stock status
func (r *GormInventoryRepository) Summary(ctx context.Context) (inventory.Summary, error) {
	var row struct {
		TotalVariants int64
		OK            int64 `gorm:"column:ok"`
		Low           int64
		Out           int64
		TotalUnits    int64
	}
	err := r.db.WithContext(ctx).
		Model(&catalog.ProductVariant{}).
		Select(
			"COUNT(*) AS total_variants, " +
				"COALESCE(SUM(CASE WHEN stock > 0 AND stock > min_stock THEN 1 ELSE 0 END), 0) AS ok, " +
				"COALESCE(SUM(CASE WHEN stock > 0 AND stock <= min_stock THEN 1 ELSE 0 END), 0) AS low, " +
				"COALESCE(SUM(CASE WHEN stock <= 0 THEN 1 ELSE 0 END), 0) AS out, " +
				"COALESCE(SUM(CASE WHEN stock > 0 THEN stock ELSE 0 END), 0) AS total_units",
		).
		Where("active = ?", true).
		Scan(&row).Error
	if err != nil {
		return inventory.Summary{}, err
	}
	return inventory.Summary{
		TotalVariants: row.TotalVariants,
		OK:            row.OK,
		Low:           row.Low,
		Out:           row.Out,
		TotalUnits:    row.TotalUnits,
	}, nil
}

var _ inventory.Repository = (*GormInventoryRepository)(nil)
