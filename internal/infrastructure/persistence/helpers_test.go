package persistence

import (
	"context"
	"testing"

	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/pricing"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
	"github.com/shopfront/backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.NewSQLiteDB(t, Models()...)
}

// seedProduct stores a product with one variant per sku, each carrying stock
func seedProduct(t *testing.T, db *gorm.DB, name, price string, stock int, skus ...string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, dec(price))
	require.NoError(t, err)
	for _, sku := range skus {
		_, err := p.AddVariant(sku, "M", "Navy", decimal.Zero, stock, 2)
		require.NoError(t, err)
	}
	require.NoError(t, NewGormProductRepository(db).Save(context.Background(), p))
	return p
}

func newOrder(t *testing.T, number string, p *catalog.Product, quantity int) *order.Order {
	t.Helper()
	address, err := valueobject.NewAddress("1 Main St", "Springfield", "12345", "US")
	require.NoError(t, err)

	v := &p.Variants[0]
	o, err := order.NewOrder(number,
		order.Customer{Name: "Jane Roe", Email: "jane@example.com"},
		address,
		[]order.LineInput{{
			ProductID:    p.ID,
			VariantID:    v.ID,
			ProductName:  p.Name,
			VariantLabel: v.Label(),
			SKU:          v.SKU,
			UnitPrice:    p.UnitPrice(v),
			Quantity:     quantity,
		}},
		pricing.ShippingPolicy{FreeShippingThreshold: dec("50"), FlatFee: dec("5")},
		nil,
	)
	require.NoError(t, err)
	return o
}
