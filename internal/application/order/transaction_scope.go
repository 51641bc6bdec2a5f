package order

import (
	"context"

	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/coupon"
	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/order"
)

// TransactionScope runs order workflows atomically. Every repository handed
// to fn shares one database transaction which is committed when fn returns
// nil and rolled back otherwise.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories touched when an order
// is placed or cancelled.
type TransactionalRepositories interface {
	// ProductRepo is used read-only to price cart lines
	ProductRepo() catalog.ProductRepository
	// InventoryRepo applies conditional stock decrements and restocks
	InventoryRepo() inventory.Repository
	// CouponRepo increments coupon usage
	CouponRepo() coupon.Repository
	OrderRepo() order.Repository
}

// NoOpTransactionScope runs fn directly against the given repositories.
// Used in tests.
type NoOpTransactionScope struct {
	productRepo   catalog.ProductRepository
	inventoryRepo inventory.Repository
	couponRepo    coupon.Repository
	orderRepo     order.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	inventoryRepo inventory.Repository,
	couponRepo coupon.Repository,
	orderRepo order.Repository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		couponRepo:    couponRepo,
		orderRepo:     orderRepo,
	}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository { return s.productRepo }
func (s *NoOpTransactionScope) InventoryRepo() inventory.Repository    { return s.inventoryRepo }
func (s *NoOpTransactionScope) CouponRepo() coupon.Repository          { return s.couponRepo }
func (s *NoOpTransactionScope) OrderRepo() order.Repository            { return s.orderRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
