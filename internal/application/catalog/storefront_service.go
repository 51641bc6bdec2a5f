package catalog

import (
	"context"
	"strings"

	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
)

// storefrontSorts maps shopper sort keys to repository ordering
var storefrontSorts = map[string][2]string{
	"featured":   {"sort_order", "asc"},
	"newest":     {"created_at", "desc"},
	"price_asc":  {"base_price", "asc"},
	"price_desc": {"base_price", "desc"},
	"name":       {"name", "asc"},
}

// StorefrontService serves the public catalog. Inactive products are never
// returned.
type StorefrontService struct {
	productRepo catalog.ProductRepository
}

// NewStorefrontService creates a new StorefrontService
func NewStorefrontService(productRepo catalog.ProductRepository) *StorefrontService {
	return &StorefrontService{productRepo: productRepo}
}

// ListProducts returns active products for the shop listing
func (s *StorefrontService) ListProducts(ctx context.Context, filter StorefrontFilter) ([]StorefrontProduct, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 24
	}
	sort, ok := storefrontSorts[filter.Sort]
	if !ok {
		sort = storefrontSorts["featured"]
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  sort[0],
		OrderDir: sort[1],
		Search:   strings.TrimSpace(filter.Search),
		Filters:  map[string]interface{}{"active": true},
	}
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.Featured != nil {
		domainFilter.Filters["featured"] = *filter.Featured
	}

	products, total, err := s.productRepo.List(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToStorefrontProducts(products), total, nil
}

// GetBySlug returns an active product with its active variants
func (s *StorefrontService) GetBySlug(ctx context.Context, slug string) (*StorefrontProduct, error) {
	product, err := s.productRepo.FindBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, shared.ErrNotFound
	}

	response := ToStorefrontProduct(product, true)
	return &response, nil
}

// ListCategories returns the categories of active products
func (s *StorefrontService) ListCategories(ctx context.Context) ([]string, error) {
	return s.productRepo.ListCategories(ctx, true)
}
