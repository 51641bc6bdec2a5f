package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// maxSlugSuffix bounds the search for a free generated slug
const maxSlugSuffix = 100

// ProductService handles admin product operations
type ProductService struct {
	productRepo     catalog.ProductRepository
	publisher       shared.EventPublisher
	defaultMinStock int
}

// NewProductService creates a new ProductService. defaultMinStock is used
// for variants created without an explicit minimum stock.
func NewProductService(productRepo catalog.ProductRepository, publisher shared.EventPublisher, defaultMinStock int) *ProductService {
	return &ProductService{
		productRepo:     productRepo,
		publisher:       publisher,
		defaultMinStock: defaultMinStock,
	}
}

// Create creates a new product with optional initial variants
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.Name, req.BasePrice)
	if err != nil {
		return nil, err
	}
	if err := product.Update(req.Name, req.Description, req.Category, req.ImageURL); err != nil {
		return nil, err
	}

	if req.Slug != "" {
		if err := product.SetSlug(req.Slug); err != nil {
			return nil, err
		}
		if err := s.ensureSlugFree(ctx, product.Slug, uuid.Nil); err != nil {
			return nil, err
		}
	} else {
		slug, err := s.uniqueSlug(ctx, product.Slug, uuid.Nil)
		if err != nil {
			return nil, err
		}
		product.Slug = slug
	}

	if req.Active != nil && !*req.Active {
		product.Deactivate()
	}
	product.SetFeatured(req.Featured)
	product.SetSortOrder(req.SortOrder)

	for _, v := range req.Variants {
		if _, err := s.addVariant(ctx, product, v); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves a list of products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "sort_order"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   strings.TrimSpace(filter.Search),
		Filters:  make(map[string]interface{}),
	}
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}
	if filter.Featured != nil {
		domainFilter.Filters["featured"] = *filter.Featured
	}
	if filter.MinPrice != nil {
		domainFilter.Filters["min_price"] = decimal.NewFromFloat(*filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		domainFilter.Filters["max_price"] = decimal.NewFromFloat(*filter.MaxPrice)
	}

	products, total, err := s.productRepo.List(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// Update updates the descriptive fields, slug, price and position of a product
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	name, description, category, imageURL := product.Name, product.Description, product.Category, product.ImageURL
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.Category != nil {
		category = *req.Category
	}
	if req.ImageURL != nil {
		imageURL = *req.ImageURL
	}
	if err := product.Update(name, description, category, imageURL); err != nil {
		return nil, err
	}

	if req.Slug != nil && catalog.Slugify(*req.Slug) != product.Slug {
		if err := product.SetSlug(*req.Slug); err != nil {
			return nil, err
		}
		if err := s.ensureSlugFree(ctx, product.Slug, product.ID); err != nil {
			return nil, err
		}
	}

	if req.BasePrice != nil {
		if err := product.SetBasePrice(*req.BasePrice); err != nil {
			return nil, err
		}
	}

	if req.SortOrder != nil {
		product.SetSortOrder(*req.SortOrder)
	}

	if err := s.save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product and its variants. Placed orders keep their
// item snapshots.
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, productID)
}

// SetActive shows or hides a product on the storefront
func (s *ProductService) SetActive(ctx context.Context, productID uuid.UUID, active bool) (*ProductResponse, error) {
	return s.mutate(ctx, productID, func(p *catalog.Product) error {
		if active {
			p.Activate()
		} else {
			p.Deactivate()
		}
		return nil
	})
}

// SetFeatured marks or unmarks a product as featured
func (s *ProductService) SetFeatured(ctx context.Context, productID uuid.UUID, featured bool) (*ProductResponse, error) {
	return s.mutate(ctx, productID, func(p *catalog.Product) error {
		p.SetFeatured(featured)
		return nil
	})
}

// AddVariant adds a variant with its opening stock
func (s *ProductService) AddVariant(ctx context.Context, productID uuid.UUID, req VariantRequest) (*ProductResponse, error) {
	return s.mutate(ctx, productID, func(p *catalog.Product) error {
		_, err := s.addVariant(ctx, p, req)
		return err
	})
}

// UpdateVariant changes SKU, attributes, price modifier or visibility of a variant
func (s *ProductService) UpdateVariant(ctx context.Context, productID, variantID uuid.UUID, req UpdateVariantRequest) (*ProductResponse, error) {
	return s.mutate(ctx, productID, func(p *catalog.Product) error {
		v := p.Variant(variantID)
		if v == nil {
			return shared.ErrNotFound
		}

		sku, size, color, modifier, active := v.SKU, v.Size, v.Color, v.PriceModifier, v.Active
		if req.SKU != nil {
			sku = catalog.NormalizeSKU(*req.SKU)
		}
		if req.Size != nil {
			size = *req.Size
		}
		if req.Color != nil {
			color = *req.Color
		}
		if req.PriceModifier != nil {
			modifier = *req.PriceModifier
		}
		if req.Active != nil {
			active = *req.Active
		}

		if sku != v.SKU {
			if err := s.ensureSKUFree(ctx, sku, variantID); err != nil {
				return err
			}
		}
		_, err := p.UpdateVariant(variantID, sku, size, color, modifier, active)
		return err
	})
}

// RemoveVariant deletes a variant from a product
func (s *ProductService) RemoveVariant(ctx context.Context, productID, variantID uuid.UUID) (*ProductResponse, error) {
	return s.mutate(ctx, productID, func(p *catalog.Product) error {
		return p.RemoveVariant(variantID)
	})
}

func (s *ProductService) mutate(ctx context.Context, productID uuid.UUID, fn func(p *catalog.Product) error) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := fn(product); err != nil {
		return nil, err
	}
	if err := s.save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

func (s *ProductService) save(ctx context.Context, product *catalog.Product) error {
	if err := s.productRepo.Save(ctx, product); err != nil {
		return err
	}
	if s.publisher != nil {
		if events := product.PullDomainEvents(); len(events) > 0 {
			_ = s.publisher.Publish(ctx, events...)
		}
	}
	return nil
}

func (s *ProductService) addVariant(ctx context.Context, product *catalog.Product, req VariantRequest) (*catalog.ProductVariant, error) {
	sku := catalog.NormalizeSKU(req.SKU)
	if err := s.ensureSKUFree(ctx, sku, uuid.Nil); err != nil {
		return nil, err
	}
	minStock := s.defaultMinStock
	if req.MinStock != nil {
		minStock = *req.MinStock
	}
	return product.AddVariant(sku, req.Size, req.Color, req.PriceModifier, req.Stock, minStock)
}

func (s *ProductService) ensureSKUFree(ctx context.Context, sku string, excludeVariantID uuid.UUID) error {
	exists, err := s.productRepo.ExistsBySKU(ctx, sku, excludeVariantID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("A variant with SKU %s already exists", sku))
	}
	return nil
}

func (s *ProductService) ensureSlugFree(ctx context.Context, slug string, excludeID uuid.UUID) error {
	exists, err := s.productRepo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("A product with slug %s already exists", slug))
	}
	return nil
}

// uniqueSlug returns base, or base-2, base-3, ... whichever is free first
func (s *ProductService) uniqueSlug(ctx context.Context, base string, excludeID uuid.UUID) (string, error) {
	if base == "" {
		base = "product"
	}
	candidate := base
	for i := 2; i <= maxSlugSuffix; i++ {
		exists, err := s.productRepo.ExistsBySlug(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", shared.NewDomainError("ALREADY_EXISTS", "Could not generate a unique slug for "+base)
}
