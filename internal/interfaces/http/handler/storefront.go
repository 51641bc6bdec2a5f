package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/shopfront/backend/internal/application/catalog"
)

// Default page sizes per listing
const (
	storefrontPageSize = 24
	adminPageSize      = 20
	inventoryPageSize  = 50
)

// paging fills in the page defaults a service would apply, so the
// response meta matches what was queried
func paging(page, pageSize *int, defaultSize int) {
	if *page <= 0 {
		*page = 1
	}
	if *pageSize <= 0 {
		*pageSize = defaultSize
	}
}

// StorefrontHandler serves the public catalog
type StorefrontHandler struct {
	BaseHandler
	storefront *catalogapp.StorefrontService
}

// NewStorefrontHandler creates a new StorefrontHandler
func NewStorefrontHandler(storefront *catalogapp.StorefrontService) *StorefrontHandler {
	return &StorefrontHandler{storefront: storefront}
}

// ListProducts handles GET /api/products
func (h *StorefrontHandler) ListProducts(c *gin.Context) {
	var filter catalogapp.StorefrontFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	paging(&filter.Page, &filter.PageSize, storefrontPageSize)

	products, total, err := h.storefront.ListProducts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// GetProduct handles GET /api/products/:slug
func (h *StorefrontHandler) GetProduct(c *gin.Context) {
	product, err := h.storefront.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// ListCategories handles GET /api/categories
func (h *StorefrontHandler) ListCategories(c *gin.Context) {
	categories, err := h.storefront.ListCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	h.Success(c, categories)
}
