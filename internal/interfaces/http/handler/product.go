package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/shopfront/backend/internal/application/catalog"
)

// ProductHandler serves catalog management for the admin console
type ProductHandler struct {
	BaseHandler
	products *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List handles GET /api/admin/products
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	paging(&filter.Page, &filter.PageSize, adminPageSize)

	products, total, err := h.products.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// Create handles POST /api/admin/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.products.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Get handles GET /api/admin/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}

	product, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Update handles PUT /api/admin/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.products.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete handles DELETE /api/admin/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetActive handles PATCH /api/admin/products/:id/active
func (h *ProductHandler) SetActive(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	var req activeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.products.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// SetFeatured handles PATCH /api/admin/products/:id/featured
func (h *ProductHandler) SetFeatured(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	var req featuredRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.products.SetFeatured(c.Request.Context(), id, *req.Featured)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// AddVariant handles POST /api/admin/products/:id/variants
func (h *ProductHandler) AddVariant(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.VariantRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.products.AddVariant(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// UpdateVariant handles PUT /api/admin/products/:id/variants/:variant_id
func (h *ProductHandler) UpdateVariant(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	variantID, ok := h.paramUUID(c, "variant_id")
	if !ok {
		return
	}
	var req catalogapp.UpdateVariantRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.products.UpdateVariant(c.Request.Context(), id, variantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// RemoveVariant handles DELETE /api/admin/products/:id/variants/:variant_id
func (h *ProductHandler) RemoveVariant(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	variantID, ok := h.paramUUID(c, "variant_id")
	if !ok {
		return
	}

	product, err := h.products.RemoveVariant(c.Request.Context(), id, variantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}
