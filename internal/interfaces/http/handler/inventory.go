package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/shopfront/backend/internal/application/inventory"
)

// InventoryHandler serves per-variant stock management
type InventoryHandler struct {
	BaseHandler
	inventory *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventory *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// List handles GET /api/admin/inventory
func (h *InventoryHandler) List(c *gin.Context) {
	var filter inventoryapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	paging(&filter.Page, &filter.PageSize, inventoryPageSize)

	items, total, err := h.inventory.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Summary handles GET /api/admin/inventory/summary
func (h *InventoryHandler) Summary(c *gin.Context) {
	summary, err := h.inventory.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// UpdateStock handles PUT /api/admin/inventory/:variant_id
func (h *InventoryHandler) UpdateStock(c *gin.Context) {
	variantID, ok := h.paramUUID(c, "variant_id")
	if !ok {
		return
	}
	var req inventoryapp.UpdateStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.inventory.UpdateStock(c.Request.Context(), variantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// AdjustStock handles POST /api/admin/inventory/:variant_id/adjust
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	variantID, ok := h.paramUUID(c, "variant_id")
	if !ok {
		return
	}
	var req inventoryapp.AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.inventory.AdjustStock(c.Request.Context(), variantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}
