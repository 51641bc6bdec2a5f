package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopfront/backend/internal/application/dashboard"
	orderapp "github.com/shopfront/backend/internal/application/order"
)

// OrderHandler serves order management and the dashboard
type OrderHandler struct {
	BaseHandler
	orders    *orderapp.OrderService
	dashboard *dashboard.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *orderapp.OrderService, overview *dashboard.Service) *OrderHandler {
	return &OrderHandler{orders: orders, dashboard: overview}
}

// List handles GET /api/admin/orders
func (h *OrderHandler) List(c *gin.Context) {
	var filter orderapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	paging(&filter.Page, &filter.PageSize, adminPageSize)

	orders, total, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Stats handles GET /api/admin/orders/stats
func (h *OrderHandler) Stats(c *gin.Context) {
	stats, err := h.orders.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Get handles GET /api/admin/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}

	found, err := h.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, found)
}

// UpdateStatus handles PATCH /api/admin/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	var req orderapp.UpdateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	updated, err := h.orders.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// Dashboard handles GET /api/admin/dashboard
func (h *OrderHandler) Dashboard(c *gin.Context) {
	overview, err := h.dashboard.Get(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, overview)
}
