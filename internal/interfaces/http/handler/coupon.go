package handler

import (
	"github.com/gin-gonic/gin"
	couponapp "github.com/shopfront/backend/internal/application/coupon"
)

// CouponHandler serves coupon management for the admin console
type CouponHandler struct {
	BaseHandler
	coupons *couponapp.CouponService
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(coupons *couponapp.CouponService) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

// List handles GET /api/admin/coupons
func (h *CouponHandler) List(c *gin.Context) {
	var filter couponapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	paging(&filter.Page, &filter.PageSize, adminPageSize)

	coupons, total, err := h.coupons.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, coupons, total, filter.Page, filter.PageSize)
}

// Create handles POST /api/admin/coupons
func (h *CouponHandler) Create(c *gin.Context) {
	var req couponapp.CreateCouponRequest
	if !h.bindJSON(c, &req) {
		return
	}

	created, err := h.coupons.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}

// Get handles GET /api/admin/coupons/:id
func (h *CouponHandler) Get(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}

	found, err := h.coupons.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, found)
}

// Update handles PUT /api/admin/coupons/:id
func (h *CouponHandler) Update(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	var req couponapp.UpdateCouponRequest
	if !h.bindJSON(c, &req) {
		return
	}

	updated, err := h.coupons.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// SetActive handles PATCH /api/admin/coupons/:id/active
func (h *CouponHandler) SetActive(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	var req couponapp.SetActiveRequest
	if !h.bindJSON(c, &req) {
		return
	}

	updated, err := h.coupons.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// Delete handles DELETE /api/admin/coupons/:id
func (h *CouponHandler) Delete(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.coupons.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
