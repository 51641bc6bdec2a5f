package handler

import (
	"github.com/gin-gonic/gin"
	contentapp "github.com/shopfront/backend/internal/application/content"
)

// ContentHandler serves the homepage, store settings and their admin
// management endpoints
type ContentHandler struct {
	BaseHandler
	settings *contentapp.SettingsService
	homepage *contentapp.HomepageService
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(settings *contentapp.SettingsService, homepage *contentapp.HomepageService) *ContentHandler {
	return &ContentHandler{settings: settings, homepage: homepage}
}

// Homepage handles GET /api/homepage
func (h *ContentHandler) Homepage(c *gin.Context) {
	page, err := h.homepage.GetHomepage(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// PublicSettings handles GET /api/settings
func (h *ContentHandler) PublicSettings(c *gin.Context) {
	settings, err := h.settings.GetPublic(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// GetSettings handles GET /api/admin/settings
func (h *ContentHandler) GetSettings(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// UpdateSettings handles PUT /api/admin/settings
func (h *ContentHandler) UpdateSettings(c *gin.Context) {
	var req contentapp.UpdateSettingsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	settings, err := h.settings.Update(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// ListBanners handles GET /api/admin/homepage/banners
func (h *ContentHandler) ListBanners(c *gin.Context) {
	banners, err := h.homepage.ListBanners(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, banners)
}

// CreateBanner handles POST /api/admin/homepage/banners
func (h *ContentHandler) CreateBanner(c *gin.Context) {
	var req contentapp.BannerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	banner, err := h.homepage.CreateBanner(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, banner)
}

// UpdateBanner handles PUT /api/admin/homepage/banners/:id
func (h *ContentHandler) UpdateBanner(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	var req contentapp.BannerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	banner, err := h.homepage.UpdateBanner(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, banner)
}

// DeleteBanner handles DELETE /api/admin/homepage/banners/:id
func (h *ContentHandler) DeleteBanner(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.homepage.DeleteBanner(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListSections handles GET /api/admin/homepage/sections
func (h *ContentHandler) ListSections(c *gin.Context) {
	sections, err := h.homepage.ListSections(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sections)
}

// CreateSection handles POST /api/admin/homepage/sections
func (h *ContentHandler) CreateSection(c *gin.Context) {
	var req contentapp.SectionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	section, err := h.homepage.CreateSection(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, section)
}

// UpdateSection handles PUT /api/admin/homepage/sections/:id
func (h *ContentHandler) UpdateSection(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	var req contentapp.SectionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	section, err := h.homepage.UpdateSection(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, section)
}

// DeleteSection handles DELETE /api/admin/homepage/sections/:id
func (h *ContentHandler) DeleteSection(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.homepage.DeleteSection(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
