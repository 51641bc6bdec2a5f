package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/shopfront/backend/internal/application/identity"
	"github.com/shopfront/backend/internal/interfaces/http/middleware"
)

// AuthHandler serves admin sign-in and account endpoints
type AuthHandler struct {
	BaseHandler
	auth *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login handles POST /api/admin/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tokens, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tokens)
}

// Refresh handles POST /api/admin/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identityapp.RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tokens, err := h.auth.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tokens)
}

// Me handles GET /api/admin/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	adminID, ok := h.adminID(c)
	if !ok {
		return
	}

	user, err := h.auth.Me(c.Request.Context(), adminID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Logout handles POST /api/admin/auth/logout. The access token stops
// working immediately.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), middleware.GetJWTClaims(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ChangePassword handles PUT /api/admin/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	adminID, ok := h.adminID(c)
	if !ok {
		return
	}
	var req identityapp.ChangePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), adminID, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
