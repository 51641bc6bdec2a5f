package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	identityapp "github.com/shopfront/backend/internal/application/identity"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/auth"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/shopfront/backend/internal/interfaces/http/middleware"
	"github.com/shopfront/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// newAuthEngine wires the auth handler behind the JWT middleware the way
// the admin API does
func newAuthEngine(t *testing.T) (*gin.Engine, *testutil.MockAdminUserRepository) {
	t.Helper()
	identity.PasswordCost = bcrypt.MinCost

	repo := new(testutil.MockAdminUserRepository)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "handler-test-secret-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "shopfront-test",
		MaxRefreshCount:        5,
	})
	revoked := auth.NewInMemoryRevocationList()
	svc := identityapp.NewAuthService(repo, jwtService, revoked, identityapp.AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}, nil)
	h := NewAuthHandler(svc)

	engine := newEngine()
	admin := engine.Group("/api/admin")
	admin.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		Revoked:    revoked,
		SkipPaths:  []string{"/api/admin/auth/login", "/api/admin/auth/refresh"},
	}))
	admin.POST("/auth/login", h.Login)
	admin.POST("/auth/refresh", h.Refresh)
	admin.GET("/auth/me", h.Me)
	admin.POST("/auth/logout", h.Logout)
	admin.PUT("/auth/password", h.ChangePassword)
	return engine, repo
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestAuthHandler_LoginMeLogout(t *testing.T) {
	engine, repo := newAuthEngine(t)
	owner, err := identity.NewAdminUser("owner@shop.example", "Owner", "secret123")
	require.NoError(t, err)
	repo.On("FindByEmail", mock.Anything, "owner@shop.example").Return(owner, nil)
	repo.On("FindByID", mock.Anything, owner.ID).Return(owner, nil)
	repo.On("Save", mock.Anything, owner).Return(nil)

	w := testutil.PerformRequest(t, engine, http.MethodPost, "/api/admin/auth/login", map[string]any{
		"email":    "Owner@Shop.Example",
		"password": "secret123",
	})
	resp := testutil.AssertSuccessResponse(t, w, http.StatusOK)
	data := resp["data"].(map[string]any)
	assert.Equal(t, "Bearer", data["token_type"])
	token := data["access_token"].(string)
	require.NotEmpty(t, token)
	assert.NotEmpty(t, data["refresh_token"])

	w = testutil.PerformRequest(t, engine, http.MethodGet, "/api/admin/auth/me", nil, bearer(token))
	resp = testutil.AssertSuccessResponse(t, w, http.StatusOK)
	assert.Equal(t, "owner@shop.example", resp["data"].(map[string]any)["email"])
	assert.NotContains(t, w.Body.String(), "password")

	w = testutil.PerformRequest(t, engine, http.MethodPost, "/api/admin/auth/logout", nil, bearer(token))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = testutil.PerformRequest(t, engine, http.MethodGet, "/api/admin/auth/me", nil, bearer(token))
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, "TOKEN_REVOKED")
}

func TestAuthHandler_Login_Failures(t *testing.T) {
	engine, repo := newAuthEngine(t)
	owner, err := identity.NewAdminUser("owner@shop.example", "Owner", "secret123")
	require.NoError(t, err)
	repo.On("FindByEmail", mock.Anything, "owner@shop.example").Return(owner, nil)
	repo.On("FindByEmail", mock.Anything, "ghost@shop.example").Return(nil, shared.ErrNotFound)
	repo.On("Save", mock.Anything, owner).Return(nil)

	w := testutil.PerformRequest(t, engine, http.MethodPost, "/api/admin/auth/login", map[string]any{
		"email": "owner@shop.example", "password": "wrong-password",
	})
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, "INVALID_CREDENTIALS")

	w = testutil.PerformRequest(t, engine, http.MethodPost, "/api/admin/auth/login", map[string]any{
		"email": "ghost@shop.example", "password": "secret123",
	})
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, "INVALID_CREDENTIALS")

	w = testutil.PerformRequest(t, engine, http.MethodPost, "/api/admin/auth/login", map[string]any{
		"email": "not-an-email", "password": "secret123",
	})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestAuthHandler_RequiresToken(t *testing.T) {
	engine, _ := newAuthEngine(t)

	w := testutil.PerformRequest(t, engine, http.MethodGet, "/api/admin/auth/me", nil)
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, "UNAUTHORIZED")

	w = testutil.PerformRequest(t, engine, http.MethodGet, "/api/admin/auth/me", nil, bearer("garbage"))
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, "TOKEN_INVALID")
}

func TestAuthHandler_Refresh_RejectsAccessToken(t *testing.T) {
	engine, repo := newAuthEngine(t)
	owner, err := identity.NewAdminUser("owner@shop.example", "Owner", "secret123")
	require.NoError(t, err)
	repo.On("FindByEmail", mock.Anything, "owner@shop.example").Return(owner, nil)
	repo.On("Save", mock.Anything, owner).Return(nil)

	w := testutil.PerformRequest(t, engine, http.MethodPost, "/api/admin/auth/login", map[string]any{
		"email": "owner@shop.example", "password": "secret123",
	})
	resp := testutil.AssertSuccessResponse(t, w, http.StatusOK)
	access := resp["data"].(map[string]any)["access_token"].(string)

	w = testutil.PerformRequest(t, engine, http.MethodPost, "/api/admin/auth/refresh", map[string]any{"refresh_token": access})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
