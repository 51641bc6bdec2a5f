package router

import (
	"github.com/gin-gonic/gin"
	"github.com/shopfront/backend/internal/interfaces/http/handler"
)

// Public paths under the admin prefix that skip authentication
const (
	AdminLoginPath   = "/api/admin/auth/login"
	AdminRefreshPath = "/api/admin/auth/refresh"
)

// Handlers bundles every HTTP handler the API serves
type Handlers struct {
	Health     *handler.HealthHandler
	Storefront *handler.StorefrontHandler
	Checkout   *handler.CheckoutHandler
	Content    *handler.ContentHandler
	Auth       *handler.AuthHandler
	Products   *handler.ProductHandler
	Inventory  *handler.InventoryHandler
	Coupons    *handler.CouponHandler
	Orders     *handler.OrderHandler
}

// Guards are the route-specific middleware. PublicWrite throttles
// anonymous writes and may be nil. AdminAuth protects /api/admin.
type Guards struct {
	PublicWrite gin.HandlerFunc
	AdminAuth   gin.HandlerFunc
}

// Setup mounts the health check, the storefront API and the admin API
func Setup(engine *gin.Engine, h Handlers, guards Guards) {
	engine.GET("/health", h.Health.Check)

	NewRouter(engine).
		Register(StorefrontRoutes(h, guards.PublicWrite)).
		Register(AdminRoutes(h, guards)).
		Setup()
}

// StorefrontRoutes are the anonymous shopper endpoints
func StorefrontRoutes(h Handlers, writeLimit gin.HandlerFunc) *DomainGroup {
	shop := NewDomainGroup("storefront", "")

	shop.GET("/products", h.Storefront.ListProducts)
	shop.GET("/products/:slug", h.Storefront.GetProduct)
	shop.GET("/categories", h.Storefront.ListCategories)
	shop.GET("/homepage", h.Content.Homepage)
	shop.GET("/settings", h.Content.PublicSettings)

	shop.POST("/checkout/quote", writeLimit, h.Checkout.Quote)
	shop.POST("/checkout/validate-coupon", writeLimit, h.Checkout.ValidateCoupon)
	shop.POST("/orders", writeLimit, h.Checkout.PlaceOrder)
	shop.GET("/orders/track", h.Checkout.Track)

	return shop
}

// AdminRoutes are the admin console endpoints. Login and refresh are
// reachable without a token; see AdminLoginPath and AdminRefreshPath.
func AdminRoutes(h Handlers, guards Guards) *DomainGroup {
	admin := NewDomainGroup("admin", "/admin").Use(guards.AdminAuth)

	authRoutes := admin.Group("auth", "/auth")
	authRoutes.POST("/login", guards.PublicWrite, h.Auth.Login)
	authRoutes.POST("/refresh", guards.PublicWrite, h.Auth.Refresh)
	authRoutes.GET("/me", h.Auth.Me)
	authRoutes.POST("/logout", h.Auth.Logout)
	authRoutes.PUT("/password", h.Auth.ChangePassword)

	products := admin.Group("products", "/products")
	products.GET("", h.Products.List)
	products.POST("", h.Products.Create)
	products.GET("/:id", h.Products.Get)
	products.PUT("/:id", h.Products.Update)
	products.DELETE("/:id", h.Products.Delete)
	products.PATCH("/:id/active", h.Products.SetActive)
	products.PATCH("/:id/featured", h.Products.SetFeatured)
	products.POST("/:id/variants", h.Products.AddVariant)
	products.PUT("/:id/variants/:variant_id", h.Products.UpdateVariant)
	products.DELETE("/:id/variants/:variant_id", h.Products.RemoveVariant)

	inventory := admin.Group("inventory", "/inventory")
	inventory.GET("", h.Inventory.List)
	inventory.GET("/summary", h.Inventory.Summary)
	inventory.PUT("/:variant_id", h.Inventory.UpdateStock)
	inventory.POST("/:variant_id/adjust", h.Inventory.AdjustStock)

	coupons := admin.Group("coupons", "/coupons")
	coupons.GET("", h.Coupons.List)
	coupons.POST("", h.Coupons.Create)
	coupons.GET("/:id", h.Coupons.Get)
	coupons.PUT("/:id", h.Coupons.Update)
	coupons.DELETE("/:id", h.Coupons.Delete)
	coupons.PATCH("/:id/active", h.Coupons.SetActive)

	orders := admin.Group("orders", "/orders")
	orders.GET("", h.Orders.List)
	orders.GET("/stats", h.Orders.Stats)
	orders.GET("/:id", h.Orders.Get)
	orders.PATCH("/:id/status", h.Orders.UpdateStatus)

	admin.GET("/dashboard", h.Orders.Dashboard)
	admin.GET("/settings", h.Content.GetSettings)
	admin.PUT("/settings", h.Content.UpdateSettings)

	homepage := admin.Group("homepage", "/homepage")
	homepage.GET("/banners", h.Content.ListBanners)
	homepage.POST("/banners", h.Content.CreateBanner)
	homepage.PUT("/banners/:id", h.Content.UpdateBanner)
	homepage.DELETE("/banners/:id", h.Content.DeleteBanner)
	homepage.GET("/sections", h.Content.ListSections)
	homepage.POST("/sections", h.Content.CreateSection)
	homepage.PUT("/sections/:id", h.Content.UpdateSection)
	homepage.DELETE("/sections/:id", h.Content.DeleteSection)

	return admin
}
