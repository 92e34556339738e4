package handler

import (
	"github.com/labstack/echo/v4"
)

// Handlers groups every HTTP handler of the service
type Handlers struct {
	Auth      *AuthHandler
	Dashboard *DashboardHandler
	Merchant  *MerchantHandler
	Product   *ProductHandler
	Order     *OrderHandler
}

// RegisterRoutes mounts the public auth routes and the /api routes guarded by requireAuth
func (h *Handlers) RegisterRoutes(e *echo.Echo, requireAuth echo.MiddlewareFunc) {
	e.GET("/health", HealthCheck)

	// Authentication routes live outside /api since they grant access to it
	auth := e.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)

	api := e.Group("/api")
	api.Use(requireAuth)

	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/dashboard", h.Dashboard.GetDashboard)

	merchant := api.Group("/merchant")
	merchant.GET("", h.Merchant.GetMerchant)
	merchant.PUT("", h.Merchant.UpdateMerchant)
	merchant.POST("/logo", h.Merchant.UploadLogo)

	products := api.Group("/products")
	products.GET("", h.Product.ListProducts)
	products.POST("", h.Product.CreateProduct)
	products.GET("/:id", h.Product.GetProduct)
	products.PUT("/:id", h.Product.UpdateProduct)
	products.DELETE("/:id", h.Product.DeleteProduct)
	products.POST("/:id/image", h.Product.UploadImage)

	orders := api.Group("/orders")
	orders.GET("", h.Order.ListOrders)
	orders.GET("/pending-count", h.Order.PendingCount)
	orders.GET("/:id", h.Order.GetOrder)
	orders.PATCH("/:id/status", h.Order.UpdateStatus)
}
