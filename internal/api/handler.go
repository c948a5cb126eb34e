package api

import (
	"net/http"

	"mobile-store/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	auth     *service.AuthService
	catalog  *service.CatalogService
	cart     *service.CartService
	checkout *service.CheckoutService
	orders   *service.OrderService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	auth *service.AuthService,
	catalog *service.CatalogService,
	cart *service.CartService,
	checkout *service.CheckoutService,
	orders *service.OrderService,
) *Handler {
	return &Handler{
		auth:     auth,
		catalog:  catalog,
		cart:     cart,
		checkout: checkout,
		orders:   orders,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", h.healthCheck)

		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)

		api.GET("/products", h.listProducts)
		api.GET("/products/:id", h.getProduct)
	}

	authed := api.Group("")
	authed.Use(h.requireAuth())
	{
		authed.GET("/cart", h.getCart)
		authed.POST("/cart", h.addToCart)
		authed.PUT("/cart/:id", h.updateCartItem)
		authed.DELETE("/cart/:id", h.removeCartItem)

		authed.POST("/checkout", h.placeOrder)

		authed.GET("/orders", h.listOrders)
		authed.GET("/orders/:id", h.getOrder)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Server is running",
	})
}
