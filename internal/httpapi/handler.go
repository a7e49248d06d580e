// Package httpapi exposes the storefront over HTTP: gin routing, the uniform
// response envelope, and credential resolution.
package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/xenking/tmall-storefront/internal/domain/auth"
	"github.com/xenking/tmall-storefront/internal/domain/cart"
	"github.com/xenking/tmall-storefront/internal/domain/order"
	"github.com/xenking/tmall-storefront/internal/domain/product"
)

// Handler holds the domain services behind the HTTP surface.
type Handler struct {
	resolver auth.Resolver
	products product.Repository
	carts    *cart.Service
	orders   *order.Service
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	resolver auth.Resolver,
	products product.Repository,
	carts *cart.Service,
	orders *order.Service,
) *Handler {
	return &Handler{
		resolver: resolver,
		products: products,
		carts:    carts,
		orders:   orders,
	}
}

// Register mounts all API routes under /api. Everything except the catalog
// requires a resolved caller identity.
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")
	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)

	authed := api.Group("", h.requireIdentity)
	authed.GET("/cart", h.listCart)
	authed.POST("/cart", h.addToCart)
	authed.PUT("/cart/:id", h.updateCartItem)
	authed.DELETE("/cart/:id", h.removeCartItem)

	authed.GET("/orders", h.listOrders)
	authed.POST("/orders", h.placeOrder)
	authed.GET("/orders/:id", h.getOrder)
	authed.PUT("/orders/:id/status", h.updateOrderStatus)
}
