// Package handler exposes the REST API over gin. It translates HTTP
// requests into domain service calls and domain errors into status codes;
// no business rule lives here.
package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/orderdesk/api/internal/auth"
	"github.com/orderdesk/api/internal/domain/category"
	"github.com/orderdesk/api/internal/domain/coupon"
	"github.com/orderdesk/api/internal/domain/order"
	"github.com/orderdesk/api/internal/domain/product"
	"github.com/orderdesk/api/internal/domain/user"
)

// Handler bundles the domain services behind the REST routes.
type Handler struct {
	orders     *order.Service
	users      *user.Service
	products   *product.Service
	categories *category.Service
	coupons    *coupon.Service
	resolver   *auth.Resolver
}

// NewHandler creates a Handler with its service dependencies.
func NewHandler(
	orders *order.Service,
	users *user.Service,
	products *product.Service,
	categories *category.Service,
	coupons *coupon.Service,
	resolver *auth.Resolver,
) *Handler {
	return &Handler{
		orders:     orders,
		users:      users,
		products:   products,
		categories: categories,
		coupons:    coupons,
		resolver:   resolver,
	}
}

// Router builds the gin engine with every API route registered. Health
// endpoints are mounted by the caller on the outer mux, not here.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/auth/login", h.login)
	r.POST("/users", h.createUser)

	authed := r.Group("", h.authenticate)
	{
		authed.GET("/users", h.listUsers)
		authed.GET("/users/:id", h.getUser)
		authed.PUT("/users/:id", h.updateUser)
		authed.DELETE("/users/:id", h.deleteUser)

		authed.GET("/categories", h.listCategories)
		authed.GET("/categories/:id", h.getCategory)
		authed.POST("/categories", h.adminOnly, h.createCategory)
		authed.PUT("/categories/:id", h.adminOnly, h.updateCategory)
		authed.DELETE("/categories/:id", h.adminOnly, h.deleteCategory)

		authed.GET("/products", h.listProducts)
		authed.GET("/products/:id", h.getProduct)
		authed.POST("/products", h.adminOnly, h.createProduct)
		authed.PUT("/products/:id", h.adminOnly, h.updateProduct)
		authed.DELETE("/products/:id", h.adminOnly, h.deleteProduct)

		authed.GET("/coupons", h.listCoupons)
		authed.GET("/coupons/:id", h.getCoupon)
		authed.POST("/coupons", h.adminOnly, h.createCoupon)
		authed.PUT("/coupons/:id", h.adminOnly, h.updateCoupon)
		authed.DELETE("/coupons/:id", h.adminOnly, h.deleteCoupon)

		authed.POST("/orders", h.createOrder)
		authed.GET("/orders", h.listOrders)
		authed.GET("/orders/:id", h.getOrder)
		authed.PUT("/orders/:id", h.updateOrder)
		authed.DELETE("/orders/:id", h.deleteOrder)
		authed.PUT("/orders/:id/items", h.updateOrderItems)
		authed.DELETE("/orders/:id/items/:productId", h.removeOrderItem)
		authed.PUT("/orders/:id/coupon", h.setOrderCoupon)
		authed.DELETE("/orders/:id/coupon", h.clearOrderCoupon)
		authed.PUT("/orders/:id/payment", h.setOrderPayment)
		authed.PUT("/orders/:id/status", h.setOrderStatus)
	}

	return r
}
