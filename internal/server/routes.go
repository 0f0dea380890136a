package server

import (
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/Axel-LeBlanc/Eatmands/internal/auth"
)

// SetupRoutes wires the full HTTP surface. Every protected group runs
// Authenticate once and per-route Authorize checks against the permission
// table.
func SetupRoutes(e *echo.Echo, h *Handler, tokens *auth.TokenManager) {
	e.GET("/health", func(c *echo.Context) error {
		return c.JSON(http.StatusOK, envelope{"status": "healthy"})
	})

	api := e.Group("/api")

	api.POST("/auth/login", h.login)
	api.POST("/auth/logout", h.logout, Authenticate(tokens))

	// Customer-facing menu; no credential required.
	api.GET("/menu", h.menu)

	orders := api.Group("/orders", Authenticate(tokens))
	orders.POST("", h.createOrder, Authorize(auth.OpOrderCreate))
	orders.GET("", h.listOrders, Authorize(auth.OpOrderList))
	orders.GET("/recent", h.recentOrders, Authorize(auth.OpOrderList))
	orders.GET("/search/:field", h.searchOrders, Authorize(auth.OpOrderSearch))
	orders.GET("/:id", h.getOrder, Authorize(auth.OpOrderGet))
	orders.PUT("/:id/status", h.setOrderStatus, Authorize(auth.OpOrderStatus))
	orders.PATCH("/cancel/:id", h.cancelOrder, Authorize(auth.OpOrderCancel))
	orders.DELETE("/:id", h.deleteOrder, Authorize(auth.OpOrderDelete))
	orders.PUT("/:id/replace-products", h.replaceOrderLines, Authorize(auth.OpOrderMutate))
	orders.POST("/:order_id/line", h.addOrderLine, Authorize(auth.OpOrderMutate))
	orders.DELETE("/:order_id/line/:product_id", h.removeOrderLine, Authorize(auth.OpOrderMutate))
	orders.PUT("/:order_id/line/:product_id", h.updateOrderLineQuantity, Authorize(auth.OpOrderMutate))
	orders.POST("/:order_id/exclusions", h.addExclusion, Authorize(auth.OpOrderMutate))
	orders.DELETE("/:order_id/exclusions", h.removeExclusion, Authorize(auth.OpOrderMutate))

	products := api.Group("/products", Authenticate(tokens))
	products.GET("", h.listProducts, Authorize(auth.OpCatalogRead))
	products.GET("/alerts", h.lowStockProducts, Authorize(auth.OpCatalogRead))
	products.GET("/:id", h.getProduct, Authorize(auth.OpCatalogRead))
	products.POST("", h.createProduct, Authorize(auth.OpCatalogWrite))
	products.PUT("/:id", h.updateProduct, Authorize(auth.OpCatalogWrite))
	products.DELETE("/:id", h.deleteProduct, Authorize(auth.OpCatalogWrite))

	categories := api.Group("/categories", Authenticate(tokens))
	categories.GET("", h.listCategories, Authorize(auth.OpCatalogRead))
	categories.GET("/:id", h.getCategory, Authorize(auth.OpCatalogRead))
	categories.POST("", h.createCategory, Authorize(auth.OpCatalogWrite))
	categories.PUT("/:id", h.updateCategory, Authorize(auth.OpCatalogWrite))
	categories.DELETE("/:id", h.deleteCategory, Authorize(auth.OpCatalogWrite))

	users := api.Group("/users", Authenticate(tokens), Authorize(auth.OpUserManage))
	users.GET("", h.listUsers)
	users.GET("/:id", h.getUser)
	users.POST("", h.createUser)
	users.PUT("/:id", h.updateUser)
	users.DELETE("/:id", h.deleteUser)

	api.GET("/activity", h.activityHistory, Authenticate(tokens), Authorize(auth.OpActivityRead))
}
