package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/shopspring/decimal"

	"github.com/Axel-LeBlanc/Eatmands/internal/models"
	"github.com/Axel-LeBlanc/Eatmands/internal/order"
)

func paramUint(c *echo.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}

type createOrderRequest struct {
	Recipient string              `json:"recipient"`
	Discount  decimal.Decimal     `json:"discount"`
	Lines     []order.LineRequest `json:"lines"`
}

func (h *Handler) createOrder(c *echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid request body"})
	}
	claims := callerClaims(c)

	ord, err := h.orders.Create(c.Request().Context(), order.CreateRequest{
		CreatorID: claims.UserID,
		Recipient: req.Recipient,
		Lines:     req.Lines,
		Discount:  req.Discount,
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, envelope{
		"message":   "order created",
		"order_id":  ord.ID,
		"reference": ord.Reference,
		"total":     ord.Total,
	})
}

func (h *Handler) listOrders(c *echo.Context) error {
	orders, err := h.orders.List(c.Request().Context())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *Handler) recentOrders(c *echo.Context) error {
	seconds := 60
	if raw := c.QueryParam("seconds"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, envelope{"error": "seconds must be a positive integer"})
		}
		seconds = n
	}
	orders, err := h.orders.RecentlyChanged(c.Request().Context(), time.Duration(seconds)*time.Second)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *Handler) getOrder(c *echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid order id"})
	}
	ord, err := h.orders.Get(c.Request().Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, ord)
}

type statusRequest struct {
	Status models.OrderStatus `json:"status"`
}

func (h *Handler) setOrderStatus(c *echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid order id"})
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid request body"})
	}
	claims := callerClaims(c)
	if err := h.orders.SetStatus(c.Request().Context(), id, req.Status, claims.UserID); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{"message": "order status updated", "status": req.Status})
}

func (h *Handler) cancelOrder(c *echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid order id"})
	}
	claims := callerClaims(c)
	if err := h.orders.Cancel(c.Request().Context(), id, claims.UserID); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{"message": "order cancelled"})
}

func (h *Handler) deleteOrder(c *echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid order id"})
	}
	claims := callerClaims(c)
	if err := h.orders.Delete(c.Request().Context(), id, claims.UserID); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{"message": "order deleted"})
}

type replaceLinesRequest struct {
	Lines []order.LineRequest `json:"lines"`
}

func (h *Handler) replaceOrderLines(c *echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid order id"})
	}
	var req replaceLinesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid request body"})
	}
	claims := callerClaims(c)
	ord, err := h.orders.ReplaceLines(c.Request().Context(), id, req.Lines, claims.UserID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{"message": "order lines replaced", "total": ord.Total})
}

func (h *Handler) addOrderLine(c *echo.Context) error {
	id, ok := paramUint(c, "order_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid order id"})
	}
	var req order.LineRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid request body"})
	}
	claims := callerClaims(c)
	ord, err := h.orders.AddLine(c.Request().Context(), id, req, claims.UserID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, envelope{"message": "line added", "total": ord.Total})
}

func (h *Handler) removeOrderLine(c *echo.Context) error {
	orderID, ok := paramUint(c, "order_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid order id"})
	}
	productID, ok := paramUint(c, "product_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid product id"})
	}
	claims := callerClaims(c)
	ord, err := h.orders.RemoveLine(c.Request().Context(), orderID, productID, claims.UserID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{"message": "line removed", "total": ord.Total})
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) updateOrderLineQuantity(c *echo.Context) error {
	orderID, ok := paramUint(c, "order_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid order id"})
	}
	productID, ok := paramUint(c, "product_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid product id"})
	}
	var req quantityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid request body"})
	}
	claims := callerClaims(c)
	ord, err := h.orders.UpdateLineQuantity(c.Request().Context(), orderID, productID, req.Quantity, claims.UserID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{"message": "quantity updated", "total": ord.Total})
}

type exclusionRequest struct {
	ProductID   uint `json:"product_id"`
	ComponentID uint `json:"component_id"`
}

func (h *Handler) addExclusion(c *echo.Context) error {
	orderID, ok := paramUint(c, "order_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid order id"})
	}
	var req exclusionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid request body"})
	}
	claims := callerClaims(c)
	err := h.orders.AddExclusion(c.Request().Context(), orderID, req.ProductID, req.ComponentID, claims.UserID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, envelope{"message": "component excluded"})
}

func (h *Handler) removeExclusion(c *echo.Context) error {
	orderID, ok := paramUint(c, "order_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid order id"})
	}
	var req exclusionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid request body"})
	}
	claims := callerClaims(c)
	err := h.orders.RemoveExclusion(c.Request().Context(), orderID, req.ProductID, req.ComponentID, claims.UserID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{"message": "exclusion removed"})
}

func (h *Handler) searchOrders(c *echo.Context) error {
	ctx := c.Request().Context()
	switch c.Param("field") {
	case "status":
		orders, err := h.orders.ByStatus(ctx, models.OrderStatus(c.QueryParam("status")))
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, orders)
	case "date":
		from, err1 := time.Parse("2006-01-02", c.QueryParam("from"))
		to, err2 := time.Parse("2006-01-02", c.QueryParam("to"))
		if err1 != nil || err2 != nil {
			return c.JSON(http.StatusBadRequest, envelope{"error": "from and to must be YYYY-MM-DD dates"})
		}
		orders, err := h.orders.ByDateRange(ctx, from, to.Add(24*time.Hour))
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, orders)
	case "waiter":
		orders, err := h.orders.ByWaiterName(ctx, c.QueryParam("name"))
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, orders)
	case "product":
		orders, err := h.orders.ByProductName(ctx, c.QueryParam("name"))
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, orders)
	case "category":
		id, err := strconv.ParseUint(c.QueryParam("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, envelope{"error": "invalid category id"})
		}
		orders, err := h.orders.ByCategory(ctx, uint(id))
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, orders)
	case "total":
		min, err1 := decimal.NewFromString(c.QueryParam("min"))
		max, err2 := decimal.NewFromString(c.QueryParam("max"))
		if err1 != nil || err2 != nil {
			return c.JSON(http.StatusBadRequest, envelope{"error": "min and max are required"})
		}
		orders, err := h.orders.ByTotalRange(ctx, min, max)
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, orders)
	default:
		return c.JSON(http.StatusBadRequest, envelope{"error": "unknown search field"})
	}
}
