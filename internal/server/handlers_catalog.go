package server

import (
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/Axel-LeBlanc/Eatmands/internal/catalog"
)

func (h *Handler) listProducts(c *echo.Context) error {
	products, err := h.catalog.ListProducts(c.Request().Context())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *Handler) lowStockProducts(c *echo.Context) error {
	products, err := h.catalog.LowStockProducts(c.Request().Context())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *Handler) getProduct(c *echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid product id"})
	}
	p, err := h.catalog.Product(c.Request().Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) createProduct(c *echo.Context) error {
	var in catalog.ProductInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid request body"})
	}
	p, err := h.catalog.CreateProduct(c.Request().Context(), in)
	if err != nil {
		return h.writeError(c, err)
	}
	claims := callerClaims(c)
	h.activityLog.Record(c.Request().Context(), claims.UserID, "product", "created", p.Name)
	return c.JSON(http.StatusCreated, envelope{"message": "product created", "id": p.ID})
}

func (h *Handler) updateProduct(c *echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid product id"})
	}
	var in catalog.ProductInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid request body"})
	}
	p, err := h.catalog.UpdateProduct(c.Request().Context(), id, in)
	if err != nil {
		return h.writeError(c, err)
	}
	claims := callerClaims(c)
	h.activityLog.Record(c.Request().Context(), claims.UserID, "product", "updated", p.Name)
	return c.JSON(http.StatusOK, envelope{"message": "product updated"})
}

func (h *Handler) deleteProduct(c *echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid product id"})
	}
	if err := h.catalog.DeleteProduct(c.Request().Context(), id); err != nil {
		return h.writeError(c, err)
	}
	claims := callerClaims(c)
	h.activityLog.Record(c.Request().Context(), claims.UserID, "product", "deleted", c.Param("id"))
	return c.JSON(http.StatusOK, envelope{"message": "product deleted"})
}

func (h *Handler) menu(c *echo.Context) error {
	items, err := h.catalog.Menu(c.Request().Context())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) listCategories(c *echo.Context) error {
	categories, err := h.catalog.Categories(c.Request().Context())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *Handler) getCategory(c *echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid category id"})
	}
	cat, err := h.catalog.Category(c.Request().Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (h *Handler) createCategory(c *echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid request body"})
	}
	cat, err := h.catalog.CreateCategory(c.Request().Context(), req.Name)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, envelope{"message": "category created", "id": cat.ID})
}

func (h *Handler) updateCategory(c *echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid category id"})
	}
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid request body"})
	}
	if err := h.catalog.UpdateCategory(c.Request().Context(), id, req.Name); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{"message": "category updated"})
}

func (h *Handler) deleteCategory(c *echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid category id"})
	}
	if err := h.catalog.DeleteCategory(c.Request().Context(), id); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{"message": "category deleted"})
}
