package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/Axel-LeBlanc/Eatmands/internal/activity"
	"github.com/Axel-LeBlanc/Eatmands/internal/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid request body"})
	}
	token, user, err := h.staff.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{
		"message": "login successful",
		"token":   token,
		"user":    user,
	})
}

func (h *Handler) logout(c *echo.Context) error {
	claims := callerClaims(c)
	if err := h.staff.Logout(c.Request().Context(), claims.UserID); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{"message": "session closed"})
}

func (h *Handler) listUsers(c *echo.Context) error {
	users, err := h.staff.Users(c.Request().Context())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) getUser(c *echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid user id"})
	}
	user, err := h.staff.User(c.Request().Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) createUser(c *echo.Context) error {
	var in auth.UserInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid request body"})
	}
	user, err := h.staff.CreateUser(c.Request().Context(), in)
	if err != nil {
		return h.writeError(c, err)
	}
	claims := callerClaims(c)
	h.activityLog.Record(c.Request().Context(), claims.UserID, "user", "created", user.Email)
	return c.JSON(http.StatusCreated, envelope{"message": "user registered", "id": user.ID})
}

func (h *Handler) updateUser(c *echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid user id"})
	}
	var in auth.UserInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid request body"})
	}
	user, err := h.staff.UpdateUser(c.Request().Context(), id, in)
	if err != nil {
		return h.writeError(c, err)
	}
	claims := callerClaims(c)
	h.activityLog.Record(c.Request().Context(), claims.UserID, "user", "updated", user.Email)
	return c.JSON(http.StatusOK, envelope{"message": "user updated"})
}

func (h *Handler) deleteUser(c *echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, envelope{"error": "invalid user id"})
	}
	if err := h.staff.DeleteUser(c.Request().Context(), id); err != nil {
		return h.writeError(c, err)
	}
	claims := callerClaims(c)
	h.activityLog.Record(c.Request().Context(), claims.UserID, "user", "deleted", c.Param("id"))
	return c.JSON(http.StatusOK, envelope{"message": "user deleted"})
}

func (h *Handler) activityHistory(c *echo.Context) error {
	filter := activity.Filter{
		Entity: c.QueryParam("entity"),
		Action: c.QueryParam("action"),
	}
	if raw := c.QueryParam("actor_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, envelope{"error": "invalid actor id"})
		}
		filter.ActorID = uint(id)
	}
	fromRaw, toRaw := c.QueryParam("from"), c.QueryParam("to")
	if fromRaw != "" && toRaw != "" {
		from, err1 := time.Parse("2006-01-02", fromRaw)
		to, err2 := time.Parse("2006-01-02", toRaw)
		if err1 != nil || err2 != nil {
			return c.JSON(http.StatusBadRequest, envelope{"error": "from and to must be YYYY-MM-DD dates"})
		}
		filter.From = from
		filter.To = to.Add(24 * time.Hour)
	}

	records, err := h.activityLog.History(c.Request().Context(), filter)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, records)
}
