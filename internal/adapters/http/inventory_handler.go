package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pantrykeeper/core/internal/domain/entities"
	"github.com/pantrykeeper/core/internal/infrastructure/logger"
	"github.com/pantrykeeper/core/internal/ports"
)

// InventoryHandler handles food inventory requests
type InventoryHandler struct {
	service ports.InventoryService
	logger  *logger.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(service ports.InventoryService, logger *logger.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		logger:  logger,
	}
}

// AddItem handles item creation
func (h *InventoryHandler) AddItem(c echo.Context) error {
	var req ports.AddItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	item, err := h.service.AddItem(c.Request().Context(), req)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, item)
}

// ListItems handles listing with filters
func (h *InventoryHandler) ListItems(c echo.Context) error {
	req := ports.ListItemsRequest{
		Category: c.QueryParam("category"),
		Location: c.QueryParam("location"),
	}

	if v := c.QueryParam("expiringSoon"); v != "" {
		expiring, err := strconv.ParseBool(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid expiringSoon parameter")
		}
		req.ExpiringSoon = expiring
	}

	if v := c.QueryParam("expiringSoonDays"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid expiringSoonDays parameter")
		}
		req.ExpiringSoonDays = days
	}

	items, err := h.service.ListItems(c.Request().Context(), req)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, items)
}

// GetItem handles getting an item by ID
func (h *InventoryHandler) GetItem(c echo.Context) error {
	item, err := h.service.GetItem(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, item)
}

// UpdateItem handles a partial update by ID
func (h *InventoryHandler) UpdateItem(c echo.Context) error {
	var req ports.UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	item, err := h.service.UpdateItem(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, item)
}

// DeleteItem handles removal by path ID
func (h *InventoryHandler) DeleteItem(c echo.Context) error {
	removed, err := h.service.RemoveItem(c.Request().Context(), ports.RemoveItemRequest{ID: c.Param("id")})
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, removed)
}

// RemoveItem handles removal by selector body (id or name)
func (h *InventoryHandler) RemoveItem(c echo.Context) error {
	var req ports.RemoveItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	removed, err := h.service.RemoveItem(c.Request().Context(), req)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, removed)
}

// GetStats handles inventory statistics
func (h *InventoryHandler) GetStats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, stats)
}

// writeError maps domain error kinds onto HTTP status codes. Database errors
// keep their generic message; the cause goes to the log only.
func (h *InventoryHandler) writeError(c echo.Context, err error) error {
	var verr *entities.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, ports.ErrorResponse{
			Message: "validation failed",
			Details: verr.Violations,
		})
	}

	var nferr *entities.NotFoundError
	if errors.As(err, &nferr) {
		return c.JSON(http.StatusNotFound, ports.ErrorResponse{Message: nferr.Error()})
	}

	var dberr *entities.DatabaseError
	if errors.As(err, &dberr) {
		h.logger.Error("Store operation failed", "op", dberr.Op, "error", dberr.Unwrap())
		return c.JSON(http.StatusInternalServerError, ports.ErrorResponse{Message: dberr.Error()})
	}

	h.logger.Error("Unexpected error", "error", err)
	return c.JSON(http.StatusInternalServerError, ports.ErrorResponse{Message: "internal error"})
}
