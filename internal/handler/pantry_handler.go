package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"pantrypal/internal/auth"
	"pantrypal/internal/errors"
	"pantrypal/internal/model"
	"pantrypal/internal/store"
	syncer "pantrypal/internal/sync"
)

// PantryHandler handles pantry inventory endpoints. Reads come straight
// from local storage; writes go through the sync coordinator.
type PantryHandler struct {
	pantry store.PantryStore
	coord  *syncer.Coordinator
}

// NewPantryHandler creates a new pantry handler.
func NewPantryHandler(pantry store.PantryStore, coord *syncer.Coordinator) *PantryHandler {
	return &PantryHandler{pantry: pantry, coord: coord}
}

// PantryItemRequest represents a pantry item create/update request.
type PantryItemRequest struct {
	IngredientName string    `json:"ingredientName" validate:"required"`
	Category       string    `json:"category"`
	Quantity       string    `json:"quantity"`
	Unit           string    `json:"unit"`
	ExpirationDate time.Time `json:"expirationDate"`
	Notes          string    `json:"notes"`
	Barcode        string    `json:"barcode"`
}

// ListItems returns the caller's pantry, optionally filtered by
// category, a name search, or an expiring-within-days window.
func (h *PantryHandler) ListItems(c echo.Context) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	ctx := c.Request().Context()
	var items []model.PantryItem
	switch {
	case c.QueryParam("search") != "":
		items, err = h.pantry.Search(ctx, userID, c.QueryParam("search"))
	case c.QueryParam("category") != "":
		items, err = h.pantry.ListByCategory(ctx, userID, c.QueryParam("category"))
	case c.QueryParam("expiringDays") != "":
		days, convErr := strconv.Atoi(c.QueryParam("expiringDays"))
		if convErr != nil || days < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid expiringDays",
				Code:  "INVALID_REQUEST",
			})
		}
		threshold := time.Now().AddDate(0, 0, days)
		items, err = h.pantry.ListExpiringBefore(ctx, userID, threshold)
	default:
		items, err = h.pantry.ListByUser(ctx, userID)
	}
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, items)
}

// GetItem returns one pantry item owned by the caller.
func (h *PantryHandler) GetItem(c echo.Context) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	item, err := h.pantry.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if item.UserID != userID {
		// Not the caller's item; indistinguishable from absent.
		httpErr := errors.MapErrorToHTTP(errors.ErrItemNotFound)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, item)
}

// CreateItem saves a new pantry item. The write is durable locally as
// soon as this returns; the remote mirror catches up in the background.
func (h *PantryHandler) CreateItem(c echo.Context) error {
	return h.saveItem(c, "")
}

// UpdateItem saves changes to an existing pantry item.
func (h *PantryHandler) UpdateItem(c echo.Context) error {
	return h.saveItem(c, c.Param("id"))
}

func (h *PantryHandler) saveItem(c echo.Context, id string) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	if id != "" {
		existing, err := h.pantry.GetByID(c.Request().Context(), id)
		if err == nil && existing.UserID != userID {
			// Not the caller's item; indistinguishable from absent.
			err = errors.ErrItemNotFound
		}
		if err != nil {
			httpErr := errors.MapErrorToHTTP(err)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
	}

	var req PantryItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	item := &model.PantryItem{
		ID:             id,
		UserID:         userID,
		IngredientName: req.IngredientName,
		Category:       req.Category,
		Quantity:       req.Quantity,
		Unit:           req.Unit,
		ExpirationDate: req.ExpirationDate,
		Notes:          req.Notes,
		Barcode:        req.Barcode,
	}
	if err := h.coord.SaveItem(c.Request().Context(), item, nil); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	status := http.StatusOK
	if id == "" {
		status = http.StatusCreated
	}
	return c.JSON(status, item)
}

// DeleteItem removes a pantry item. Deleting an absent item succeeds.
func (h *PantryHandler) DeleteItem(c echo.Context) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	if err := h.coord.DeleteItem(c.Request().Context(), userID, c.Param("id"), nil); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.NoContent(http.StatusNoContent)
}
