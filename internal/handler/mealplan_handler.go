package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"pantrypal/internal/auth"
	"pantrypal/internal/errors"
	"pantrypal/internal/model"
	"pantrypal/internal/store"
	syncer "pantrypal/internal/sync"
)

// MealPlanHandler handles meal plan endpoints.
type MealPlanHandler struct {
	plans store.MealPlanStore
	coord *syncer.Coordinator
}

// NewMealPlanHandler creates a new meal plan handler.
func NewMealPlanHandler(plans store.MealPlanStore, coord *syncer.Coordinator) *MealPlanHandler {
	return &MealPlanHandler{plans: plans, coord: coord}
}

// MealPlanRequest represents a meal plan create/update request.
type MealPlanRequest struct {
	Name          string            `json:"name" validate:"required"`
	StartDate     time.Time         `json:"startDate"`
	EndDate       time.Time         `json:"endDate"`
	PlanType      string            `json:"planType"`
	RecipeIDs     []string          `json:"recipeIds"`
	RecipeDayMap  map[string]int    `json:"recipeDayMap"`
	RecipeMealMap map[string]string `json:"recipeMealMap"`
	TotalCalories int               `json:"totalCalories" validate:"min=0"`
}

// ListPlans returns the caller's meal plans.
func (h *MealPlanHandler) ListPlans(c echo.Context) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	plans, err := h.plans.ListByUser(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, plans)
}

// CurrentPlan returns the plan whose date range covers today.
func (h *MealPlanHandler) CurrentPlan(c echo.Context) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	plan, err := h.plans.CurrentPlan(c.Request().Context(), userID, time.Now())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, plan)
}

// GetPlan returns one meal plan owned by the caller.
func (h *MealPlanHandler) GetPlan(c echo.Context) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	plan, err := h.plans.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if plan.UserID != userID {
		httpErr := errors.MapErrorToHTTP(errors.ErrMealPlanNotFound)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, plan)
}

// CreatePlan saves a new meal plan.
func (h *MealPlanHandler) CreatePlan(c echo.Context) error {
	return h.savePlan(c, "")
}

// UpdatePlan saves changes to an existing meal plan.
func (h *MealPlanHandler) UpdatePlan(c echo.Context) error {
	return h.savePlan(c, c.Param("id"))
}

func (h *MealPlanHandler) savePlan(c echo.Context, id string) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	if id != "" {
		existing, err := h.plans.GetByID(c.Request().Context(), id)
		if err == nil && existing.UserID != userID {
			// Not the caller's plan; indistinguishable from absent.
			err = errors.ErrMealPlanNotFound
		}
		if err != nil {
			httpErr := errors.MapErrorToHTTP(err)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
	}

	var req MealPlanRequest
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

	plan := &model.MealPlan{
		ID:            id,
		UserID:        userID,
		Name:          req.Name,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		PlanType:      req.PlanType,
		RecipeIDs:     req.RecipeIDs,
		RecipeDayMap:  req.RecipeDayMap,
		RecipeMealMap: req.RecipeMealMap,
		TotalCalories: req.TotalCalories,
	}
	if err := h.coord.SaveMealPlan(c.Request().Context(), plan, nil); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	status := http.StatusOK
	if id == "" {
		status = http.StatusCreated
	}
	return c.JSON(status, plan)
}

// DeletePlan removes a meal plan. Deleting an absent plan succeeds.
func (h *MealPlanHandler) DeletePlan(c echo.Context) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	if err := h.coord.DeleteMealPlan(c.Request().Context(), userID, c.Param("id"), nil); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.NoContent(http.StatusNoContent)
}
