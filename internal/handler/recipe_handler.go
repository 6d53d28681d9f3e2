package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"pantrypal/internal/auth"
	"pantrypal/internal/errors"
	"pantrypal/internal/model"
	"pantrypal/internal/service"
	syncer "pantrypal/internal/sync"
)

const defaultRecommendationLimit = 10

// RecipeHandler handles recipe catalog, recommendation, and favorite
// endpoints.
type RecipeHandler struct {
	recipes service.RecipeService
	coord   *syncer.Coordinator
}

// NewRecipeHandler creates a new recipe handler.
func NewRecipeHandler(recipes service.RecipeService, coord *syncer.Coordinator) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, coord: coord}
}

// ListRecipes returns the catalog with the caller's favorite flags set,
// optionally filtered by category.
func (h *RecipeHandler) ListRecipes(c echo.Context) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	ctx := c.Request().Context()
	var recipes []model.Recipe
	if category := c.QueryParam("category"); category != "" {
		recipes, err = h.recipes.ListByCategory(ctx, userID, category)
	} else {
		recipes, err = h.recipes.List(ctx, userID)
	}
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, recipes)
}

// GetRecipe returns one catalog recipe.
func (h *RecipeHandler) GetRecipe(c echo.Context) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	recipe, err := h.recipes.Get(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, recipe)
}

// Recommendations scores the catalog against the caller's pantry and
// profile and returns the top matches.
func (h *RecipeHandler) Recommendations(c echo.Context) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	limit := defaultRecommendationLimit
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid limit",
				Code:  "INVALID_REQUEST",
			})
		}
	}

	recs, err := h.recipes.Recommend(c.Request().Context(), userID, limit)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, recs)
}

// CanMakeNow returns the recipes the caller can cook from the current
// pantry alone.
func (h *RecipeHandler) CanMakeNow(c echo.Context) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	recipes, err := h.recipes.CanMakeNow(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, recipes)
}

// MissingIngredients returns the recipe ingredients absent from the
// caller's pantry, in recipe order.
func (h *RecipeHandler) MissingIngredients(c echo.Context) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	missing, err := h.recipes.MissingIngredients(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, missing)
}

// ListFavorites returns the caller's favorite recipes, most recent
// first.
func (h *RecipeHandler) ListFavorites(c echo.Context) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	recipes, err := h.recipes.Favorites(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, recipes)
}

// AddFavorite marks a recipe as favorite. Idempotent.
func (h *RecipeHandler) AddFavorite(c echo.Context) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	if err := h.coord.AddFavorite(c.Request().Context(), userID, c.Param("recipeId"), nil); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.NoContent(http.StatusNoContent)
}

// RemoveFavorite unmarks a favorite. Idempotent.
func (h *RecipeHandler) RemoveFavorite(c echo.Context) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	if err := h.coord.RemoveFavorite(c.Request().Context(), userID, c.Param("recipeId"), nil); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.NoContent(http.StatusNoContent)
}
