package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"pantrypal/internal/auth"
	"pantrypal/internal/errors"
	"pantrypal/internal/model"
	"pantrypal/internal/service"
	"pantrypal/internal/store"
	syncer "pantrypal/internal/sync"
)

// ProfileHandler handles sign-in/out, profile, and nutrition endpoints.
type ProfileHandler struct {
	users     store.UserStore
	nutrition service.NutritionService
	tokens    *auth.TokenService
	coord     *syncer.Coordinator
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(users store.UserStore, nutrition service.NutritionService, tokens *auth.TokenService, coord *syncer.Coordinator) *ProfileHandler {
	return &ProfileHandler{users: users, nutrition: nutrition, tokens: tokens, coord: coord}
}

// SignInRequest carries the externally-verified identity of the caller.
type SignInRequest struct {
	UserID        string `json:"userId" validate:"required"`
	Name          string `json:"name"`
	Email         string `json:"email" validate:"omitempty,email"`
	ProfilePicURL string `json:"profilePicUrl"`
}

// SignInResponse returns the session token and the stored profile.
type SignInResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// ProfileRequest represents a profile update request.
type ProfileRequest struct {
	Name              string `json:"name"`
	Email             string `json:"email" validate:"omitempty,email"`
	ProfilePicURL     string `json:"profilePicUrl"`
	DietaryPreference string `json:"dietaryPreferences"`
}

// GoalsRequest represents a daily nutrition goals update.
type GoalsRequest struct {
	DailyCalorieGoal int `json:"dailyCalorieGoal" validate:"min=0"`
	DailyProteinGoal int `json:"dailyProteinGoal" validate:"min=0"`
	DailyCarbsGoal   int `json:"dailyCarbsGoal" validate:"min=0"`
	DailyFatGoal     int `json:"dailyFatGoal" validate:"min=0"`
}

// MealRequest records a cooked recipe against today's counters.
type MealRequest struct {
	RecipeID string `json:"recipeId" validate:"required"`
}

// SignIn upserts the caller's profile, starts live sync for them, and
// mints a session token. Identity verification happened upstream; the
// caller presents the id the provider vouched for.
func (h *ProfileHandler) SignIn(c echo.Context) error {
	var req SignInRequest
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

	ctx := c.Request().Context()
	user, err := h.users.GetByID(ctx, req.UserID)
	if err == errors.ErrUserNotFound {
		now := time.Now().UTC()
		user = &model.User{
			ID:        req.UserID,
			CreatedAt: now,
			// Arms the calendar-day counter reset from day one.
			LastNutritionReset: now,
		}
		err = nil
	}
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.ProfilePicURL != "" {
		user.ProfilePicURL = req.ProfilePicURL
	}
	user.LastLoginAt = time.Now().UTC()

	if err := h.coord.SaveUser(ctx, user, nil); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	h.coord.StartSyncing(user.ID)

	token, err := h.tokens.Generate(user.ID, user.Email)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, SignInResponse{Token: token, User: user})
}

// SignOut stops live sync for the caller. Local data stays in place.
func (h *ProfileHandler) SignOut(c echo.Context) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	h.coord.StopSyncing(userID)
	return c.NoContent(http.StatusNoContent)
}

// GetProfile returns the caller's profile.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	user, err := h.users.GetByID(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, user)
}

// UpdateProfile saves profile fields. Zero-valued fields are left as
// they were.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	var req ProfileRequest
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

	ctx := c.Request().Context()
	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.ProfilePicURL != "" {
		user.ProfilePicURL = req.ProfilePicURL
	}
	if req.DietaryPreference != "" {
		user.DietaryPreference = req.DietaryPreference
	}

	if err := h.coord.SaveUser(ctx, user, nil); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, user)
}

// DeleteAccount removes the caller's profile locally and remotely and
// stops their sync.
func (h *ProfileHandler) DeleteAccount(c echo.Context) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	h.coord.StopSyncing(userID)
	if err := h.coord.DeleteUser(c.Request().Context(), userID, nil); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.NoContent(http.StatusNoContent)
}

// Nutrition returns today's progress against the caller's goals.
func (h *ProfileHandler) Nutrition(c echo.Context) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	snapshot, err := h.nutrition.Snapshot(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, snapshot)
}

// AddMeal adds a cooked recipe's nutrition to today's counters.
func (h *ProfileHandler) AddMeal(c echo.Context) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	var req MealRequest
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

	user, err := h.nutrition.AddMeal(c.Request().Context(), userID, req.RecipeID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, user)
}

// SetGoals updates the caller's daily nutrition goals.
func (h *ProfileHandler) SetGoals(c echo.Context) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	var req GoalsRequest
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

	user, err := h.nutrition.SetGoals(c.Request().Context(), userID, req.DailyCalorieGoal, req.DailyProteinGoal, req.DailyCarbsGoal, req.DailyFatGoal)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, user)
}
