package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"pantrypal/internal/config"
	"pantrypal/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	pantryHandler *handler.PantryHandler,
	recipeHandler *handler.RecipeHandler,
	mealPlanHandler *handler.MealPlanHandler,
	profileHandler *handler.ProfileHandler,
	syncHandler *handler.SyncHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/signin", profileHandler.SignIn)

	// Secured routes (require JWT authentication). The default token
	// lookup reads the Authorization header and strips the Bearer scheme.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	secured.POST("/auth/signout", profileHandler.SignOut)

	// Pantry routes
	secured.GET("/pantry", pantryHandler.ListItems)
	secured.POST("/pantry", pantryHandler.CreateItem)
	secured.GET("/pantry/:id", pantryHandler.GetItem)
	secured.PUT("/pantry/:id", pantryHandler.UpdateItem)
	secured.DELETE("/pantry/:id", pantryHandler.DeleteItem)

	// Recipe routes
	secured.GET("/recipes", recipeHandler.ListRecipes)
	secured.GET("/recipes/recommendations", recipeHandler.Recommendations)
	secured.GET("/recipes/can-make-now", recipeHandler.CanMakeNow)
	secured.GET("/recipes/:id", recipeHandler.GetRecipe)
	secured.GET("/recipes/:id/missing-ingredients", recipeHandler.MissingIngredients)

	// Favorite routes
	secured.GET("/favorites", recipeHandler.ListFavorites)
	secured.POST("/favorites/:recipeId", recipeHandler.AddFavorite)
	secured.DELETE("/favorites/:recipeId", recipeHandler.RemoveFavorite)

	// Meal plan routes
	secured.GET("/meal-plans", mealPlanHandler.ListPlans)
	secured.POST("/meal-plans", mealPlanHandler.CreatePlan)
	secured.GET("/meal-plans/current", mealPlanHandler.CurrentPlan)
	secured.GET("/meal-plans/:id", mealPlanHandler.GetPlan)
	secured.PUT("/meal-plans/:id", mealPlanHandler.UpdatePlan)
	secured.DELETE("/meal-plans/:id", mealPlanHandler.DeletePlan)

	// Profile and nutrition routes
	secured.GET("/me", profileHandler.GetProfile)
	secured.PUT("/me", profileHandler.UpdateProfile)
	secured.DELETE("/me", profileHandler.DeleteAccount)
	secured.GET("/me/nutrition", profileHandler.Nutrition)
	secured.POST("/me/nutrition/meals", profileHandler.AddMeal)
	secured.PUT("/me/nutrition/goals", profileHandler.SetGoals)

	// Sync control routes
	secured.POST("/sync/start", syncHandler.Start)
	secured.POST("/sync/stop", syncHandler.Stop)
	secured.GET("/sync/status", syncHandler.Status)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
