package service

import (
	"context"
	"time"

	"pantrypal/internal/cache"
	"pantrypal/internal/errors"
	"pantrypal/internal/model"
	"pantrypal/internal/recommend"
	"pantrypal/internal/store"
)

const (
	catalogCacheKey      = "recipes:all"
	categoryCacheKeyPfx  = "recipes:category:"
	catalogCacheTTL      = 10 * time.Minute
	recommendationsTTL   = 2 * time.Minute
	recommendationKeyPfx = "recommendations:"
)

// RecipeService serves the shared recipe catalog with the caller's
// favorite flags projected on, and runs the recommendation engine over
// the caller's pantry and profile.
type RecipeService interface {
	List(ctx context.Context, userID string) ([]model.Recipe, error)
	ListByCategory(ctx context.Context, userID, category string) ([]model.Recipe, error)
	Get(ctx context.Context, userID, recipeID string) (*model.Recipe, error)
	Favorites(ctx context.Context, userID string) ([]model.Recipe, error)
	Recommend(ctx context.Context, userID string, maxResults int) ([]recommend.Recommendation, error)
	CanMakeNow(ctx context.Context, userID string) ([]model.Recipe, error)
	MissingIngredients(ctx context.Context, userID, recipeID string) ([]string, error)
}

type recipeService struct {
	recipes   store.RecipeStore
	pantry    store.PantryStore
	users     store.UserStore
	favorites store.FavoriteStore
	cache     *cache.Client
}

// NewRecipeService creates a recipe service. cache may be a nil-backed
// client; every read falls through to the local store then.
func NewRecipeService(
	recipes store.RecipeStore,
	pantry store.PantryStore,
	users store.UserStore,
	favorites store.FavoriteStore,
	cache *cache.Client,
) RecipeService {
	return &recipeService{
		recipes:   recipes,
		pantry:    pantry,
		users:     users,
		favorites: favorites,
		cache:     cache,
	}
}

func (s *recipeService) List(ctx context.Context, userID string) ([]model.Recipe, error) {
	var recipes []model.Recipe
	if !s.cache.GetJSON(ctx, catalogCacheKey, &recipes) {
		var err error
		recipes, err = s.recipes.List(ctx)
		if err != nil {
			return nil, err
		}
		s.cache.SetJSON(ctx, catalogCacheKey, recipes, catalogCacheTTL)
	}
	return s.projectFavorites(ctx, userID, recipes)
}

func (s *recipeService) ListByCategory(ctx context.Context, userID, category string) ([]model.Recipe, error) {
	key := categoryCacheKeyPfx + category
	var recipes []model.Recipe
	if !s.cache.GetJSON(ctx, key, &recipes) {
		var err error
		recipes, err = s.recipes.ListByCategory(ctx, category)
		if err != nil {
			return nil, err
		}
		s.cache.SetJSON(ctx, key, recipes, catalogCacheTTL)
	}
	return s.projectFavorites(ctx, userID, recipes)
}

func (s *recipeService) Get(ctx context.Context, userID, recipeID string) (*model.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	fav, err := s.favorites.IsFavorite(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	recipe.IsFavorite = fav
	return recipe, nil
}

func (s *recipeService) Favorites(ctx context.Context, userID string) ([]model.Recipe, error) {
	ids, err := s.favorites.ListIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	recipes := make([]model.Recipe, 0, len(ids))
	for _, id := range ids {
		recipe, err := s.recipes.GetByID(ctx, id)
		if err == errors.ErrRecipeNotFound {
			// Favorite of a recipe no longer in the catalog.
			continue
		}
		if err != nil {
			return nil, err
		}
		recipe.IsFavorite = true
		recipes = append(recipes, *recipe)
	}
	return recipes, nil
}

func (s *recipeService) Recommend(ctx context.Context, userID string, maxResults int) ([]recommend.Recommendation, error) {
	key := recommendationKeyPfx + userID
	var cached []recommend.Recommendation
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}
	recipes, inventory, user, err := s.loadInputs(ctx, userID)
	if err != nil {
		return nil, err
	}
	recs := recommend.Rank(recipes, inventory, user, maxResults)
	s.cache.SetJSON(ctx, key, recs, recommendationsTTL)
	return recs, nil
}

func (s *recipeService) CanMakeNow(ctx context.Context, userID string) ([]model.Recipe, error) {
	recipes, inventory, _, err := s.loadInputs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return recommend.CanMakeNow(recipes, inventory), nil
}

func (s *recipeService) MissingIngredients(ctx context.Context, userID, recipeID string) ([]string, error) {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	inventory, err := s.pantry.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return recommend.MissingIngredients(*recipe, inventory), nil
}

// loadInputs gathers everything the scoring engine needs. A missing
// profile is not an error; the engine scores neutrally without one.
func (s *recipeService) loadInputs(ctx context.Context, userID string) ([]model.Recipe, []model.PantryItem, *model.User, error) {
	recipes, err := s.recipes.List(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	inventory, err := s.pantry.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil && err != errors.ErrUserNotFound {
		return nil, nil, nil, err
	}
	return recipes, inventory, user, nil
}

func (s *recipeService) projectFavorites(ctx context.Context, userID string, recipes []model.Recipe) ([]model.Recipe, error) {
	ids, err := s.favorites.ListIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	favSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		favSet[id] = struct{}{}
	}
	out := make([]model.Recipe, len(recipes))
	copy(out, recipes)
	for i := range out {
		_, out[i].IsFavorite = favSet[out[i].ID]
	}
	return out, nil
}
