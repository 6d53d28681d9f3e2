package service

import (
	"context"
	"time"

	"pantrypal/internal/model"
	"pantrypal/internal/outcome"
	"pantrypal/internal/store"
	syncer "pantrypal/internal/sync"
)

// NutritionSnapshot is the daily progress view of a profile: consumed
// counters, goal percentages clamped to [0, 100], and calories left.
type NutritionSnapshot struct {
	CurrentCalories   int `json:"currentCalories"`
	CurrentProtein    int `json:"currentProtein"`
	CurrentCarbs      int `json:"currentCarbs"`
	CurrentFat        int `json:"currentFat"`
	CalorieProgress   int `json:"calorieProgress"`
	ProteinProgress   int `json:"proteinProgress"`
	CarbsProgress     int `json:"carbsProgress"`
	FatProgress       int `json:"fatProgress"`
	RemainingCalories int `json:"remainingCalories"`
}

// NutritionService tracks daily nutrition against profile goals.
// Counters reset lazily on the first operation of a new calendar day.
type NutritionService interface {
	AddMeal(ctx context.Context, userID, recipeID string) (*model.User, error)
	SetGoals(ctx context.Context, userID string, calories, protein, carbs, fat int) (*model.User, error)
	Snapshot(ctx context.Context, userID string) (*NutritionSnapshot, error)
}

type nutritionService struct {
	users   store.UserStore
	recipes store.RecipeStore
	coord   *syncer.Coordinator
	now     func() time.Time
}

// NewNutritionService creates a nutrition service. Profile writes go
// through the coordinator so they mirror to the remote store.
func NewNutritionService(users store.UserStore, recipes store.RecipeStore, coord *syncer.Coordinator) NutritionService {
	return &nutritionService{
		users:   users,
		recipes: recipes,
		coord:   coord,
		now:     time.Now,
	}
}

func (s *nutritionService) AddMeal(ctx context.Context, userID, recipeID string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if user.NeedsNutritionReset(now) {
		user.ResetDailyNutrition(now)
	}
	n := recipe.Nutrition
	user.AddNutrition(n.Calories, n.Protein, n.Carbs, n.Fat)
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *nutritionService) SetGoals(ctx context.Context, userID string, calories, protein, carbs, fat int) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.DailyCalorieGoal = calories
	user.DailyProteinGoal = protein
	user.DailyCarbsGoal = carbs
	user.DailyFatGoal = fat
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *nutritionService) Snapshot(ctx context.Context, userID string) (*NutritionSnapshot, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if user.NeedsNutritionReset(now) {
		user.ResetDailyNutrition(now)
		if err := s.save(ctx, user); err != nil {
			return nil, err
		}
	}
	return &NutritionSnapshot{
		CurrentCalories:   user.CurrentCalories,
		CurrentProtein:    user.CurrentProtein,
		CurrentCarbs:      user.CurrentCarbs,
		CurrentFat:        user.CurrentFat,
		CalorieProgress:   user.CalorieProgress(),
		ProteinProgress:   model.Progress(user.CurrentProtein, user.DailyProteinGoal),
		CarbsProgress:     model.Progress(user.CurrentCarbs, user.DailyCarbsGoal),
		FatProgress:       model.Progress(user.CurrentFat, user.DailyFatGoal),
		RemainingCalories: user.RemainingCalories(),
	}, nil
}

func (s *nutritionService) save(ctx context.Context, user *model.User) error {
	var noop outcome.Callback[*model.User]
	return s.coord.SaveUser(ctx, user, noop)
}
