package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pantrypal/internal/errors"
	"pantrypal/internal/model"
)

func newNutritionService(f *serviceFixture, now time.Time) *nutritionService {
	return &nutritionService{
		users:   f.users,
		recipes: f.recipes,
		coord:   f.coord,
		now:     func() time.Time { return now },
	}
}

func seedDalRecipe(t *testing.T, f *serviceFixture) {
	t.Helper()
	require.NoError(t, f.recipes.UpsertAll(context.Background(), []model.Recipe{{
		ID:        "dal-tadka",
		Name:      "Dal Tadka",
		Category:  "Vegetarian",
		Nutrition: model.Nutrition{Calories: 300, Protein: 15, Carbs: 40, Fat: 8},
	}}))
}

func TestAddMealAccumulatesNutrition(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	seedDalRecipe(t, f)
	require.NoError(t, f.users.Put(ctx, &model.User{ID: "u1", DailyCalorieGoal: 2000}))

	svc := newNutritionService(f, time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC))

	user, err := svc.AddMeal(ctx, "u1", "dal-tadka")
	require.NoError(t, err)
	assert.Equal(t, 300, user.CurrentCalories)

	user, err = svc.AddMeal(ctx, "u1", "dal-tadka")
	require.NoError(t, err)
	assert.Equal(t, 600, user.CurrentCalories)
	assert.Equal(t, 30, user.CurrentProtein)
	assert.Equal(t, 80, user.CurrentCarbs)
	assert.Equal(t, 16, user.CurrentFat)

	stored, err := f.users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 600, stored.CurrentCalories, "counters persist through the local store")
}

func TestAddMealResetsCountersOnNewDay(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	seedDalRecipe(t, f)

	yesterday := time.Date(2025, 5, 9, 20, 0, 0, 0, time.UTC)
	require.NoError(t, f.users.Put(ctx, &model.User{
		ID:                 "u1",
		DailyCalorieGoal:   2000,
		CurrentCalories:    1500,
		CurrentProtein:     90,
		LastNutritionReset: yesterday,
	}))

	svc := newNutritionService(f, time.Date(2025, 5, 10, 8, 0, 0, 0, time.UTC))
	user, err := svc.AddMeal(ctx, "u1", "dal-tadka")
	require.NoError(t, err)
	assert.Equal(t, 300, user.CurrentCalories, "stale counters reset before the meal lands")
	assert.Equal(t, 15, user.CurrentProtein)
}

func TestAddMealUnknownRecipe(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	require.NoError(t, f.users.Put(ctx, &model.User{ID: "u1"}))

	svc := newNutritionService(f, time.Now())
	_, err := svc.AddMeal(ctx, "u1", "nope")
	assert.ErrorIs(t, err, errors.ErrRecipeNotFound)

	_, err = svc.AddMeal(ctx, "ghost", "nope")
	assert.ErrorIs(t, err, errors.ErrUserNotFound)
}

func TestSetGoals(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	require.NoError(t, f.users.Put(ctx, &model.User{ID: "u1"}))

	svc := newNutritionService(f, time.Now())
	user, err := svc.SetGoals(ctx, "u1", 1800, 120, 200, 60)
	require.NoError(t, err)
	assert.Equal(t, 1800, user.DailyCalorieGoal)
	assert.Equal(t, 120, user.DailyProteinGoal)
	assert.Equal(t, 200, user.DailyCarbsGoal)
	assert.Equal(t, 60, user.DailyFatGoal)

	stored, err := f.users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1800, stored.DailyCalorieGoal)
}

func TestSnapshotReportsProgress(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	require.NoError(t, f.users.Put(ctx, &model.User{
		ID:               "u1",
		DailyCalorieGoal: 2000,
		DailyProteinGoal: 100,
		DailyCarbsGoal:   250,
		DailyFatGoal:     70,
		CurrentCalories:  500,
		CurrentProtein:   25,
		CurrentCarbs:     125,
		CurrentFat:       140,
	}))

	svc := newNutritionService(f, time.Now())
	snap, err := svc.Snapshot(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 25, snap.CalorieProgress)
	assert.Equal(t, 25, snap.ProteinProgress)
	assert.Equal(t, 50, snap.CarbsProgress)
	assert.Equal(t, 100, snap.FatProgress, "progress clamps at 100")
	assert.Equal(t, 1500, snap.RemainingCalories)
}

func TestSnapshotLazyResetPersists(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	require.NoError(t, f.users.Put(ctx, &model.User{
		ID:                 "u1",
		DailyCalorieGoal:   2000,
		CurrentCalories:    1200,
		LastNutritionReset: time.Date(2025, 5, 9, 23, 0, 0, 0, time.UTC),
	}))

	today := time.Date(2025, 5, 10, 7, 0, 0, 0, time.UTC)
	svc := newNutritionService(f, today)
	snap, err := svc.Snapshot(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, snap.CurrentCalories)
	assert.Equal(t, 2000, snap.RemainingCalories)

	stored, err := f.users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.CurrentCalories, "reset writes back to the store")
	assert.True(t, stored.LastNutritionReset.Equal(today))
}
