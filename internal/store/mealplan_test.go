package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pantrypal/internal/errors"
	"pantrypal/internal/model"
)

func TestMealPlanPutRoundTrip(t *testing.T) {
	s := NewMealPlanStore(newTestDB(t))
	ctx := context.Background()

	plan := &model.MealPlan{
		UserID:    "u1",
		Name:      "this week",
		StartDate: time.Now().AddDate(0, 0, -1),
		EndDate:   time.Now().AddDate(0, 0, 6),
	}
	plan.AddRecipe("dal-tadka", 1, "dinner")
	plan.AddRecipe("idli", 2, "breakfast")
	require.NoError(t, s.Put(ctx, plan))
	require.NotEmpty(t, plan.ID)

	got, err := s.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"dal-tadka", "idli"}, got.RecipeIDs)
	assert.Equal(t, 1, got.RecipeDayMap["dal-tadka"])
	assert.Equal(t, "breakfast", got.RecipeMealMap["idli"])
}

func TestMealPlanCurrentPlan(t *testing.T) {
	s := NewMealPlanStore(newTestDB(t))
	ctx := context.Background()
	now := time.Now()

	past := &model.MealPlan{UserID: "u1", Name: "past", StartDate: now.AddDate(0, 0, -14), EndDate: now.AddDate(0, 0, -7)}
	current := &model.MealPlan{UserID: "u1", Name: "current", StartDate: now.AddDate(0, 0, -1), EndDate: now.AddDate(0, 0, 5)}
	require.NoError(t, s.Put(ctx, past))
	require.NoError(t, s.Put(ctx, current))

	got, err := s.CurrentPlan(ctx, "u1", now)
	require.NoError(t, err)
	assert.Equal(t, "current", got.Name)

	_, err = s.CurrentPlan(ctx, "u2", now)
	assert.ErrorIs(t, err, errors.ErrMealPlanNotFound)
}

func TestUserPutApplyDelete(t *testing.T) {
	s := NewUserStore(newTestDB(t))
	ctx := context.Background()

	user := &model.User{ID: "u1", Name: "Asha", DailyCalorieGoal: 2000}
	require.NoError(t, s.Put(ctx, user))

	got, err := s.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.Name)

	// Apply overwrites verbatim, replicated timestamps included.
	replica := *got
	replica.Name = "Asha P"
	replica.UpdatedAt = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Apply(ctx, &replica))

	got, err = s.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Asha P", got.Name)
	assert.True(t, replica.UpdatedAt.Equal(got.UpdatedAt))

	require.NoError(t, s.Delete(ctx, "u1"))
	_, err = s.GetByID(ctx, "u1")
	assert.ErrorIs(t, err, errors.ErrUserNotFound)
}

func TestRecipeUpsertAllAndList(t *testing.T) {
	s := NewRecipeStore(newTestDB(t))
	ctx := context.Background()

	catalog := []model.Recipe{
		{ID: "idli", Name: "Idli", Category: "Breakfast", BaseScore: 70},
		{ID: "butter-chicken", Name: "Butter Chicken", Category: "Dinner", BaseScore: 95},
	}
	require.NoError(t, s.UpsertAll(ctx, catalog))

	// Re-seeding updates in place instead of duplicating.
	catalog[0].BaseScore = 72
	require.NoError(t, s.UpsertAll(ctx, catalog))

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "butter-chicken", all[0].ID, "highest base score first")
	assert.Equal(t, 72.0, all[1].BaseScore)

	dinner, err := s.ListByCategory(ctx, "Dinner")
	require.NoError(t, err)
	assert.Len(t, dinner, 1)

	_, err = s.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, errors.ErrRecipeNotFound)
}
