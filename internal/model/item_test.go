package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPantryItemTouchIsMonotonic(t *testing.T) {
	now := time.Now()
	item := &PantryItem{}

	item.Touch(now)
	assert.True(t, item.UpdatedAt.Equal(now))
	assert.True(t, item.CreatedAt.Equal(now), "first touch also stamps creation")

	// A clock running behind must not move UpdatedAt backwards.
	item.Touch(now.Add(-time.Hour))
	assert.True(t, item.UpdatedAt.Equal(now))

	later := now.Add(time.Minute)
	item.Touch(later)
	assert.True(t, item.UpdatedAt.Equal(later))
}

func TestPantryItemEqual(t *testing.T) {
	now := time.Now()
	a := PantryItem{ID: "i1", UserID: "u1", IngredientName: "rice", UpdatedAt: now}

	b := a
	b.UpdatedAt = now.UTC()
	assert.True(t, a.Equal(&b), "same instant in a different location is equal")

	b.Quantity = "2 cups"
	assert.False(t, a.Equal(&b))
	assert.False(t, a.Equal(nil))
}

func TestMealPlanAddRemoveRecipe(t *testing.T) {
	p := &MealPlan{}

	p.AddRecipe("dal-tadka", 2, "dinner")
	p.AddRecipe("dal-tadka", 3, "lunch") // re-adding moves the slot
	p.AddRecipe("idli", 1, "breakfast")

	assert.Equal(t, []string{"dal-tadka", "idli"}, p.RecipeIDs)
	assert.Equal(t, 3, p.RecipeDayMap["dal-tadka"])
	assert.Equal(t, "lunch", p.RecipeMealMap["dal-tadka"])

	p.RemoveRecipe("dal-tadka")
	assert.Equal(t, []string{"idli"}, p.RecipeIDs)
	assert.NotContains(t, p.RecipeDayMap, "dal-tadka")
	assert.NotContains(t, p.RecipeMealMap, "dal-tadka")
}

func TestMealPlanEqual(t *testing.T) {
	now := time.Now()
	a := MealPlan{ID: "p1", UserID: "u1", Name: "week", UpdatedAt: now}
	a.AddRecipe("idli", 1, "breakfast")

	b := MealPlan{ID: "p1", UserID: "u1", Name: "week", UpdatedAt: now.UTC()}
	b.AddRecipe("idli", 1, "breakfast")
	assert.True(t, a.Equal(&b))

	b.AddRecipe("kheer", 2, "dessert")
	assert.False(t, a.Equal(&b))
}
