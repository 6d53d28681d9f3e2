package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealPlan assigns catalog recipes to days and meal slots over a date
// range. Synced the same way pantry items are, under
// users/{userId}/mealPlans/{planId}.
type MealPlan struct {
	ID            string            `json:"id" bson:"_id" gorm:"primaryKey;size:64"`
	UserID        string            `json:"userId" bson:"userId" gorm:"size:64;not null;index"`
	Name          string            `json:"name" bson:"name" gorm:"size:255"`
	StartDate     time.Time         `json:"startDate" bson:"startDate" gorm:"index"`
	EndDate       time.Time         `json:"endDate" bson:"endDate" gorm:"index"`
	PlanType      string            `json:"planType" bson:"planType" gorm:"size:50"`
	RecipeIDs     []string          `json:"recipeIds" bson:"recipeIds" gorm:"serializer:json"`
	RecipeDayMap  map[string]int    `json:"recipeDayMap" bson:"recipeDayMap" gorm:"serializer:json"`
	RecipeMealMap map[string]string `json:"recipeMealMap" bson:"recipeMealMap" gorm:"serializer:json"`
	TotalCalories int               `json:"totalCalories" bson:"totalCalories"`
	CreatedAt     time.Time         `json:"createdAt" bson:"createdAt" gorm:"autoCreateTime:false"`
	UpdatedAt     time.Time         `json:"updatedAt" bson:"updatedAt" gorm:"autoUpdateTime:false"`
}

// BeforeCreate assigns an identifier when none was supplied.
func (p *MealPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Touch bumps UpdatedAt, keeping it monotonically non-decreasing.
func (p *MealPlan) Touch(now time.Time) {
	if now.After(p.UpdatedAt) {
		p.UpdatedAt = now
	}
}

// Equal reports whether two plans carry identical field values.
func (p *MealPlan) Equal(o *MealPlan) bool {
	if o == nil {
		return false
	}
	if p.ID != o.ID || p.UserID != o.UserID || p.Name != o.Name ||
		p.PlanType != o.PlanType || p.TotalCalories != o.TotalCalories ||
		!p.StartDate.Equal(o.StartDate) || !p.EndDate.Equal(o.EndDate) ||
		!p.CreatedAt.Equal(o.CreatedAt) || !p.UpdatedAt.Equal(o.UpdatedAt) {
		return false
	}
	if len(p.RecipeIDs) != len(o.RecipeIDs) ||
		len(p.RecipeDayMap) != len(o.RecipeDayMap) ||
		len(p.RecipeMealMap) != len(o.RecipeMealMap) {
		return false
	}
	for i, id := range p.RecipeIDs {
		if o.RecipeIDs[i] != id {
			return false
		}
	}
	for id, day := range p.RecipeDayMap {
		if o.RecipeDayMap[id] != day {
			return false
		}
	}
	for id, meal := range p.RecipeMealMap {
		if o.RecipeMealMap[id] != meal {
			return false
		}
	}
	return true
}

// AddRecipe places a recipe on a day and meal slot, keeping RecipeIDs free
// of duplicates.
func (p *MealPlan) AddRecipe(recipeID string, day int, mealType string) {
	found := false
	for _, id := range p.RecipeIDs {
		if id == recipeID {
			found = true
			break
		}
	}
	if !found {
		p.RecipeIDs = append(p.RecipeIDs, recipeID)
	}
	if p.RecipeDayMap == nil {
		p.RecipeDayMap = map[string]int{}
	}
	if p.RecipeMealMap == nil {
		p.RecipeMealMap = map[string]string{}
	}
	p.RecipeDayMap[recipeID] = day
	p.RecipeMealMap[recipeID] = mealType
}

// RemoveRecipe removes a recipe from the plan and its slot assignments.
func (p *MealPlan) RemoveRecipe(recipeID string) {
	for idx, id := range p.RecipeIDs {
		if id == recipeID {
			p.RecipeIDs = append(p.RecipeIDs[:idx], p.RecipeIDs[idx+1:]...)
			break
		}
	}
	delete(p.RecipeDayMap, recipeID)
	delete(p.RecipeMealMap, recipeID)
}
