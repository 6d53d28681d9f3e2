package model

import "time"

// RecipeIngredient is a single ingredient descriptor in a recipe,
// in recipe-declared order.
type RecipeIngredient struct {
	Name     string `json:"name" bson:"name"`
	Quantity string `json:"quantity,omitempty" bson:"quantity,omitempty"`
}

// Nutrition holds per-serving nutrition facts.
type Nutrition struct {
	Calories int `json:"calories" bson:"calories"`
	Protein  int `json:"protein" bson:"protein"`
	Carbs    int `json:"carbs" bson:"carbs"`
	Fat      int `json:"fat" bson:"fat"`
}

// Recipe is read-mostly catalog data shared across users. The favorite
// flag is a per-user projection populated from FavoriteRecipe membership
// records, never persisted on the recipe itself.
type Recipe struct {
	ID           string             `json:"id" bson:"_id" gorm:"primaryKey;size:64"`
	Name         string             `json:"name" bson:"name" gorm:"size:255;not null;index"`
	Description  string             `json:"description" bson:"description"`
	ImageURL     string             `json:"imageUrl" bson:"imageUrl"`
	Category     string             `json:"category" bson:"category" gorm:"size:100;index"`
	CookingTime  int                `json:"cookingTime" bson:"cookingTime"`
	Difficulty   string             `json:"difficulty" bson:"difficulty" gorm:"size:50"`
	Ingredients  []RecipeIngredient `json:"ingredients" bson:"ingredients" gorm:"serializer:json"`
	Instructions []string           `json:"instructions" bson:"instructions" gorm:"serializer:json"`
	Nutrition    Nutrition          `json:"nutrition" bson:"nutrition" gorm:"embedded;embeddedPrefix:nutrition_"`
	Servings     int                `json:"servings" bson:"servings"`
	BaseScore    float64            `json:"baseScore" bson:"baseScore"`

	IsFavorite bool `json:"isFavorite" bson:"-" gorm:"-"`
}

// FavoriteRecipe records that a user marked a recipe as favorite.
// Keyed by (UserID, RecipeID); mirrored remotely under
// users/{userId}/favorites/{recipeId}.
type FavoriteRecipe struct {
	UserID   string    `json:"userId" bson:"userId" gorm:"primaryKey;size:64"`
	RecipeID string    `json:"recipeId" bson:"recipeId" gorm:"primaryKey;size:64"`
	AddedAt  time.Time `json:"addedAt" bson:"addedAt"`
}
