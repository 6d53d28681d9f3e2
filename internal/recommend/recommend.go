// Package recommend ranks catalog recipes against a user's pantry,
// dietary preference and remaining nutrition budget. Everything here is
// pure: no stores, no side effects, safe to call from any goroutine as
// long as the input snapshots are stable for the duration of the call.
package recommend

import (
	"sort"
	"strings"

	"pantrypal/internal/model"
)

// Score component bounds: pantry match 0-50, dietary fit 0-30,
// nutrition fit 0-20.
const (
	pantryMaxScore    = 50.0
	dietaryMaxScore   = 30.0
	nutritionMaxScore = 20.0

	// canMakeThreshold is the pantry-match score meaning 90% or more of
	// a recipe's ingredients are on hand.
	canMakeThreshold = 45.0
)

// Recommendation pairs a recipe with its score and a human-readable
// reason.
type Recommendation struct {
	Recipe model.Recipe `json:"recipe"`
	Score  float64      `json:"score"`
	Reason string       `json:"reason"`
}

// Rank scores every recipe, drops zero scorers, and returns at most
// maxResults recommendations sorted by descending score. The sort is
// stable, so equal scores keep catalog order.
func Rank(recipes []model.Recipe, inventory []model.PantryItem, user *model.User, maxResults int) []Recommendation {
	pantry := pantrySet(inventory)

	recs := make([]Recommendation, 0, len(recipes))
	for _, recipe := range recipes {
		score := pantryMatchScore(recipe, pantry) +
			dietaryScore(recipe, user) +
			nutritionScore(recipe, user)
		if score <= 0 {
			continue
		}
		recs = append(recs, Recommendation{
			Recipe: recipe,
			Score:  score,
			Reason: reason(score),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	if maxResults >= 0 && len(recs) > maxResults {
		recs = recs[:maxResults]
	}
	return recs
}

// MissingIngredients returns, in recipe-declared order, every
// ingredient the pantry does not cover.
func MissingIngredients(recipe model.Recipe, inventory []model.PantryItem) []string {
	pantry := pantrySet(inventory)
	var missing []string
	for _, ing := range recipe.Ingredients {
		if !containsIngredient(pantry, strings.ToLower(ing.Name)) {
			missing = append(missing, ing.Name)
		}
	}
	return missing
}

// CanMakeNow filters to recipes whose pantry-match score alone says 90%
// or more of the ingredients are on hand.
func CanMakeNow(recipes []model.Recipe, inventory []model.PantryItem) []model.Recipe {
	pantry := pantrySet(inventory)
	var canMake []model.Recipe
	for _, recipe := range recipes {
		if pantryMatchScore(recipe, pantry) >= canMakeThreshold {
			canMake = append(canMake, recipe)
		}
	}
	return canMake
}

func pantrySet(inventory []model.PantryItem) map[string]struct{} {
	set := make(map[string]struct{}, len(inventory))
	for _, item := range inventory {
		set[strings.ToLower(item.IngredientName)] = struct{}{}
	}
	return set
}

// containsIngredient checks exact membership first, then substring in
// either direction so "chicken" matches "chicken breast" and vice versa.
func containsIngredient(pantry map[string]struct{}, name string) bool {
	if name == "" {
		return false
	}
	if _, ok := pantry[name]; ok {
		return true
	}
	for have := range pantry {
		if strings.Contains(have, name) || strings.Contains(name, have) {
			return true
		}
	}
	return false
}

func pantryMatchScore(recipe model.Recipe, pantry map[string]struct{}) float64 {
	total := len(recipe.Ingredients)
	if total == 0 {
		return 0
	}
	matched := 0
	for _, ing := range recipe.Ingredients {
		if containsIngredient(pantry, strings.ToLower(ing.Name)) {
			matched++
		}
	}
	return float64(matched) / float64(total) * pantryMaxScore
}

// exclusions lists, per recognized preference tag, category terms that
// disqualify a recipe from the near-match award.
var exclusions = map[string][]string{
	"vegetarian":  {"meat", "fish", "chicken", "beef", "pork"},
	"vegan":       {"meat", "fish", "dairy", "egg", "chicken", "beef"},
	"gluten-free": {"bread", "pasta", "wheat"},
	"keto":        {"rice", "pasta", "bread", "potato"},
}

func dietaryScore(recipe model.Recipe, user *model.User) float64 {
	if user == nil || user.DietaryPreference == "" {
		return 15.0 // neutral when no preference is set
	}

	pref := strings.ToLower(user.DietaryPreference)
	category := strings.ToLower(recipe.Category)

	if strings.Contains(category, pref) {
		return dietaryMaxScore
	}

	if excluded, ok := exclusions[pref]; ok {
		clean := true
		for _, term := range excluded {
			if strings.Contains(category, term) {
				clean = false
				break
			}
		}
		if clean {
			return 25.0
		}
	}

	return 5.0
}

func nutritionScore(recipe model.Recipe, user *model.User) float64 {
	if user == nil {
		return 10.0
	}

	calories := recipe.Nutrition.Calories
	remaining := user.RemainingCalories()

	// Budget exhausted: only light recipes are worth suggesting.
	if remaining == 0 {
		if calories < 300 {
			return 15.0
		}
		return 0
	}

	// Ideal: the recipe uses 20-40% of the remaining budget.
	ratio := float64(calories) / float64(remaining)
	switch {
	case ratio >= 0.2 && ratio <= 0.4:
		return nutritionMaxScore
	case ratio < 0.2:
		return 15.0
	case ratio <= 0.6:
		return 10.0
	case ratio <= 0.8:
		return 5.0
	default:
		return 0
	}
}

func reason(score float64) string {
	switch {
	case score >= 80:
		return "Perfect match! You have most ingredients."
	case score >= 60:
		return "Great match for your pantry and diet."
	case score >= 40:
		return "Good option with available ingredients."
	case score >= 20:
		return "Consider this recipe."
	default:
		return "New recipe to try."
	}
}
