package model

import "time"

// User represents a signed-in user's profile, dietary preference and
// daily nutrition tracking state. The identifier is issued by the
// external authentication collaborator and is never generated here.
type User struct {
	ID                 string    `json:"id" bson:"_id" gorm:"primaryKey;size:64"`
	Name               string    `json:"name" bson:"name" gorm:"size:255"`
	Email              string    `json:"email" bson:"email" gorm:"size:255;index"`
	ProfilePicURL      string    `json:"profilePicUrl" bson:"profilePicUrl"`
	DietaryPreference  string    `json:"dietaryPreferences" bson:"dietaryPreferences" gorm:"size:100"`
	DailyCalorieGoal   int       `json:"dailyCalorieGoal" bson:"dailyCalorieGoal"`
	DailyProteinGoal   int       `json:"dailyProteinGoal" bson:"dailyProteinGoal"`
	DailyCarbsGoal     int       `json:"dailyCarbsGoal" bson:"dailyCarbsGoal"`
	DailyFatGoal       int       `json:"dailyFatGoal" bson:"dailyFatGoal"`
	CurrentCalories    int       `json:"currentCalories" bson:"currentCalories"`
	CurrentProtein     int       `json:"currentProtein" bson:"currentProtein"`
	CurrentCarbs       int       `json:"currentCarbs" bson:"currentCarbs"`
	CurrentFat         int       `json:"currentFat" bson:"currentFat"`
	LastNutritionReset time.Time `json:"lastNutritionReset" bson:"lastNutritionReset"`
	CreatedAt          time.Time `json:"createdAt" bson:"createdAt" gorm:"autoCreateTime:false"`
	LastLoginAt        time.Time `json:"lastLoginAt" bson:"lastLoginAt"`
	UpdatedAt          time.Time `json:"updatedAt" bson:"updatedAt" gorm:"autoUpdateTime:false"`
}

// Progress returns how far current is toward goal as a percentage,
// clamped to [0,100]. A zero goal always reports 0.
func Progress(current, goal int) int {
	if goal == 0 {
		return 0
	}
	p := current * 100 / goal
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// RemainingCalories returns today's remaining calorie budget, never negative.
func (u *User) RemainingCalories() int {
	r := u.DailyCalorieGoal - u.CurrentCalories
	if r < 0 {
		return 0
	}
	return r
}

// CalorieProgress returns today's calorie progress percentage.
func (u *User) CalorieProgress() int {
	return Progress(u.CurrentCalories, u.DailyCalorieGoal)
}

// AddNutrition adds a consumed meal's nutrition to today's counters.
// Counters are clamped at zero so a correction can never drive them negative.
func (u *User) AddNutrition(calories, protein, carbs, fat int) {
	u.CurrentCalories = clampNonNegative(u.CurrentCalories + calories)
	u.CurrentProtein = clampNonNegative(u.CurrentProtein + protein)
	u.CurrentCarbs = clampNonNegative(u.CurrentCarbs + carbs)
	u.CurrentFat = clampNonNegative(u.CurrentFat + fat)
}

// ResetDailyNutrition zeroes today's counters and records the reset instant.
func (u *User) ResetDailyNutrition(now time.Time) {
	u.CurrentCalories = 0
	u.CurrentProtein = 0
	u.CurrentCarbs = 0
	u.CurrentFat = 0
	u.LastNutritionReset = now
}

// NeedsNutritionReset reports whether the last reset happened on an
// earlier calendar day than now, in now's location.
func (u *User) NeedsNutritionReset(now time.Time) bool {
	if u.LastNutritionReset.IsZero() {
		return false
	}
	last := u.LastNutritionReset.In(now.Location())
	return last.Year() != now.Year() || last.YearDay() != now.YearDay()
}

// Equal reports whether two users carry identical field values, with
// time fields compared by instant.
func (u *User) Equal(o *User) bool {
	if o == nil {
		return false
	}
	return u.ID == o.ID &&
		u.Name == o.Name &&
		u.Email == o.Email &&
		u.ProfilePicURL == o.ProfilePicURL &&
		u.DietaryPreference == o.DietaryPreference &&
		u.DailyCalorieGoal == o.DailyCalorieGoal &&
		u.DailyProteinGoal == o.DailyProteinGoal &&
		u.DailyCarbsGoal == o.DailyCarbsGoal &&
		u.DailyFatGoal == o.DailyFatGoal &&
		u.CurrentCalories == o.CurrentCalories &&
		u.CurrentProtein == o.CurrentProtein &&
		u.CurrentCarbs == o.CurrentCarbs &&
		u.CurrentFat == o.CurrentFat &&
		u.LastNutritionReset.Equal(o.LastNutritionReset) &&
		u.CreatedAt.Equal(o.CreatedAt) &&
		u.LastLoginAt.Equal(o.LastLoginAt) &&
		u.UpdatedAt.Equal(o.UpdatedAt)
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
