// Package store is the Local Store: a durable, query-capable, always
// available on-device cache. It is the single source of truth for reads;
// the sync coordinator mirrors writes to the remote store separately.
package store

import (
	"fmt"

	"gorm.io/gorm"

	"pantrypal/internal/model"
)

// Migrate creates or updates the local schema for all entities.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.PantryItem{},
		&model.Recipe{},
		&model.FavoriteRecipe{},
		&model.MealPlan{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
