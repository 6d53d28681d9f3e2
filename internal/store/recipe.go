package store

import (
	"context"

	"gorm.io/gorm"

	"pantrypal/internal/errors"
	"pantrypal/internal/model"
)

// RecipeStore holds the shared recipe catalog. Read-mostly: rows are
// loaded by the seeding step and refreshed wholesale, so there is no
// per-row write path and no live view.
type RecipeStore interface {
	UpsertAll(ctx context.Context, recipes []model.Recipe) error
	List(ctx context.Context) ([]model.Recipe, error)
	ListByCategory(ctx context.Context, category string) ([]model.Recipe, error)
	GetByID(ctx context.Context, id string) (*model.Recipe, error)
}

type recipeStore struct {
	db *gorm.DB
}

// NewRecipeStore creates a recipe catalog store over the given DB handle.
func NewRecipeStore(db *gorm.DB) RecipeStore {
	return &recipeStore{db: db}
}

func (s *recipeStore) UpsertAll(ctx context.Context, recipes []model.Recipe) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range recipes {
			r := recipes[i]
			var existing model.Recipe
			err := tx.Where("id = ?", r.ID).First(&existing).Error
			switch err {
			case nil:
				if err := tx.Save(&r).Error; err != nil {
					return err
				}
			case gorm.ErrRecordNotFound:
				if err := tx.Create(&r).Error; err != nil {
					return err
				}
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Storage("upsert recipe catalog", err)
	}
	return nil
}

func (s *recipeStore) List(ctx context.Context) ([]model.Recipe, error) {
	var recipes []model.Recipe
	if err := s.db.WithContext(ctx).Order("base_score DESC, name ASC").Find(&recipes).Error; err != nil {
		return nil, errors.Storage("list recipes", err)
	}
	return recipes, nil
}

func (s *recipeStore) ListByCategory(ctx context.Context, category string) ([]model.Recipe, error) {
	var recipes []model.Recipe
	err := s.db.WithContext(ctx).
		Where("category = ?", category).
		Order("base_score DESC, name ASC").
		Find(&recipes).Error
	if err != nil {
		return nil, errors.Storage("list recipes by category", err)
	}
	return recipes, nil
}

func (s *recipeStore) GetByID(ctx context.Context, id string) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRecipeNotFound
		}
		return nil, errors.Storage("get recipe", err)
	}
	return &recipe, nil
}
