package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"pantrypal/internal/errors"
	"pantrypal/internal/model"
)

// FavoriteStore persists per-user favorite-recipe membership records.
type FavoriteStore interface {
	Add(ctx context.Context, fav *model.FavoriteRecipe) error
	Remove(ctx context.Context, userID, recipeID string) error
	Get(ctx context.Context, userID, recipeID string) (*model.FavoriteRecipe, error)
	ListIDs(ctx context.Context, userID string) ([]string, error)
	List(ctx context.Context, userID string) ([]model.FavoriteRecipe, error)
	IsFavorite(ctx context.Context, userID, recipeID string) (bool, error)
	Watch(userID string) *View[[]string]
}

type favoriteStore struct {
	db       *gorm.DB
	locks    lockTable
	notifier *notifier
	now      func() time.Time
}

// NewFavoriteStore creates a favorite store over the given DB handle.
func NewFavoriteStore(db *gorm.DB) FavoriteStore {
	return &favoriteStore{
		db:       db,
		notifier: newNotifier(),
		now:      time.Now,
	}
}

func (s *favoriteStore) Add(ctx context.Context, fav *model.FavoriteRecipe) error {
	if fav.UserID == "" {
		return errors.ErrOwnerRequired
	}
	if fav.RecipeID == "" {
		return errors.ErrIDRequired
	}
	unlock := s.locks.lock(fav.UserID + "/" + fav.RecipeID)
	defer unlock()

	if fav.AddedAt.IsZero() {
		fav.AddedAt = s.now()
	}
	var existing model.FavoriteRecipe
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", fav.UserID, fav.RecipeID).
		First(&existing).Error
	switch err {
	case nil:
		if err := s.db.WithContext(ctx).
			Model(&model.FavoriteRecipe{}).
			Where("user_id = ? AND recipe_id = ?", fav.UserID, fav.RecipeID).
			Update("added_at", fav.AddedAt).Error; err != nil {
			return errors.Storage("update favorite", err)
		}
	case gorm.ErrRecordNotFound:
		if err := s.db.WithContext(ctx).Create(fav).Error; err != nil {
			return errors.Storage("insert favorite", err)
		}
	default:
		return errors.Storage("load favorite", err)
	}

	s.notifier.publish(event{userID: fav.UserID, id: fav.RecipeID})
	return nil
}

func (s *favoriteStore) Remove(ctx context.Context, userID, recipeID string) error {
	if recipeID == "" {
		return errors.ErrIDRequired
	}
	unlock := s.locks.lock(userID + "/" + recipeID)
	defer unlock()

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&model.FavoriteRecipe{})
	if res.Error != nil {
		return errors.Storage("delete favorite", res.Error)
	}
	if res.RowsAffected > 0 {
		s.notifier.publish(event{userID: userID, id: recipeID})
	}
	return nil
}

func (s *favoriteStore) Get(ctx context.Context, userID, recipeID string) (*model.FavoriteRecipe, error) {
	var fav model.FavoriteRecipe
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&fav).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.ErrFavoriteNotFound
	}
	if err != nil {
		return nil, errors.Storage("get favorite", err)
	}
	return &fav, nil
}

func (s *favoriteStore) ListIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&model.FavoriteRecipe{}).
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, errors.Storage("list favorite ids", err)
	}
	return ids, nil
}

func (s *favoriteStore) List(ctx context.Context, userID string) ([]model.FavoriteRecipe, error) {
	var favs []model.FavoriteRecipe
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&favs).Error
	if err != nil {
		return nil, errors.Storage("list favorites", err)
	}
	return favs, nil
}

func (s *favoriteStore) IsFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.FavoriteRecipe{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, errors.Storage("check favorite", err)
	}
	return count > 0, nil
}

func (s *favoriteStore) Watch(userID string) *View[[]string] {
	return newView(s.notifier,
		func(ev event) bool { return ev.userID == userID },
		func(ctx context.Context) ([]string, bool) {
			ids, err := s.ListIDs(ctx, userID)
			return ids, err == nil
		})
}
