package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pantrypal/internal/errors"
	"pantrypal/internal/model"
)

// MealPlanStore persists meal plans. Same write discipline as pantry
// items: caller writes through Put, replication through Apply.
type MealPlanStore interface {
	Put(ctx context.Context, plan *model.MealPlan) error
	Apply(ctx context.Context, plan *model.MealPlan) error
	Delete(ctx context.Context, userID, id string) error
	GetByID(ctx context.Context, id string) (*model.MealPlan, error)
	ListByUser(ctx context.Context, userID string) ([]model.MealPlan, error)
	CurrentPlan(ctx context.Context, userID string, now time.Time) (*model.MealPlan, error)
	Watch(userID string) *View[[]model.MealPlan]
}

type mealPlanStore struct {
	db       *gorm.DB
	locks    lockTable
	notifier *notifier
	now      func() time.Time
}

// NewMealPlanStore creates a meal plan store over the given DB handle.
func NewMealPlanStore(db *gorm.DB) MealPlanStore {
	return &mealPlanStore{
		db:       db,
		notifier: newNotifier(),
		now:      time.Now,
	}
}

func (s *mealPlanStore) Put(ctx context.Context, plan *model.MealPlan) error {
	if plan.UserID == "" {
		return errors.ErrOwnerRequired
	}
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	unlock := s.locks.lock(plan.ID)
	defer unlock()

	existing, err := s.getByID(ctx, plan.ID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return errors.Storage("load meal plan", err)
	}

	now := s.now()
	if existing != nil {
		plan.UserID = existing.UserID
		plan.CreatedAt = existing.CreatedAt
		if now.After(plan.UpdatedAt) {
			plan.UpdatedAt = now
		}
		if err := s.db.WithContext(ctx).Save(plan).Error; err != nil {
			return errors.Storage("update meal plan", err)
		}
	} else {
		plan.CreatedAt = now
		plan.UpdatedAt = now
		if err := s.db.WithContext(ctx).Create(plan).Error; err != nil {
			return errors.Storage("insert meal plan", err)
		}
	}

	s.notifier.publish(event{userID: plan.UserID, id: plan.ID})
	return nil
}

func (s *mealPlanStore) Apply(ctx context.Context, plan *model.MealPlan) error {
	if plan.ID == "" {
		return errors.ErrIDRequired
	}
	unlock := s.locks.lock(plan.ID)
	defer unlock()

	existing, err := s.getByID(ctx, plan.ID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return errors.Storage("load meal plan", err)
	}

	if existing != nil {
		if err := s.db.WithContext(ctx).Save(plan).Error; err != nil {
			return errors.Storage("overwrite meal plan", err)
		}
	} else {
		if err := s.db.WithContext(ctx).Create(plan).Error; err != nil {
			return errors.Storage("insert replicated meal plan", err)
		}
	}

	s.notifier.publish(event{userID: plan.UserID, id: plan.ID})
	return nil
}

func (s *mealPlanStore) Delete(ctx context.Context, userID, id string) error {
	if id == "" {
		return errors.ErrIDRequired
	}
	unlock := s.locks.lock(id)
	defer unlock()

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&model.MealPlan{})
	if res.Error != nil {
		return errors.Storage("delete meal plan", res.Error)
	}
	if res.RowsAffected > 0 {
		s.notifier.publish(event{userID: userID, id: id})
	}
	return nil
}

func (s *mealPlanStore) GetByID(ctx context.Context, id string) (*model.MealPlan, error) {
	plan, err := s.getByID(ctx, id)
	if err == gorm.ErrRecordNotFound {
		return nil, errors.ErrMealPlanNotFound
	}
	if err != nil {
		return nil, errors.Storage("get meal plan", err)
	}
	return plan, nil
}

func (s *mealPlanStore) getByID(ctx context.Context, id string) (*model.MealPlan, error) {
	var plan model.MealPlan
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *mealPlanStore) ListByUser(ctx context.Context, userID string) ([]model.MealPlan, error) {
	var plans []model.MealPlan
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&plans).Error
	if err != nil {
		return nil, errors.Storage("list meal plans", err)
	}
	return plans, nil
}

func (s *mealPlanStore) CurrentPlan(ctx context.Context, userID string, now time.Time) (*model.MealPlan, error) {
	var plan model.MealPlan
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND start_date <= ? AND end_date >= ?", userID, now, now).
		Order("start_date DESC").
		First(&plan).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.ErrMealPlanNotFound
	}
	if err != nil {
		return nil, errors.Storage("get current meal plan", err)
	}
	return &plan, nil
}

func (s *mealPlanStore) Watch(userID string) *View[[]model.MealPlan] {
	return newView(s.notifier,
		func(ev event) bool { return ev.userID == userID },
		func(ctx context.Context) ([]model.MealPlan, bool) {
			plans, err := s.ListByUser(ctx, userID)
			return plans, err == nil
		})
}
