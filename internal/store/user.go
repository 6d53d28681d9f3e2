package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"pantrypal/internal/errors"
	"pantrypal/internal/model"
)

// UserStore defines local user-profile persistence.
type UserStore interface {
	Put(ctx context.Context, user *model.User) error
	Apply(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	Watch(id string) *View[*model.User]
}

type userStore struct {
	db       *gorm.DB
	locks    lockTable
	notifier *notifier
	now      func() time.Time
}

// NewUserStore creates a user store over the given DB handle.
func NewUserStore(db *gorm.DB) UserStore {
	return &userStore{
		db:       db,
		notifier: newNotifier(),
		now:      time.Now,
	}
}

func (s *userStore) Put(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		return errors.ErrIDRequired
	}
	unlock := s.locks.lock(user.ID)
	defer unlock()

	existing, err := s.getByID(ctx, user.ID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return errors.Storage("load user", err)
	}

	now := s.now()
	if existing != nil {
		user.CreatedAt = existing.CreatedAt
		if now.After(user.UpdatedAt) {
			user.UpdatedAt = now
		}
		if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
			return errors.Storage("update user", err)
		}
	} else {
		if user.CreatedAt.IsZero() {
			user.CreatedAt = now
		}
		user.UpdatedAt = now
		if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
			return errors.Storage("insert user", err)
		}
	}

	s.notifier.publish(event{userID: user.ID, id: user.ID})
	return nil
}

func (s *userStore) Apply(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		return errors.ErrIDRequired
	}
	unlock := s.locks.lock(user.ID)
	defer unlock()

	existing, err := s.getByID(ctx, user.ID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return errors.Storage("load user", err)
	}

	if existing != nil {
		if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
			return errors.Storage("overwrite user", err)
		}
	} else {
		if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
			return errors.Storage("insert replicated user", err)
		}
	}

	s.notifier.publish(event{userID: user.ID, id: user.ID})
	return nil
}

func (s *userStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.ErrIDRequired
	}
	unlock := s.locks.lock(id)
	defer unlock()

	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{})
	if res.Error != nil {
		return errors.Storage("delete user", res.Error)
	}
	if res.RowsAffected > 0 {
		s.notifier.publish(event{userID: id, id: id})
	}
	return nil
}

func (s *userStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.getByID(ctx, id)
	if err == gorm.ErrRecordNotFound {
		return nil, errors.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Storage("get user", err)
	}
	return user, nil
}

func (s *userStore) getByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userStore) Watch(id string) *View[*model.User] {
	return newView(s.notifier,
		func(ev event) bool { return ev.id == id },
		func(ctx context.Context) (*model.User, bool) {
			user, err := s.getByID(ctx, id)
			if err == gorm.ErrRecordNotFound {
				return nil, true
			}
			if err != nil {
				return nil, false
			}
			return user, true
		})
}
