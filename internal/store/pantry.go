package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pantrypal/internal/errors"
	"pantrypal/internal/model"
)

// PantryStore defines local pantry persistence. Reads are always served
// locally and never touch the network; writes are visible to subsequent
// reads on the same store instance as soon as they return.
type PantryStore interface {
	// Put upserts a caller-initiated write: it assigns an identifier when
	// missing, preserves the original owner and creation time, and bumps
	// UpdatedAt monotonically.
	Put(ctx context.Context, item *model.PantryItem) error
	// Apply upserts a replicated row verbatim, timestamps included.
	Apply(ctx context.Context, item *model.PantryItem) error
	Delete(ctx context.Context, userID, id string) error
	GetByID(ctx context.Context, id string) (*model.PantryItem, error)
	ListByUser(ctx context.Context, userID string) ([]model.PantryItem, error)
	ListByCategory(ctx context.Context, userID, category string) ([]model.PantryItem, error)
	Search(ctx context.Context, userID, query string) ([]model.PantryItem, error)
	ListExpiringBefore(ctx context.Context, userID string, threshold time.Time) ([]model.PantryItem, error)
	WatchByUser(userID string) *View[[]model.PantryItem]
	WatchByCategory(userID, category string) *View[[]model.PantryItem]
	WatchSearch(userID, query string) *View[[]model.PantryItem]
	WatchExpiringBefore(userID string, threshold time.Time) *View[[]model.PantryItem]
	WatchByID(id string) *View[*model.PantryItem]
}

type pantryStore struct {
	db       *gorm.DB
	locks    lockTable
	notifier *notifier
	now      func() time.Time
}

// NewPantryStore creates a pantry store over the given DB handle.
func NewPantryStore(db *gorm.DB) PantryStore {
	return &pantryStore{
		db:       db,
		notifier: newNotifier(),
		now:      time.Now,
	}
}

func (s *pantryStore) Put(ctx context.Context, item *model.PantryItem) error {
	if item.UserID == "" {
		return errors.ErrOwnerRequired
	}
	// BeforeCreate would assign this too, but the lock needs it up front.
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	unlock := s.locks.lock(item.ID)
	defer unlock()

	existing, err := s.getByID(ctx, item.ID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return errors.Storage("load pantry item", err)
	}

	now := s.now()
	if existing != nil {
		// owner is immutable after creation
		item.UserID = existing.UserID
		item.CreatedAt = existing.CreatedAt
		item.UpdatedAt = existing.UpdatedAt
		item.Touch(now)
		if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
			return errors.Storage("update pantry item", err)
		}
	} else {
		item.CreatedAt = now
		item.UpdatedAt = now
		if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
			return errors.Storage("insert pantry item", err)
		}
	}

	s.notifier.publish(event{userID: item.UserID, id: item.ID})
	return nil
}

func (s *pantryStore) Apply(ctx context.Context, item *model.PantryItem) error {
	if item.ID == "" {
		return errors.ErrIDRequired
	}
	unlock := s.locks.lock(item.ID)
	defer unlock()

	existing, err := s.getByID(ctx, item.ID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return errors.Storage("load pantry item", err)
	}

	if existing != nil {
		if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
			return errors.Storage("overwrite pantry item", err)
		}
	} else {
		if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
			return errors.Storage("insert replicated pantry item", err)
		}
	}

	s.notifier.publish(event{userID: item.UserID, id: item.ID})
	return nil
}

func (s *pantryStore) Delete(ctx context.Context, userID, id string) error {
	if id == "" {
		return errors.ErrIDRequired
	}
	unlock := s.locks.lock(id)
	defer unlock()

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&model.PantryItem{})
	if res.Error != nil {
		return errors.Storage("delete pantry item", res.Error)
	}
	if res.RowsAffected > 0 {
		s.notifier.publish(event{userID: userID, id: id})
	}
	return nil
}

func (s *pantryStore) GetByID(ctx context.Context, id string) (*model.PantryItem, error) {
	item, err := s.getByID(ctx, id)
	if err == gorm.ErrRecordNotFound {
		return nil, errors.ErrItemNotFound
	}
	if err != nil {
		return nil, errors.Storage("get pantry item", err)
	}
	return item, nil
}

func (s *pantryStore) getByID(ctx context.Context, id string) (*model.PantryItem, error) {
	var item model.PantryItem
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *pantryStore) ListByUser(ctx context.Context, userID string) ([]model.PantryItem, error) {
	var items []model.PantryItem
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("ingredient_name ASC").
		Find(&items).Error
	if err != nil {
		return nil, errors.Storage("list pantry items", err)
	}
	return items, nil
}

func (s *pantryStore) ListByCategory(ctx context.Context, userID, category string) ([]model.PantryItem, error) {
	var items []model.PantryItem
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND category = ?", userID, category).
		Order("ingredient_name ASC").
		Find(&items).Error
	if err != nil {
		return nil, errors.Storage("list pantry items by category", err)
	}
	return items, nil
}

func (s *pantryStore) Search(ctx context.Context, userID, query string) ([]model.PantryItem, error) {
	var items []model.PantryItem
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(query)
	err := s.db.WithContext(ctx).
		Where(`user_id = ? AND ingredient_name LIKE ? ESCAPE '\'`, userID, "%"+escaped+"%").
		Order("ingredient_name ASC").
		Find(&items).Error
	if err != nil {
		return nil, errors.Storage("search pantry items", err)
	}
	return items, nil
}

func (s *pantryStore) ListExpiringBefore(ctx context.Context, userID string, threshold time.Time) ([]model.PantryItem, error) {
	var items []model.PantryItem
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND expiration_date <= ?", userID, threshold).
		Order("expiration_date ASC").
		Find(&items).Error
	if err != nil {
		return nil, errors.Storage("list expiring pantry items", err)
	}
	return items, nil
}

func (s *pantryStore) WatchByUser(userID string) *View[[]model.PantryItem] {
	return newView(s.notifier,
		func(ev event) bool { return ev.userID == userID },
		func(ctx context.Context) ([]model.PantryItem, bool) {
			items, err := s.ListByUser(ctx, userID)
			return items, err == nil
		})
}

func (s *pantryStore) WatchByCategory(userID, category string) *View[[]model.PantryItem] {
	return newView(s.notifier,
		func(ev event) bool { return ev.userID == userID },
		func(ctx context.Context) ([]model.PantryItem, bool) {
			items, err := s.ListByCategory(ctx, userID, category)
			return items, err == nil
		})
}

func (s *pantryStore) WatchSearch(userID, query string) *View[[]model.PantryItem] {
	return newView(s.notifier,
		func(ev event) bool { return ev.userID == userID },
		func(ctx context.Context) ([]model.PantryItem, bool) {
			items, err := s.Search(ctx, userID, query)
			return items, err == nil
		})
}

func (s *pantryStore) WatchExpiringBefore(userID string, threshold time.Time) *View[[]model.PantryItem] {
	return newView(s.notifier,
		func(ev event) bool { return ev.userID == userID },
		func(ctx context.Context) ([]model.PantryItem, bool) {
			items, err := s.ListExpiringBefore(ctx, userID, threshold)
			return items, err == nil
		})
}

func (s *pantryStore) WatchByID(id string) *View[*model.PantryItem] {
	return newView(s.notifier,
		func(ev event) bool { return ev.id == id },
		func(ctx context.Context) (*model.PantryItem, bool) {
			item, err := s.getByID(ctx, id)
			if err == gorm.ErrRecordNotFound {
				return nil, true // deletion pushes an explicit nil
			}
			if err != nil {
				return nil, false
			}
			return item, true
		})
}
