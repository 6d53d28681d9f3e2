package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PantryItem represents a single ingredient entry in a user's pantry.
// Timestamps are managed explicitly so that replicated rows keep the
// authoritative remote values instead of being re-stamped on write.
type PantryItem struct {
	ID             string    `json:"id" bson:"_id" gorm:"primaryKey;size:64"`
	UserID         string    `json:"userId" bson:"userId" gorm:"size:64;not null;index"`
	IngredientName string    `json:"ingredientName" bson:"ingredientName" gorm:"size:255;not null;index"`
	Category       string    `json:"category" bson:"category" gorm:"size:100;index"`
	Quantity       string    `json:"quantity" bson:"quantity" gorm:"size:100"`
	Unit           string    `json:"unit" bson:"unit" gorm:"size:50"`
	ExpirationDate time.Time `json:"expirationDate" bson:"expirationDate" gorm:"index"`
	Notes          string    `json:"notes" bson:"notes"`
	Barcode        string    `json:"barcode" bson:"barcode" gorm:"size:100"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt" gorm:"autoCreateTime:false"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt" gorm:"autoUpdateTime:false"`
}

// BeforeCreate assigns an identifier when none was supplied.
func (i *PantryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// Touch bumps UpdatedAt, never letting it move backwards.
func (i *PantryItem) Touch(now time.Time) {
	if now.After(i.UpdatedAt) {
		i.UpdatedAt = now
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = i.UpdatedAt
	}
}

// Equal reports whether two items carry identical field values.
// Time fields are compared with time.Time.Equal so that rows decoded
// from the remote store compare equal regardless of location.
func (i *PantryItem) Equal(o *PantryItem) bool {
	if o == nil {
		return false
	}
	return i.ID == o.ID &&
		i.UserID == o.UserID &&
		i.IngredientName == o.IngredientName &&
		i.Category == o.Category &&
		i.Quantity == o.Quantity &&
		i.Unit == o.Unit &&
		i.ExpirationDate.Equal(o.ExpirationDate) &&
		i.Notes == o.Notes &&
		i.Barcode == o.Barcode &&
		i.CreatedAt.Equal(o.CreatedAt) &&
		i.UpdatedAt.Equal(o.UpdatedAt)
}
