package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FoodItem struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Name              string    `gorm:"not null" json:"name"`
	Quantity          string    `gorm:"not null" json:"quantity"`
	ManufacturingDate time.Time `gorm:"not null" json:"manufacturing_date"`
	ExpiryDate        time.Time `gorm:"index;not null" json:"expiry_date"`
	Status            string    `gorm:"index;not null" json:"status"` // "good", "expiring soon", "expired"
	StatusCheckedAt   time.Time `json:"status_checked_at"`
	ImageURL          string    `json:"image_url,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Timestamp
}

func (f *FoodItem) BeforeCreate(_ *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
