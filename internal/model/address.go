package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Address is a shipping address owned by a user. Clients may still address
// entries by position; the position is derived from CreatedAt order.
type Address struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID       uuid.UUID `json:"-" gorm:"type:char(36);not null;index:idx_address_user_created,priority:1"`
	BuildingName string    `json:"buildingname" gorm:"size:255;not null"`
	Colony       string    `json:"colony" gorm:"size:255;not null"`
	City         string    `json:"city" gorm:"size:100;not null"`
	State        string    `json:"state" gorm:"size:100;not null"`
	Pincode      string    `json:"pincode" gorm:"size:20;not null"`
	CreatedAt    time.Time `json:"createdAt" gorm:"type:datetime(6);index:idx_address_user_created,priority:2"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
