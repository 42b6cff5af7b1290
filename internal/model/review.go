package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a user's rating of a product. At most one per (product, user).
type Review struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	ProductID uuid.UUID `json:"productId" gorm:"type:char(36);not null;uniqueIndex:uniq_user_product_review,priority:1"`
	UserID    uuid.UUID `json:"userId" gorm:"type:char(36);not null;uniqueIndex:uniq_user_product_review,priority:2;index"`
	Rating    int       `json:"rating" gorm:"not null"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Comment   string    `json:"comment" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"date"`
	UpdatedAt time.Time `json:"-"`

	// UserName is filled by a join on read and never migrated.
	UserName string `json:"userName" gorm:"->;-:migration"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
