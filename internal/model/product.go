package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog entry. There is no stock field; ordering never
// decrements availability.
type Product struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string          `json:"name" gorm:"uniqueIndex;size:255;not null"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null"`
	CategoryKey string          `json:"categoryKey" gorm:"size:100;index"`
	Type        string          `json:"type" gorm:"size:100;index"`
	Rating      *float64        `json:"rating"`
	Featured    bool            `json:"featured" gorm:"default:false;index"`
	Image       string          `json:"image" gorm:"size:1024"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	// Relations
	Reviews []Review `json:"reviews,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProductFilter narrows catalog listings. Zero values mean "any".
type ProductFilter struct {
	CategoryKey string
	Type        string
	Featured    *bool
	Page        int
	Limit       int
}
