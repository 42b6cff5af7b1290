package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusOrdered   OrderStatus = "ordered"
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusOrdered, OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Cancellable reports whether an order in status s may still be cancelled.
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusOrdered || s == OrderStatusPending
}

// Order is a placed order. Items keep a snapshot of product data at order time.
type Order struct {
	ID        uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID       `json:"-" gorm:"type:char(36);not null;index"`
	Name      string          `json:"name" gorm:"size:255"`
	Total     decimal.Decimal `json:"total" gorm:"type:decimal(20,2);not null"`
	Status    OrderStatus     `json:"status" gorm:"size:20;not null;default:'ordered';index"`
	CreatedAt time.Time       `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time       `json:"updatedAt"`

	// Relations
	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem is a single line of an order.
type OrderItem struct {
	ID        uint            `json:"-" gorm:"primaryKey"`
	OrderID   uuid.UUID       `json:"-" gorm:"type:char(36);not null;index"`
	ProductID *uuid.UUID      `json:"id,omitempty" gorm:"type:char(36)"`
	Name      string          `json:"name" gorm:"size:255;not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null"`
	Quantity  int             `json:"quantity" gorm:"not null;default:1"`
	Image     string          `json:"image,omitempty" gorm:"size:1024"`
}

// LineTotal is price times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
