package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role governs authorization for catalog management.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is an account holder. The refresh token column keeps the SHA-256 of
// the last issued refresh token; it is NULL after logout.
type User struct {
	ID               uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Username         string    `json:"username" gorm:"uniqueIndex;size:100;not null"`
	Email            string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash     string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role             Role      `json:"role" gorm:"size:20;not null;default:'user'"`
	RefreshTokenHash *string   `json:"-" gorm:"size:64"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// IsAdmin reports whether the user may manage the catalog.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
