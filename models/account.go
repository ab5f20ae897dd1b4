package models

import (
	"time"
)

// Account roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account represents a registered user or manager
type Account struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"not null;default:'user'" json:"role"` // "user" or "admin"
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Account model
func (Account) TableName() string {
	return "accounts"
}

// IsAdmin reports whether the account is a manager
func (a Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// ValidRole reports whether role is one of the known account roles
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
