package services

import (
	"context"
	"errors"

	"github.com/weddingbook/marketplace-api/models"
	"gorm.io/gorm"
)

// Identity is the verified caller of a service operation
type Identity struct {
	AccountID uint
	Role      string
}

// IsAdmin reports whether the caller acts as a manager
func (id Identity) IsAdmin() bool {
	return id.Role == models.RoleAdmin
}

// loadAccount looks up the requester's account
func loadAccount(ctx context.Context, db *gorm.DB, id uint) (*models.Account, error) {
	var account models.Account
	if err := db.WithContext(ctx).First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("USER_NOT_FOUND", "User not found", "")
		}
		return nil, StorageError("load account", err)
	}
	return &account, nil
}

// requireID rejects a zero id before any lookup
func requireID(id uint, field, what string) error {
	if id == 0 {
		return ValidationError("INVALID_ID", "Valid "+what+" ID is required", field)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
