package services

import (
	"context"
	"log"
	"strings"

	"github.com/weddingbook/marketplace-api/models"
	"github.com/weddingbook/marketplace-api/utils"
	"gorm.io/gorm"
)

// RegisterInput is a new account's details
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UpdateProfileInput replaces an account's name and email
type UpdateProfileInput struct {
	Name  string
	Email string
}

// AccountService registers accounts and checks credentials
type AccountService struct {
	db *gorm.DB
}

// NewAccountService creates an account service
func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// Register creates an account. Role defaults to user.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.Account, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ValidationError("VALIDATION_ERROR", "Name is required", "name")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < utils.MinPasswordLength {
		return nil, ValidationError("VALIDATION_ERROR", "Password must be at least 6 characters", "password")
	}
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		return nil, ValidationError("VALIDATION_ERROR", "Role must be user or admin", "role")
	}

	taken, err := s.emailTaken(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ConflictError("USER_EXISTS", "User already exists", "email")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, StorageError("hash password", err)
	}

	account := models.Account{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.db.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, StorageError("create account", err)
	}

	log.Printf("Registered %s account %d", account.Role, account.ID)
	return &account, nil
}

// Login returns the account matching email and password
func (s *AccountService) Login(ctx context.Context, email, password string) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ValidationError("VALIDATION_ERROR", "Email and password are required", "")
	}

	var account models.Account
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		if isNotFound(err) {
			return nil, UnauthenticatedError("Invalid credentials")
		}
		return nil, StorageError("load account", err)
	}

	if !utils.VerifyPassword(account.PasswordHash, password) {
		return nil, UnauthenticatedError("Invalid credentials")
	}
	return &account, nil
}

// GetProfile returns the requester's account
func (s *AccountService) GetProfile(ctx context.Context, requester Identity) (*models.Account, error) {
	return loadAccount(ctx, s.db, requester.AccountID)
}

// UpdateProfile changes the requester's name and email
func (s *AccountService) UpdateProfile(ctx context.Context, requester Identity, in UpdateProfileInput) (*models.Account, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ValidationError("VALIDATION_ERROR", "Name is required", "name")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}

	account, err := loadAccount(ctx, s.db, requester.AccountID)
	if err != nil {
		return nil, err
	}

	taken, err := s.emailTaken(ctx, email, account.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ConflictError("EMAIL_EXISTS", "Email already in use", "email")
	}

	err = s.db.WithContext(ctx).Model(account).Updates(map[string]interface{}{
		"name":  name,
		"email": email,
	}).Error
	if err != nil {
		return nil, StorageError("update account", err)
	}
	return account, nil
}

func (s *AccountService) emailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Account{}).
		Where("email = ? AND id <> ?", email, exceptID).
		Count(&count).Error
	if err != nil {
		return false, StorageError("check email", err)
	}
	return count > 0, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ValidationError("VALIDATION_ERROR", "Email is required", "email")
	}
	if !isEmail(email) {
		return "", ValidationError("VALIDATION_ERROR", "Valid email is required", "email")
	}
	return email, nil
}
