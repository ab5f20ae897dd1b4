package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/weddingbook/marketplace-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultPassword is the plain password of every fixture account
const DefaultPassword = "password123"

// NewTestDB opens a migrated in-memory sqlite database private to the test
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	// every pooled connection would get its own empty :memory: database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db), "failed to migrate test database")
	return db
}

// CreateAccount inserts an account whose password is DefaultPassword
func CreateAccount(t *testing.T, db *gorm.DB, name, email, role string) *models.Account {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	require.NoError(t, err)

	account := &models.Account{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

// CreatePackage inserts a package with a single feature
func CreatePackage(t *testing.T, db *gorm.DB, ownerID uint, companyName string) *models.Package {
	t.Helper()

	pkg := &models.Package{
		OwnerID:       ownerID,
		CompanyName:   companyName,
		PackageAmount: 2500,
		Contact: models.ContactDetails{
			Email: "hello@example.com",
			Phone: "+1 555-0100",
		},
		Features: []models.FeatureItem{
			{Position: 0, Name: "Photography", Description: "Full day coverage"},
		},
	}
	require.NoError(t, db.Create(pkg).Error)
	return pkg
}

// CreateBooking inserts a booking directly, bypassing the booking workflow.
// A nil providerID leaves the provider unset.
func CreateBooking(t *testing.T, db *gorm.DB, userID, packageID uint, providerID *uint, status models.BookingStatus) *models.Booking {
	t.Helper()

	booking := &models.Booking{
		UserID:      userID,
		PackageID:   packageID,
		ProviderID:  providerID,
		WeddingDate: time.Date(2027, time.June, 12, 0, 0, 0, 0, time.UTC),
		Venue:       "Rose Garden",
		GuestCount:  120,
		Status:      status,
	}
	require.NoError(t, db.Create(booking).Error)
	return booking
}

// CreateMessage inserts a message directly
func CreateMessage(t *testing.T, db *gorm.DB, senderID, recipientID uint, packageID, bookingID *uint, content string) *models.Message {
	t.Helper()

	msg := &models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		PackageID:   packageID,
		BookingID:   bookingID,
		Content:     content,
	}
	require.NoError(t, db.Create(msg).Error)
	return msg
}

// UintPtr returns a pointer to v
func UintPtr(v uint) *uint {
	return &v
}
