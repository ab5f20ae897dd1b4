package models

import (
	"time"
)

// BookingStatus is the lifecycle state of a booking
type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingRejected  BookingStatus = "Rejected"
	BookingCancelled BookingStatus = "Cancelled"
)

// ManagerSettable reports whether a manager may move a booking into this status
func (s BookingStatus) ManagerSettable() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingRejected:
		return true
	}
	return false
}

// Booking represents a user's request against a package
type Booking struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	UserID    uint     `gorm:"not null;index" json:"user_id"`
	User      *Account `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PackageID uint     `gorm:"not null;index" json:"package_id"`
	Package   *Package `gorm:"foreignKey:PackageID" json:"package,omitempty"`
	// ProviderID is the package owner at creation time. It is never re-synced.
	ProviderID  *uint         `gorm:"index" json:"provider_id"`
	Provider    *Account      `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
	WeddingDate time.Time     `gorm:"not null" json:"wedding_date"`
	Venue       string        `gorm:"not null" json:"venue"`
	GuestCount  int           `gorm:"not null;check:guest_count > 0" json:"guest_count"`
	Status      BookingStatus `gorm:"not null;default:'Pending'" json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}

// ProviderOrOwner returns the historical provider, falling back to the package owner
// when the provider was never set. Zero means neither is known.
func (b Booking) ProviderOrOwner() uint {
	if b.ProviderID != nil && *b.ProviderID != 0 {
		return *b.ProviderID
	}
	if b.Package != nil {
		return b.Package.OwnerID
	}
	return 0
}
