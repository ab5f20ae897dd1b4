package services

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/weddingbook/marketplace-api/models"
)

// DefaultPackageName labels contacts whose package has no company name
const DefaultPackageName = "Wedding Package"

// Contact is one conversation partner derived from the viewer's bookings.
// It is recomputed on every read and never stored.
type Contact struct {
	Key               string    `json:"contact_key"`
	BookingID         uint      `json:"booking_id"`
	PackageID         uint      `json:"package_id"`
	PackageName       string    `json:"package_name"`
	CounterpartyID    uint      `json:"counterparty_id"`
	CounterpartyName  string    `json:"counterparty_name"`
	CounterpartyEmail string    `json:"counterparty_email"`
	WeddingDate       time.Time `json:"wedding_date"`
}

// BuildContacts derives the viewer's contacts from bookings, in booking order.
// Contacts are keyed by counterparty and package name, so two bookings for the
// same package from the same counterparty collapse into the first one.
func BuildContacts(viewer Identity, bookings []models.Booking) []Contact {
	seen := make(map[string]bool)
	contacts := make([]Contact, 0, len(bookings))

	for _, booking := range bookings {
		counterpartyID, counterparty := counterpartyOf(viewer, booking)
		if counterpartyID == 0 {
			continue
		}

		packageName := DefaultPackageName
		if booking.Package != nil && booking.Package.CompanyName != "" {
			packageName = booking.Package.CompanyName
		}

		key := fmt.Sprintf("%d|%s", counterpartyID, packageName)
		if seen[key] {
			continue
		}
		seen[key] = true

		contact := Contact{
			Key:            strconv.FormatUint(uint64(booking.ID), 10),
			BookingID:      booking.ID,
			PackageID:      booking.PackageID,
			PackageName:    packageName,
			CounterpartyID: counterpartyID,
			WeddingDate:    booking.WeddingDate,
		}
		if counterparty != nil {
			contact.CounterpartyName = counterparty.Name
			contact.CounterpartyEmail = counterparty.Email
		}
		contacts = append(contacts, contact)
	}

	return contacts
}

// counterpartyOf returns the other side of a booking from the viewer's point of view.
// Managers talk to the booking's user; users talk to the booking's provider.
func counterpartyOf(viewer Identity, booking models.Booking) (uint, *models.Account) {
	if viewer.IsAdmin() {
		return booking.UserID, booking.User
	}

	id := booking.ProviderOrOwner()
	switch {
	case booking.Provider != nil && booking.Provider.ID == id:
		return id, booking.Provider
	case booking.Package != nil && booking.Package.Owner != nil && booking.Package.Owner.ID == id:
		return id, booking.Package.Owner
	}
	return id, nil
}

// SortMessages returns a copy of messages ordered by creation time. Ties keep input order.
func SortMessages(messages []models.Message) []models.Message {
	sorted := make([]models.Message, len(messages))
	copy(sorted, messages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}

// FilterThread sorts messages and keeps those matching the contact's booking,
// package, or counterparty. Any one match is enough. A nil contact keeps everything.
func FilterThread(messages []models.Message, contact *Contact) []models.Message {
	sorted := SortMessages(messages)
	if contact == nil {
		return sorted
	}

	thread := make([]models.Message, 0, len(sorted))
	for _, msg := range sorted {
		if matchesContact(msg, contact) {
			thread = append(thread, msg)
		}
	}
	return thread
}

func matchesContact(msg models.Message, contact *Contact) bool {
	if contact.BookingID != 0 && msg.BookingID != nil && *msg.BookingID == contact.BookingID {
		return true
	}
	if contact.PackageID != 0 && msg.PackageID != nil && *msg.PackageID == contact.PackageID {
		return true
	}
	return contact.CounterpartyID != 0 && msg.Involves(contact.CounterpartyID)
}

// SelectContact finds the contact with key, falling back to the first contact
func SelectContact(contacts []Contact, key string) *Contact {
	if len(contacts) == 0 {
		return nil
	}
	for i := range contacts {
		if contacts[i].Key == key {
			return &contacts[i]
		}
	}
	return &contacts[0]
}
