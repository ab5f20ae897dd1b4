package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/weddingbook/marketplace-api/models"
	"gorm.io/gorm"
)

const managedBookingScope = "(provider_id = ? OR package_id IN (SELECT id FROM packages WHERE owner_id = ?))"

// CreateBookingInput is a user's request against a package
type CreateBookingInput struct {
	PackageID   uint
	WeddingDate string // RFC 3339 timestamp or YYYY-MM-DD
	Venue       string
	GuestCount  int
}

// UpdateStatusInput is a manager's status change, with an optional note to the user
type UpdateStatusInput struct {
	BookingID uint
	Status    models.BookingStatus
	Message   *string
}

// StatusUpdateResult carries the updated booking and the note created with it, if any
type StatusUpdateResult struct {
	Booking       *models.Booking `json:"booking"`
	StatusMessage *models.Message `json:"status_message"`
}

// BookingService runs the booking lifecycle
type BookingService struct {
	db        *gorm.DB
	publisher EventPublisher
}

// NewBookingService creates a booking service. A nil publisher drops events.
func NewBookingService(db *gorm.DB, publisher EventPublisher) *BookingService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &BookingService{db: db, publisher: publisher}
}

// Create books a package for requester. The provider is copied from the package owner.
func (s *BookingService) Create(ctx context.Context, requester Identity, in CreateBookingInput) (*models.Booking, error) {
	if err := requireID(in.PackageID, "package_id", "Package"); err != nil {
		return nil, err
	}
	weddingDate, err := parseWeddingDate(in.WeddingDate)
	if err != nil {
		return nil, err
	}
	venue := strings.TrimSpace(in.Venue)
	if venue == "" {
		return nil, ValidationError("VALIDATION_ERROR", "Venue is required", "venue")
	}
	if in.GuestCount < 1 {
		return nil, ValidationError("VALIDATION_ERROR", "Guest count must be a positive integer", "guest_count")
	}

	db := s.db.WithContext(ctx)
	if _, err := loadAccount(ctx, s.db, requester.AccountID); err != nil {
		return nil, err
	}

	var pkg models.Package
	if err := db.First(&pkg, in.PackageID).Error; err != nil {
		if isNotFound(err) {
			return nil, NotFoundError("PACKAGE_NOT_FOUND", "Package not found", "package_id")
		}
		return nil, StorageError("load package", err)
	}

	provider := pkg.OwnerID
	booking := models.Booking{
		UserID:      requester.AccountID,
		PackageID:   pkg.ID,
		ProviderID:  &provider,
		WeddingDate: weddingDate,
		Venue:       venue,
		GuestCount:  in.GuestCount,
		Status:      models.BookingPending,
	}
	if err := db.Create(&booking).Error; err != nil {
		return nil, StorageError("create booking", err)
	}

	log.Printf("Booking %d created by user %d for package %d", booking.ID, requester.AccountID, pkg.ID)
	publishBestEffort(ctx, s.publisher, newBookingEvent(EventBookingCreated, &booking, requester.AccountID))

	booking.Package = &pkg
	return &booking, nil
}

// Cancel moves the requester's own Pending booking to Cancelled
func (s *BookingService) Cancel(ctx context.Context, requester Identity, bookingID uint) (*models.Booking, error) {
	if err := requireID(bookingID, "booking_id", "Booking"); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var booking models.Booking
	if err := db.First(&booking, bookingID).Error; err != nil {
		if isNotFound(err) {
			return nil, NotFoundError("BOOKING_NOT_FOUND", "Booking not found", "booking_id")
		}
		return nil, StorageError("load booking", err)
	}

	if booking.UserID != requester.AccountID {
		return nil, UnauthorizedError("Unauthorized to cancel this booking")
	}
	if booking.Status != models.BookingPending {
		return nil, BusinessRuleError("BOOKING_NOT_PENDING", "Only pending bookings can be cancelled", "booking_id")
	}

	if err := db.Model(&booking).Update("status", models.BookingCancelled).Error; err != nil {
		return nil, StorageError("cancel booking", err)
	}
	booking.Status = models.BookingCancelled

	log.Printf("Booking %d cancelled by user %d", booking.ID, requester.AccountID)
	event := newBookingEvent(EventBookingCancelled, &booking, requester.AccountID)
	event.PreviousStatus = models.BookingPending
	publishBestEffort(ctx, s.publisher, event)

	return &booking, nil
}

// UpdateStatus sets a managed booking's status regardless of its current state and,
// when a note is supplied, sends it to the booking's user in the same transaction.
func (s *BookingService) UpdateStatus(ctx context.Context, manager Identity, in UpdateStatusInput) (*StatusUpdateResult, error) {
	if err := requireID(in.BookingID, "booking_id", "Booking"); err != nil {
		return nil, err
	}
	if !in.Status.ManagerSettable() {
		return nil, ValidationError("INVALID_STATUS", "Invalid status", "status")
	}
	var note string
	if in.Message != nil {
		note = strings.TrimSpace(*in.Message)
		if note == "" {
			return nil, ValidationError("VALIDATION_ERROR", "Message cannot be empty if provided", "message")
		}
	}

	var (
		booking  models.Booking
		previous models.BookingStatus
		result   StatusUpdateResult
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("User").
			Where("id = ? AND "+managedBookingScope, in.BookingID, manager.AccountID, manager.AccountID).
			First(&booking).Error
		if err != nil {
			if isNotFound(err) {
				return NotFoundError("BOOKING_NOT_FOUND", "Booking not found or unauthorized", "booking_id")
			}
			return StorageError("load booking", err)
		}

		previous = booking.Status
		if err := tx.Model(&booking).Update("status", in.Status).Error; err != nil {
			return StorageError("update booking status", err)
		}
		booking.Status = in.Status

		if note != "" {
			msg, err := createStatusMessage(tx, manager, &booking, note)
			if err != nil {
				return err
			}
			result.StatusMessage = msg
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Booking %d status updated by manager %d: %s -> %s", booking.ID, manager.AccountID, previous, booking.Status)
	event := newBookingEvent(EventBookingStatusChanged, &booking, manager.AccountID)
	event.PreviousStatus = previous
	if result.StatusMessage != nil {
		event.MessageID = &result.StatusMessage.ID
	}
	publishBestEffort(ctx, s.publisher, event)

	result.Booking = &booking
	return &result, nil
}

// createStatusMessage writes the manager's note to the booking's user.
// The relationship is fully known from the booking, so no recipient resolution happens.
func createStatusMessage(tx *gorm.DB, manager Identity, booking *models.Booking, content string) (*models.Message, error) {
	packageID := booking.PackageID
	bookingID := booking.ID
	msg := models.Message{
		PackageID:   &packageID,
		BookingID:   &bookingID,
		SenderID:    manager.AccountID,
		RecipientID: booking.UserID,
		Content:     content,
	}
	if err := tx.Create(&msg).Error; err != nil {
		return nil, StorageError("create status message", err)
	}
	return &msg, nil
}

// ListForUser returns the requester's own bookings in creation order
func (s *BookingService) ListForUser(ctx context.Context, requester Identity) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.withBookingRelations(ctx).
		Where("user_id = ?", requester.AccountID).
		Order("id ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, StorageError("list user bookings", err)
	}
	return bookings, nil
}

// ListForManager returns bookings the manager provides or whose package the manager owns
func (s *BookingService) ListForManager(ctx context.Context, manager Identity) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.withBookingRelations(ctx).
		Where(managedBookingScope, manager.AccountID, manager.AccountID).
		Order("id ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, StorageError("list managed bookings", err)
	}
	return bookings, nil
}

// ListForViewer picks ListForManager or ListForUser by role
func (s *BookingService) ListForViewer(ctx context.Context, viewer Identity) ([]models.Booking, error) {
	if viewer.IsAdmin() {
		return s.ListForManager(ctx, viewer)
	}
	return s.ListForUser(ctx, viewer)
}

// GetForViewer loads one booking visible to viewer: its user, or a manager who manages it
func (s *BookingService) GetForViewer(ctx context.Context, viewer Identity, bookingID uint) (*models.Booking, error) {
	if err := requireID(bookingID, "booking_id", "Booking"); err != nil {
		return nil, err
	}

	query := s.withBookingRelations(ctx).Where("id = ?", bookingID)
	if viewer.IsAdmin() {
		query = query.Where(managedBookingScope, viewer.AccountID, viewer.AccountID)
	} else {
		query = query.Where("user_id = ?", viewer.AccountID)
	}

	var booking models.Booking
	if err := query.First(&booking).Error; err != nil {
		if isNotFound(err) {
			return nil, NotFoundError("BOOKING_NOT_FOUND", "Booking not found or unauthorized", "booking_id")
		}
		return nil, StorageError("load booking", err)
	}
	return &booking, nil
}

func (s *BookingService) withBookingRelations(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("User").
		Preload("Provider").
		Preload("Package.Owner")
}

func parseWeddingDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value != "" {
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return t.UTC(), nil
		}
		if t, err := time.Parse("2006-01-02", value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ValidationError("VALIDATION_ERROR", "Valid wedding date is required", "wedding_date")
}
