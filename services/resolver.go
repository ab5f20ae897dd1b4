package services

import (
	"context"

	"github.com/weddingbook/marketplace-api/models"
	"gorm.io/gorm"
)

// MessageRef names what a fresh message is about. Either field may be nil.
type MessageRef struct {
	PackageID *uint
	BookingID *uint
}

func (ref MessageRef) validate() error {
	if ref.PackageID != nil {
		if err := requireID(*ref.PackageID, "package_id", "Package"); err != nil {
			return err
		}
	}
	if ref.BookingID != nil {
		if err := requireID(*ref.BookingID, "booking_id", "Booking"); err != nil {
			return err
		}
	}
	return nil
}

// ResolutionKind tags which references produced a Resolution
type ResolutionKind int

const (
	ViaPackage ResolutionKind = iota + 1
	ViaBooking
	ViaBoth
)

// Resolution is the outcome of recipient resolution. Build it with
// resolvePackage, resolveBooking or resolveBoth so the recipient always
// follows the booking when one is present.
type Resolution struct {
	Kind    ResolutionKind
	Package *models.Package // set for ViaPackage and ViaBoth
	Booking *models.Booking // set for ViaBooking and ViaBoth, with Package preloaded

	recipientID uint
}

func resolvePackage(pkg *models.Package) Resolution {
	return Resolution{Kind: ViaPackage, Package: pkg, recipientID: pkg.OwnerID}
}

func resolveBooking(booking *models.Booking) Resolution {
	return Resolution{Kind: ViaBooking, Booking: booking, recipientID: booking.ProviderOrOwner()}
}

func resolveBoth(pkg *models.Package, booking *models.Booking) Resolution {
	return Resolution{Kind: ViaBoth, Package: pkg, Booking: booking, recipientID: booking.ProviderOrOwner()}
}

// RecipientID is the account the message will be delivered to
func (r Resolution) RecipientID() uint {
	return r.recipientID
}

// PackageID prefers the explicitly referenced package, else the booking's package
func (r Resolution) PackageID() *uint {
	if r.Package != nil {
		id := r.Package.ID
		return &id
	}
	if r.Booking != nil && r.Booking.PackageID != 0 {
		id := r.Booking.PackageID
		return &id
	}
	return nil
}

// BookingID returns the resolved booking, if any
func (r Resolution) BookingID() *uint {
	if r.Booking == nil {
		return nil
	}
	id := r.Booking.ID
	return &id
}

// ResolveRecipient works out who a fresh message from requester goes to.
// Bookings are only visible to the user who made them.
func ResolveRecipient(ctx context.Context, db *gorm.DB, requester Identity, ref MessageRef) (Resolution, error) {
	if err := ref.validate(); err != nil {
		return Resolution{}, err
	}

	var pkg *models.Package
	if ref.PackageID != nil {
		var found models.Package
		if err := db.WithContext(ctx).First(&found, *ref.PackageID).Error; err != nil {
			if isNotFound(err) {
				return Resolution{}, NotFoundError("PACKAGE_NOT_FOUND", "Package not found", "package_id")
			}
			return Resolution{}, StorageError("load package", err)
		}
		pkg = &found
	}

	var res Resolution
	if ref.BookingID != nil {
		var booking models.Booking
		err := db.WithContext(ctx).
			Preload("Package").
			Where("id = ? AND user_id = ?", *ref.BookingID, requester.AccountID).
			First(&booking).Error
		if err != nil {
			if isNotFound(err) {
				return Resolution{}, NotFoundError("BOOKING_NOT_FOUND", "Booking not found or unauthorized", "booking_id")
			}
			return Resolution{}, StorageError("load booking", err)
		}

		if pkg != nil {
			if booking.PackageID != pkg.ID {
				return Resolution{}, BusinessRuleError("BOOKING_PACKAGE_MISMATCH", "Booking does not belong to the selected package", "booking_id")
			}
			res = resolveBoth(pkg, &booking)
		} else {
			res = resolveBooking(&booking)
		}
	} else if pkg != nil {
		res = resolvePackage(pkg)
	}

	if res.RecipientID() == 0 {
		return Resolution{}, BusinessRuleError("CANNOT_RESOLVE_RECIPIENT", "Cannot resolve recipient", "")
	}
	return res, nil
}
