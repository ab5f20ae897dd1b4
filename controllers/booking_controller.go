package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weddingbook/marketplace-api/config"
	"github.com/weddingbook/marketplace-api/models"
	"github.com/weddingbook/marketplace-api/services"
)

// CreateBookingRequest represents the request body for booking a package
type CreateBookingRequest struct {
	PackageID   uint   `json:"package_id" binding:"required"`
	WeddingDate string `json:"wedding_date" binding:"required"`
	Venue       string `json:"venue" binding:"required"`
	GuestCount  int    `json:"guest_count" binding:"required"`
}

// UpdateBookingStatusRequest represents the request body for a manager's status change
type UpdateBookingStatusRequest struct {
	Status  string  `json:"status" binding:"required"`
	Message *string `json:"message"`
}

func bookingService() *services.BookingService {
	return services.NewBookingService(config.GetDB(), services.GetEventPublisher())
}

// CreateBooking handles POST /api/v1/bookings - a user books a package
func CreateBooking(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	booking, err := bookingService().Create(c.Request.Context(), identity, services.CreateBookingInput{
		PackageID:   req.PackageID,
		WeddingDate: req.WeddingDate,
		Venue:       req.Venue,
		GuestCount:  req.GuestCount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, booking)
}

// ListBookings handles GET /api/v1/bookings - a user's own bookings or a manager's managed bookings
func ListBookings(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	bookings, err := bookingService().ListForViewer(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, bookings)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel - a user cancels a pending booking
func CancelBooking(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	id, ok := idParam(c, "id", "booking_id", "Booking")
	if !ok {
		return
	}

	booking, err := bookingService().Cancel(c.Request.Context(), identity, id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, booking)
}

// UpdateBookingStatus handles PUT /api/v1/bookings/:id/status - a manager sets the status,
// optionally sending the user a note in the same step
func UpdateBookingStatus(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	id, ok := idParam(c, "id", "booking_id", "Booking")
	if !ok {
		return
	}

	var req UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := bookingService().UpdateStatus(c.Request.Context(), identity, services.UpdateStatusInput{
		BookingID: id,
		Status:    models.BookingStatus(req.Status),
		Message:   req.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, result)
}

// GetBookingSummary handles GET /api/v1/bookings/:id/summary.pdf - printable booking summary
func GetBookingSummary(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	id, ok := idParam(c, "id", "booking_id", "Booking")
	if !ok {
		return
	}

	booking, doc, err := bookingService().Summary(c.Request.Context(), identity, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, services.BookingReference(booking.ID)))
	c.Data(http.StatusOK, "application/pdf", doc)
}
