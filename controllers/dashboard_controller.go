package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weddingbook/marketplace-api/config"
	"github.com/weddingbook/marketplace-api/models"
	"github.com/weddingbook/marketplace-api/services"
)

// DashboardStats counts a manager's bookings by status
type DashboardStats struct {
	TotalBookings     int `json:"total_bookings"`
	PendingBookings   int `json:"pending_bookings"`
	ConfirmedBookings int `json:"confirmed_bookings"`
}

// UserDashboard handles GET /api/v1/dashboard/user - everything a user's home screen shows
func UserDashboard(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	db := config.GetDB()

	account, err := services.NewAccountService(db).GetProfile(ctx, identity)
	if err != nil {
		respondError(c, err)
		return
	}

	packages, err := services.NewPackageService(db, services.GetImageService()).List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	bookings, err := services.NewBookingService(db, nil).ListForUser(ctx, identity)
	if err != nil {
		respondError(c, err)
		return
	}

	messages, err := services.NewMessageService(db).ListForAccount(ctx, identity)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"user":     account,
		"packages": packages,
		"bookings": bookings,
		"messages": messages,
		"contacts": services.BuildContacts(identity, bookings),
	})
}

// ManagerDashboard handles GET /api/v1/dashboard/manager - a manager's packages, managed bookings and messages
func ManagerDashboard(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	db := config.GetDB()

	account, err := services.NewAccountService(db).GetProfile(ctx, identity)
	if err != nil {
		respondError(c, err)
		return
	}

	packages, err := services.NewPackageService(db, services.GetImageService()).ListByOwner(ctx, identity.AccountID)
	if err != nil {
		respondError(c, err)
		return
	}

	bookings, err := services.NewBookingService(db, nil).ListForManager(ctx, identity)
	if err != nil {
		respondError(c, err)
		return
	}

	messages, err := services.NewMessageService(db).ListForAccount(ctx, identity)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"admin":    account,
		"packages": packages,
		"bookings": bookings,
		"messages": messages,
		"contacts": services.BuildContacts(identity, bookings),
		"stats":    bookingStats(bookings),
	})
}

func bookingStats(bookings []models.Booking) DashboardStats {
	stats := DashboardStats{TotalBookings: len(bookings)}
	for _, b := range bookings {
		switch b.Status {
		case models.BookingPending:
			stats.PendingBookings++
		case models.BookingConfirmed:
			stats.ConfirmedBookings++
		}
	}
	return stats
}
