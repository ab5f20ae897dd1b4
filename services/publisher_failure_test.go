package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/weddingbook/marketplace-api/models"
)

// flakyPublisher is a testify mock of EventPublisher
type flakyPublisher struct {
	mock.Mock
}

func (p *flakyPublisher) Publish(ctx context.Context, event BookingEvent) error {
	args := p.Called(ctx, event)
	return args.Error(0)
}

func (p *flakyPublisher) Close() error {
	return p.Called().Error(0)
}

func eventOfType(eventType string, bookingID uint) interface{} {
	return mock.MatchedBy(func(e BookingEvent) bool {
		return e.Type == eventType && e.BookingID == bookingID
	})
}

func TestBookingService_BrokerFailureDoesNotFailWorkflow(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel", func(t *testing.T) {
		w := newMarketplace(t)
		publisher := new(flakyPublisher)
		publisher.On("Publish", mock.Anything, eventOfType(EventBookingCancelled, w.b1.ID)).
			Return(errors.New("broker down")).Once()

		booking, err := NewBookingService(w.db, publisher).Cancel(ctx, identityOf(w.u1), w.b1.ID)

		require.NoError(t, err)
		assert.Equal(t, models.BookingCancelled, booking.Status)
		publisher.AssertExpectations(t)
	})

	t.Run("status change with note", func(t *testing.T) {
		w := newMarketplace(t)
		publisher := new(flakyPublisher)
		publisher.On("Publish", mock.Anything, eventOfType(EventBookingStatusChanged, w.b1.ID)).
			Return(errors.New("broker down")).Once()

		result, err := NewBookingService(w.db, publisher).UpdateStatus(ctx, identityOf(w.m1), UpdateStatusInput{
			BookingID: w.b1.ID,
			Status:    models.BookingConfirmed,
			Message:   strPtr("Confirmed for June"),
		})

		require.NoError(t, err)
		require.NotNil(t, result.StatusMessage)

		var stored models.Booking
		require.NoError(t, w.db.First(&stored, w.b1.ID).Error)
		assert.Equal(t, models.BookingConfirmed, stored.Status)
		publisher.AssertExpectations(t)
	})

	t.Run("rejected workflow publishes nothing", func(t *testing.T) {
		w := newMarketplace(t)
		publisher := new(flakyPublisher)

		_, err := NewBookingService(w.db, publisher).Cancel(ctx, identityOf(w.u2), w.b1.ID)

		requireKind(t, err, KindUnauthorized)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}
