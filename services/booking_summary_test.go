package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingReference(t *testing.T) {
	assert.Equal(t, "WB-000042", BookingReference(42))
}

func TestBookingService_Summary(t *testing.T) {
	ctx := context.Background()
	w := newMarketplace(t)
	svc := NewBookingService(w.db, nil)

	booking, doc, err := svc.Summary(ctx, identityOf(w.u1), w.b1.ID)
	require.NoError(t, err)
	assert.Equal(t, w.b1.ID, booking.ID)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))

	_, _, err = svc.Summary(ctx, identityOf(w.m1), w.b1.ID)
	require.NoError(t, err, "managing admin can print the summary")

	_, _, err = svc.Summary(ctx, identityOf(w.u2), w.b1.ID)
	requireKind(t, err, KindNotFound)
}
