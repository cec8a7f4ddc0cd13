package models_test

import (
	"testing"

	"voyage-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBookingStatus(t *testing.T) {
	cases := []struct {
		in     string
		want   models.BookingStatus
		wantOK bool
	}{
		{"PENDING", models.BookingPending, true},
		{"confirmed", models.BookingConfirmed, true},
		{"  Cancelled ", models.BookingCancelled, true},
		{"completed", models.BookingCompleted, true},
		{"", "", false},
		{"ARCHIVED", "", false},
	}

	for _, tt := range cases {
		t.Run("input "+tt.in, func(t *testing.T) {
			got, ok := models.NormalizeBookingStatus(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanTransitionBooking(t *testing.T) {
	allowed := []struct{ from, to models.BookingStatus }{
		{models.BookingPending, models.BookingConfirmed},
		{models.BookingPending, models.BookingCancelled},
		{models.BookingConfirmed, models.BookingCompleted},
		{models.BookingConfirmed, models.BookingCancelled},
	}
	for _, tr := range allowed {
		assert.True(t, models.CanTransitionBooking(tr.from, tr.to),
			"%s -> %s should be allowed", tr.from, tr.to)
	}

	denied := []struct{ from, to models.BookingStatus }{
		{models.BookingPending, models.BookingCompleted},
		{models.BookingCancelled, models.BookingPending},
		{models.BookingCancelled, models.BookingConfirmed},
		{models.BookingCompleted, models.BookingCancelled},
		{models.BookingConfirmed, models.BookingPending},
	}
	for _, tr := range denied {
		assert.False(t, models.CanTransitionBooking(tr.from, tr.to),
			"%s -> %s should be denied", tr.from, tr.to)
	}
}

func TestMakeBookingReference(t *testing.T) {
	assert.Equal(t, "BK000007", models.MakeBookingReference(7))
	assert.Equal(t, "BK123456", models.MakeBookingReference(123456))
}
