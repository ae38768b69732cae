package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBooking_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusNoShow, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusNoShow, StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			b := &Booking{Status: tt.from}
			assert.Equal(t, tt.want, b.CanTransitionTo(tt.to))
		})
	}
}

func TestBooking_IsActive(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusConfirmed}).IsActive())
	assert.True(t, (&Booking{Status: StatusPending}).IsActive())
	assert.False(t, (&Booking{Status: StatusCancelled}).IsActive())
	assert.False(t, (&Booking{Status: StatusNoShow}).IsActive())
}

func TestSummarize(t *testing.T) {
	bookings := []*Booking{
		{Status: StatusConfirmed},
		{Status: StatusPending},
		{Status: StatusCompleted},
		{Status: StatusCancelled},
		{Status: StatusCancelled},
		{Status: StatusNoShow},
	}

	s := Summarize(bookings)
	assert.Equal(t, BookingsSummary{Total: 6, Upcoming: 2, Completed: 1, Cancelled: 2, NoShow: 1}, s)
}

func TestRestaurant_Capacity(t *testing.T) {
	r := &Restaurant{Tables: []TableBucket{{Seats: 2, Count: 3}, {Seats: 4, Count: 1}, {Seats: 6, Count: 0}}}
	assert.Equal(t, 10, r.Capacity())
	assert.Equal(t, DefaultMaxPartySize, r.PartySizeLimit())

	r.MaxPartySize = 8
	assert.Equal(t, 8, r.PartySizeLimit())
}
