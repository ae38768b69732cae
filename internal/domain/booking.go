package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// IsValid returns true for known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// IsTerminal returns true for statuses that admit no further transitions
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// allowedTransitions pending → confirmed → {completed, cancelled, no_show}; pending may be cancelled
var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

// Booking represents a table reservation
type Booking struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	RestaurantID    uuid.UUID
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	PartySize       int
	Status          BookingStatus

	// Denormalized data for history
	RestaurantName string
	Notes          *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies capacity
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed || b.Status == StatusCompleted
}

// CanTransitionTo returns true if moving to next is a legal lifecycle step
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range allowedTransitions[b.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.CanTransitionTo(StatusCancelled)
}

// IsUpcoming returns true if the booking is pending or confirmed
func (b *Booking) IsUpcoming() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// EndTime returns the end of the reservation window
func (b *Booking) EndTime() (types.TimeString, error) {
	return b.StartTime.AddMinutes(b.DurationMinutes)
}

// RestaurantBookingsFilter фильтр для получения бронирований ресторана
type RestaurantBookingsFilter struct {
	RestaurantID    uuid.UUID      // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые и no-show
}

// IsSingleDay returns true if the filter selects exactly one date
func (f RestaurantBookingsFilter) IsSingleDay() bool {
	return f.StartDate != nil && f.EndDate != nil && f.StartDate.Equal(*f.EndDate)
}

// BookingsSummary aggregated counters shown on the user profile
type BookingsSummary struct {
	Total     int
	Upcoming  int
	Completed int
	Cancelled int
	NoShow    int
}

// Summarize counts bookings per lifecycle group
func Summarize(bookings []*Booking) BookingsSummary {
	s := BookingsSummary{Total: len(bookings)}
	for _, b := range bookings {
		switch b.Status {
		case StatusPending, StatusConfirmed:
			s.Upcoming++
		case StatusCompleted:
			s.Completed++
		case StatusCancelled:
			s.Cancelled++
		case StatusNoShow:
			s.NoShow++
		}
	}
	return s
}
