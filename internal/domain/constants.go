package domain

// Default configuration values
const (
	DefaultSlotDurationMinutes     = 30
	DefaultBookingDurationMinutes  = 30 // equal to the slot: a booking occupies exactly its own slot
	DefaultAdvanceBookingDays      = 0  // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 0
	DefaultMaxPartySize            = 20
)

// Business validation constants
const (
	MinSlotDurationMinutes      = 5
	MaxSlotDurationMinutes      = 240
	MinBookingDurationMinutes   = 5
	MaxBookingDurationMinutes   = 480
	MinAdvanceBookingDays       = 0
	MaxAdvanceBookingDays       = 365
	MinBookingNoticeMinutes     = 0
	MaxBookingNoticeMinutes     = 10080 // 1 week
	MinPartySize                = 1
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MinPriceTier                = 1
	MaxPriceTier                = 4
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses statuses that do not hold capacity
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusNoShow,
}

// ActiveStatuses statuses that hold capacity
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}

// UpcomingStatuses statuses removed together with a restaurant
var UpcomingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
