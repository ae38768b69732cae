package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

// ServiceWindow is a continuous period of service within a day (e.g. lunch 12:00-14:30)
type ServiceWindow struct {
	Open  types.TimeString
	Close types.TimeString
}

// IsValid returns true if both bounds parse and Open is strictly before Close
func (w ServiceWindow) IsValid() bool {
	return w.Open.Validate() == nil && w.Close.Validate() == nil && w.Open.IsBefore(w.Close)
}

// DaySchedule describes a restaurant's service on one weekday
type DaySchedule struct {
	IsOpen  bool
	Windows []ServiceWindow
}

// WeeklySchedule holds a DaySchedule per weekday
type WeeklySchedule struct {
	Monday    DaySchedule
	Tuesday   DaySchedule
	Wednesday DaySchedule
	Thursday  DaySchedule
	Friday    DaySchedule
	Saturday  DaySchedule
	Sunday    DaySchedule
}

// ForDay returns the schedule for the weekday of date
func (w WeeklySchedule) ForDay(date time.Time) DaySchedule {
	switch date.Weekday() {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return DaySchedule{IsOpen: false}
	}
}

// TableBucket is a group of identical tables (e.g. 4 tables of 2 seats)
type TableBucket struct {
	Seats int
	Count int
}

// Restaurant is reference data owned by the managed backend
type Restaurant struct {
	ID           uuid.UUID
	Name         string
	Description  string
	Location     string
	Address      string
	Phone        string
	Email        string
	Cuisine      []string
	Rating       float64
	PriceTier    int // 1..4 ($..$$$$)
	MaxPartySize int // 0 = DefaultMaxPartySize
	Tables       []TableBucket
	WorkingHours WeeklySchedule
	ManagerIDs   []uuid.UUID
	Images       []string
	CreatedAt    time.Time
}

// Capacity returns the number of covers the restaurant seats concurrently
func (r *Restaurant) Capacity() int {
	total := 0
	for _, t := range r.Tables {
		if t.Seats > 0 && t.Count > 0 {
			total += t.Seats * t.Count
		}
	}
	return total
}

// PartySizeLimit returns the maximum party size accepted for a single booking
func (r *Restaurant) PartySizeLimit() int {
	if r.MaxPartySize > 0 {
		return r.MaxPartySize
	}
	return DefaultMaxPartySize
}

// IsManager returns true if userID manages the restaurant
func (r *Restaurant) IsManager(userID uuid.UUID) bool {
	for _, id := range r.ManagerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// HasCuisine reports whether the restaurant is tagged with cuisine (case-sensitive)
func (r *Restaurant) HasCuisine(cuisine string) bool {
	for _, c := range r.Cuisine {
		if c == cuisine {
			return true
		}
	}
	return false
}

// RestaurantFilter search predicates passed to the managed backend
type RestaurantFilter struct {
	Query      string      // substring of name or location
	Cuisine    string      // exact cuisine tag
	PriceTiers []int       // set membership
	IDs        []uuid.UUID // set membership
	Limit      int
}
