// Package availability computes bookable time slots of a restaurant for a date and party size.
//
// Everything here is a pure function of its arguments: the current time is passed in
// through Options, so repeated calls with the same input return the same slots in the same order.
package availability

import (
	"fmt"
	"slices"
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

// Options parameters of the slot grid
type Options struct {
	SlotDurationMinutes     int       // step of the grid, domain.DefaultSlotDurationMinutes if 0
	BookingDurationMinutes  int       // used for bookings stored without a duration
	MinBookingNoticeMinutes int       // slots starting earlier than Now+notice are dropped, on any date
	Now                     time.Time // zero disables past-date and notice checks
}

// OptionsFromConfig builds Options from a restaurant slots configuration
func OptionsFromConfig(cfg *domain.RestaurantSlotsConfig, now time.Time) Options {
	return Options{
		SlotDurationMinutes:     cfg.SlotDurationMinutes,
		BookingDurationMinutes:  cfg.BookingDurationMinutes,
		MinBookingNoticeMinutes: cfg.MinBookingNoticeMinutes,
		Now:                     now,
	}
}

func (o Options) slotDuration() int {
	if o.SlotDurationMinutes > 0 {
		return o.SlotDurationMinutes
	}
	return domain.DefaultSlotDurationMinutes
}

func (o Options) bookingDuration() int {
	if o.BookingDurationMinutes > 0 {
		return o.BookingDurationMinutes
	}
	return o.slotDuration()
}

// ComputeAvailableSlots returns the slots where a party of partySize can still be seated,
// in chronological order.
//
// A slot is available when the party fits the whole booking window starting there
// (see FitsWindow), so the list matches what a booking request accepts.
// Closed days and parties above the restaurant limit yield an empty (non-nil) slice;
// a date before today fails with ErrDateInPast.
func ComputeAvailableSlots(
	restaurant *domain.Restaurant,
	bookings []*domain.Booking,
	date time.Time,
	partySize int,
	opts Options,
) ([]domain.TimeSlot, error) {
	if partySize < domain.MinPartySize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPartySize, partySize)
	}

	grid, err := ComputeSlots(restaurant, bookings, date, opts)
	if err != nil {
		return nil, err
	}

	if partySize > restaurant.PartySizeLimit() {
		return []domain.TimeSlot{}, nil
	}

	bookingDuration := opts.bookingDuration()
	available := make([]domain.TimeSlot, 0, len(grid))
	for _, slot := range grid {
		if FitsWindow(grid, slot.StartTime, bookingDuration, partySize) {
			available = append(available, slot)
		}
	}

	return available, nil
}

// ComputeSlots returns the full slot grid of the date with committed covers filled in,
// regardless of party size. Slots starting before Now plus the notice period are excluded.
func ComputeSlots(
	restaurant *domain.Restaurant,
	bookings []*domain.Booking,
	date time.Time,
	opts Options,
) ([]domain.TimeSlot, error) {
	if restaurant == nil {
		return nil, ErrNilRestaurant
	}
	if date.IsZero() {
		return nil, ErrInvalidDate
	}
	if opts.SlotDurationMinutes < 0 || opts.BookingDurationMinutes < 0 {
		return nil, ErrInvalidDuration
	}
	if !opts.Now.IsZero() && IsDateInPast(date, opts.Now) {
		return nil, ErrDateInPast
	}

	starts, err := slotStarts(restaurant.WorkingHours.ForDay(date), opts.slotDuration())
	if err != nil {
		return nil, err
	}

	if !opts.Now.IsZero() {
		starts = dropBeforeNotice(date, starts, opts.Now, opts.MinBookingNoticeMinutes)
	}

	capacity := restaurant.Capacity()
	slots := make([]domain.TimeSlot, len(starts))
	for i, start := range starts {
		slots[i] = domain.TimeSlot{
			Date:            dateOnly(date),
			StartTime:       start,
			DurationMinutes: opts.slotDuration(),
			CommittedCovers: CommittedCovers(start, opts.slotDuration(), bookings, opts.bookingDuration()),
			Capacity:        capacity,
		}
	}

	return slots, nil
}

// slotStarts генерирует сетку слотов по всем окнам обслуживания дня.
// Слот попадает в сетку, если он целиком помещается в окно.
func slotStarts(day domain.DaySchedule, slotDuration int) ([]types.TimeString, error) {
	if !day.IsOpen || len(day.Windows) == 0 {
		return []types.TimeString{}, nil
	}

	seen := make(map[int]struct{})
	minutes := make([]int, 0)

	for _, window := range day.Windows {
		if !window.IsValid() {
			return nil, fmt.Errorf("%w: %s-%s", ErrInvalidSchedule, window.Open, window.Close)
		}

		closeAt := window.Close.Minutes()
		for start := window.Open.Minutes(); start+slotDuration <= closeAt; start += slotDuration {
			if _, ok := seen[start]; ok {
				continue
			}
			seen[start] = struct{}{}
			minutes = append(minutes, start)
		}
	}

	slices.Sort(minutes)

	starts := make([]types.TimeString, 0, len(minutes))
	for _, m := range minutes {
		ts, err := types.NewTimeStringFromMinutes(m)
		if err != nil {
			return nil, err
		}
		starts = append(starts, ts)
	}

	return starts, nil
}

// dropBeforeNotice оставляет только слоты, начинающиеся не раньше now + notice.
// Сравнивается абсолютное время, поэтому notice больше суток отсекает слоты следующих дней.
func dropBeforeNotice(date time.Time, starts []types.TimeString, now time.Time, noticeMinutes int) []types.TimeString {
	earliest := now.Add(time.Duration(noticeMinutes) * time.Minute)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())

	result := make([]types.TimeString, 0, len(starts))
	for _, start := range starts {
		if !start.On(day).Before(earliest) {
			result = append(result, start)
		}
	}
	return result
}

// CommittedCovers sums party sizes of active bookings overlapping [slotStart, slotStart+slotDuration).
// Touching intervals do not overlap: a booking ending at 18:00 does not occupy the 18:00 slot.
// Bookings without a duration are assumed to last defaultBookingDuration minutes.
func CommittedCovers(slotStart types.TimeString, slotDuration int, bookings []*domain.Booking, defaultBookingDuration int) int {
	slotBegin := slotStart.Minutes()
	if slotBegin < 0 {
		return 0
	}
	slotEnd := slotBegin + slotDuration

	covers := 0
	for _, booking := range bookings {
		if booking == nil || !booking.IsActive() {
			continue
		}

		bookingBegin := booking.StartTime.Minutes()
		if bookingBegin < 0 {
			continue
		}
		duration := booking.DurationMinutes
		if duration <= 0 {
			duration = defaultBookingDuration
		}
		bookingEnd := bookingBegin + duration

		if bookingBegin < slotEnd && bookingEnd > slotBegin {
			covers += booking.PartySize
		}
	}

	return covers
}

// FitsWindow reports whether a party can be seated for the whole reservation window
// [start, start+durationMinutes).
//
// The window must be covered by back-to-back slots of the grid starting at start, so it
// can neither run past the close of a service window nor span a gap between two windows.
// Every slot overlapping the window must have room for the party.
func FitsWindow(slots []domain.TimeSlot, start types.TimeString, durationMinutes, partySize int) bool {
	if !CoversWindow(slots, start, durationMinutes) {
		return false
	}

	begin := start.Minutes()
	end := begin + durationMinutes
	for _, slot := range slots {
		slotBegin := slot.StartTime.Minutes()
		slotEnd := slotBegin + slot.DurationMinutes
		if slotBegin < end && slotEnd > begin && !slot.Fits(partySize) {
			return false
		}
	}
	return true
}

// CoversWindow reports whether [start, start+durationMinutes) is covered by back-to-back
// slots of the grid, ignoring covers.
func CoversWindow(slots []domain.TimeSlot, start types.TimeString, durationMinutes int) bool {
	begin := start.Minutes()
	if begin < 0 || durationMinutes <= 0 {
		return false
	}
	end := begin + durationMinutes

	byStart := make(map[int]int, len(slots))
	for _, slot := range slots {
		byStart[slot.StartTime.Minutes()] = slot.DurationMinutes
	}

	for cursor := begin; cursor < end; {
		duration, ok := byStart[cursor]
		if !ok || duration <= 0 {
			return false
		}
		cursor += duration
	}
	return true
}

// FindSlot returns the slot of the grid starting at start
func FindSlot(slots []domain.TimeSlot, start types.TimeString) (domain.TimeSlot, bool) {
	for _, slot := range slots {
		if slot.StartTime == start {
			return slot, true
		}
	}
	return domain.TimeSlot{}, false
}

// IsDateInPast проверяет, что дата раньше сегодняшнего дня
func IsDateInPast(date, now time.Time) bool {
	y1, m1, d1 := date.Date()
	y2, m2, d2 := now.Date()
	return time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC).Before(time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC))
}

func dateOnly(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}
