package availability

import "errors"

var (
	// ErrInvalidPartySize возвращается, когда размер компании меньше одного гостя
	ErrInvalidPartySize = errors.New("availability: party size must be positive")

	// ErrInvalidDate возвращается, когда дата не указана
	ErrInvalidDate = errors.New("availability: date is required")

	// ErrDateInPast возвращается, когда дата раньше сегодняшнего дня
	ErrDateInPast = errors.New("availability: date is in the past")

	// ErrInvalidDuration возвращается при отрицательной длительности слота или брони
	ErrInvalidDuration = errors.New("availability: duration must not be negative")

	// ErrInvalidSchedule возвращается при некорректном окне обслуживания
	ErrInvalidSchedule = errors.New("availability: invalid service window")

	// ErrNilRestaurant возвращается, когда ресторан не передан
	ErrNilRestaurant = errors.New("availability: restaurant is required")
)
