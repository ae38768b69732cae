package restaurantservice

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

// Restaurant строка таблицы restaurants управляемого бэкенда
type Restaurant struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Location     string       `json:"location"`
	Address      string       `json:"address"`
	Phone        string       `json:"phone"`
	Email        string       `json:"email"`
	Cuisine      []string     `json:"cuisine"`
	Rating       float64      `json:"rating"`
	PriceTier    int          `json:"price_tier"`
	MaxPartySize int          `json:"max_party_size"`
	Tables       []Table      `json:"tables"`
	OpeningHours OpeningHours `json:"opening_hours"`
	ManagerIDs   []string     `json:"manager_ids"`
	Images       []string     `json:"images"`
	CreatedAt    *time.Time   `json:"created_at,omitempty"`
}

// Table группа одинаковых столов
type Table struct {
	Seats int `json:"seats"`
	Count int `json:"count"`
}

// Window окно обслуживания "HH:MM"-"HH:MM"
type Window struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// Day расписание на день недели
type Day struct {
	IsOpen  bool     `json:"is_open"`
	Windows []Window `json:"windows"`
}

// OpeningHours расписание на неделю
type OpeningHours struct {
	Monday    Day `json:"monday"`
	Tuesday   Day `json:"tuesday"`
	Wednesday Day `json:"wednesday"`
	Thursday  Day `json:"thursday"`
	Friday    Day `json:"friday"`
	Saturday  Day `json:"saturday"`
	Sunday    Day `json:"sunday"`
}

// Review строка таблицы reviews управляемого бэкенда
type Review struct {
	ID           string     `json:"id,omitempty"`
	RestaurantID string     `json:"restaurant_id"`
	UserID       string     `json:"user_id"`
	AuthorName   string     `json:"author_name"`
	Rating       int        `json:"rating"`
	Comment      string     `json:"comment"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

// ErrorResponse модель ошибки REST-шлюза
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ToDomain проверяет ответ и преобразует его в доменную модель
func (r *Restaurant) ToDomain() (*domain.Restaurant, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid restaurant id %q", ErrInvalidResponse, r.ID)
	}
	if strings.TrimSpace(r.Name) == "" {
		return nil, fmt.Errorf("%w: restaurant %s has empty name", ErrInvalidResponse, r.ID)
	}
	if r.PriceTier != 0 && (r.PriceTier < domain.MinPriceTier || r.PriceTier > domain.MaxPriceTier) {
		return nil, fmt.Errorf("%w: restaurant %s has price tier %d", ErrInvalidResponse, r.ID, r.PriceTier)
	}
	if r.Rating < 0 || r.Rating > 5 {
		return nil, fmt.Errorf("%w: restaurant %s has rating %.2f", ErrInvalidResponse, r.ID, r.Rating)
	}
	if r.MaxPartySize < 0 {
		return nil, fmt.Errorf("%w: restaurant %s has negative max party size", ErrInvalidResponse, r.ID)
	}

	tables := make([]domain.TableBucket, 0, len(r.Tables))
	for _, t := range r.Tables {
		if t.Seats < 0 || t.Count < 0 {
			return nil, fmt.Errorf("%w: restaurant %s has negative table bucket", ErrInvalidResponse, r.ID)
		}
		tables = append(tables, domain.TableBucket{Seats: t.Seats, Count: t.Count})
	}

	hours, err := r.OpeningHours.toDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: restaurant %s: %v", ErrInvalidResponse, r.ID, err)
	}

	managers := make([]uuid.UUID, 0, len(r.ManagerIDs))
	for _, raw := range r.ManagerIDs {
		managerID, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: restaurant %s has invalid manager id %q", ErrInvalidResponse, r.ID, raw)
		}
		managers = append(managers, managerID)
	}

	restaurant := &domain.Restaurant{
		ID:           id,
		Name:         r.Name,
		Description:  r.Description,
		Location:     r.Location,
		Address:      r.Address,
		Phone:        r.Phone,
		Email:        r.Email,
		Cuisine:      append([]string(nil), r.Cuisine...),
		Rating:       r.Rating,
		PriceTier:    r.PriceTier,
		MaxPartySize: r.MaxPartySize,
		Tables:       tables,
		WorkingHours: hours,
		ManagerIDs:   managers,
		Images:       append([]string(nil), r.Images...),
	}
	if r.CreatedAt != nil {
		restaurant.CreatedAt = *r.CreatedAt
	}

	return restaurant, nil
}

func (h OpeningHours) toDomain() (domain.WeeklySchedule, error) {
	var (
		week domain.WeeklySchedule
		err  error
	)
	days := []struct {
		name string
		src  Day
		dst  *domain.DaySchedule
	}{
		{"monday", h.Monday, &week.Monday},
		{"tuesday", h.Tuesday, &week.Tuesday},
		{"wednesday", h.Wednesday, &week.Wednesday},
		{"thursday", h.Thursday, &week.Thursday},
		{"friday", h.Friday, &week.Friday},
		{"saturday", h.Saturday, &week.Saturday},
		{"sunday", h.Sunday, &week.Sunday},
	}
	for _, d := range days {
		*d.dst, err = d.src.toDomain()
		if err != nil {
			return domain.WeeklySchedule{}, fmt.Errorf("%s: %v", d.name, err)
		}
	}
	return week, nil
}

func (d Day) toDomain() (domain.DaySchedule, error) {
	day := domain.DaySchedule{IsOpen: d.IsOpen, Windows: make([]domain.ServiceWindow, 0, len(d.Windows))}
	for _, w := range d.Windows {
		open, err := types.NewTimeStringFromString(w.Open)
		if err != nil {
			return domain.DaySchedule{}, err
		}
		closeAt, err := types.NewTimeStringFromString(w.Close)
		if err != nil {
			return domain.DaySchedule{}, err
		}
		window := domain.ServiceWindow{Open: open, Close: closeAt}
		if !window.IsValid() {
			return domain.DaySchedule{}, fmt.Errorf("window %s-%s closes before it opens", open, closeAt)
		}
		day.Windows = append(day.Windows, window)
	}
	return day, nil
}

// FromDomain преобразует доменную модель в формат REST-шлюза
func FromDomain(r *domain.Restaurant) *Restaurant {
	tables := make([]Table, len(r.Tables))
	for i, t := range r.Tables {
		tables[i] = Table{Seats: t.Seats, Count: t.Count}
	}
	managers := make([]string, len(r.ManagerIDs))
	for i, id := range r.ManagerIDs {
		managers[i] = id.String()
	}

	dto := &Restaurant{
		ID:           r.ID.String(),
		Name:         r.Name,
		Description:  r.Description,
		Location:     r.Location,
		Address:      r.Address,
		Phone:        r.Phone,
		Email:        r.Email,
		Cuisine:      r.Cuisine,
		Rating:       r.Rating,
		PriceTier:    r.PriceTier,
		MaxPartySize: r.MaxPartySize,
		Tables:       tables,
		OpeningHours: OpeningHours{
			Monday:    dayFromDomain(r.WorkingHours.Monday),
			Tuesday:   dayFromDomain(r.WorkingHours.Tuesday),
			Wednesday: dayFromDomain(r.WorkingHours.Wednesday),
			Thursday:  dayFromDomain(r.WorkingHours.Thursday),
			Friday:    dayFromDomain(r.WorkingHours.Friday),
			Saturday:  dayFromDomain(r.WorkingHours.Saturday),
			Sunday:    dayFromDomain(r.WorkingHours.Sunday),
		},
		ManagerIDs: managers,
		Images:     r.Images,
	}
	if !r.CreatedAt.IsZero() {
		createdAt := r.CreatedAt
		dto.CreatedAt = &createdAt
	}
	return dto
}

func dayFromDomain(d domain.DaySchedule) Day {
	windows := make([]Window, len(d.Windows))
	for i, w := range d.Windows {
		windows[i] = Window{Open: w.Open.String(), Close: w.Close.String()}
	}
	return Day{IsOpen: d.IsOpen, Windows: windows}
}

// ToDomain проверяет строку отзыва и преобразует её в доменную модель
func (r *Review) ToDomain() (*domain.Review, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid review id %q", ErrInvalidResponse, r.ID)
	}
	restaurantID, err := uuid.Parse(r.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("%w: review %s has invalid restaurant id %q", ErrInvalidResponse, r.ID, r.RestaurantID)
	}
	userID, err := uuid.Parse(r.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: review %s has invalid user id %q", ErrInvalidResponse, r.ID, r.UserID)
	}
	if r.Rating < domain.MinReviewRating || r.Rating > domain.MaxReviewRating {
		return nil, fmt.Errorf("%w: review %s has rating %d", ErrInvalidResponse, r.ID, r.Rating)
	}

	review := &domain.Review{
		ID:           id,
		RestaurantID: restaurantID,
		UserID:       userID,
		AuthorName:   r.AuthorName,
		Rating:       r.Rating,
		Comment:      r.Comment,
	}
	if r.CreatedAt != nil {
		review.CreatedAt = *r.CreatedAt
	}
	return review, nil
}

// ReviewFromDomain преобразует отзыв в строку для вставки; пустой ID назначает бэкенд
func ReviewFromDomain(r *domain.Review) *Review {
	dto := &Review{
		RestaurantID: r.RestaurantID.String(),
		UserID:       r.UserID.String(),
		AuthorName:   r.AuthorName,
		Rating:       r.Rating,
		Comment:      r.Comment,
	}
	if r.ID != uuid.Nil {
		dto.ID = r.ID.String()
	}
	if !r.CreatedAt.IsZero() {
		createdAt := r.CreatedAt
		dto.CreatedAt = &createdAt
	}
	return dto
}
