package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// DefaultPartySize размер компании для поиска с датой, если он не указан
const DefaultPartySize = 2

// Request модели

// SearchRequest запрос на поиск ресторанов
type SearchRequest struct {
	Query         string     `json:"query,omitempty"`   // подстрока названия или района
	Cuisine       string     `json:"cuisine,omitempty"` // тег кухни
	PriceTiers    []int      `json:"priceTiers,omitempty"`
	Date          *time.Time `json:"date,omitempty"`      // если указана, к ресторанам прикладываются свободные слоты
	PartySize     int        `json:"partySize,omitempty"` // 0 = DefaultPartySize
	OnlyAvailable bool       `json:"onlyAvailable,omitempty"`
	Limit         int        `json:"limit,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *SearchRequest) ToDomainFilter() domain.RestaurantFilter {
	return domain.RestaurantFilter{
		Query:      r.Query,
		Cuisine:    r.Cuisine,
		PriceTiers: r.PriceTiers,
		Limit:      r.Limit,
	}
}

// EffectivePartySize возвращает размер компании с учётом значения по умолчанию
func (r *SearchRequest) EffectivePartySize() int {
	if r.PartySize > 0 {
		return r.PartySize
	}
	return DefaultPartySize
}

// DeleteRequest запрос на удаление ресторана
type DeleteRequest struct {
	UserID       uuid.UUID `json:"userId"`
	RestaurantID uuid.UUID `json:"restaurantId"`
}

// Response модели

// WindowResponse окно обслуживания
type WindowResponse struct {
	Open  string `json:"open"`  // "12:00"
	Close string `json:"close"` // "15:00"
}

// DayResponse расписание на день недели
type DayResponse struct {
	IsOpen  bool             `json:"isOpen"`
	Windows []WindowResponse `json:"windows"`
}

// TableResponse группа одинаковых столов
type TableResponse struct {
	Seats int `json:"seats"`
	Count int `json:"count"`
}

// RestaurantResponse ответ с данными ресторана
type RestaurantResponse struct {
	ID           uuid.UUID              `json:"id"`
	Name         string                 `json:"name"`
	Description  string                 `json:"description,omitempty"`
	Location     string                 `json:"location"`
	Address      string                 `json:"address"`
	Phone        string                 `json:"phone,omitempty"`
	Email        string                 `json:"email,omitempty"`
	Cuisine      []string               `json:"cuisine"`
	Rating       float64                `json:"rating"`
	PriceTier    int                    `json:"priceTier"`
	MaxPartySize int                    `json:"maxPartySize"`
	Capacity     int                    `json:"capacity"`
	Tables       []TableResponse        `json:"tables"`
	OpeningHours map[string]DayResponse `json:"openingHours"` // ключ - день недели ("monday")
	Images       []string               `json:"images,omitempty"`

	// Заполняется только при поиске с датой
	AvailableTimes []string `json:"availableTimes,omitempty"`
}

// RestaurantListResponse ответ со списком ресторанов
type RestaurantListResponse struct {
	Restaurants []RestaurantResponse `json:"restaurants"`
}

// Методы конвертации

// FromDomainRestaurant конвертирует domain модель в DTO
func FromDomainRestaurant(r *domain.Restaurant) *RestaurantResponse {
	if r == nil {
		return nil
	}

	resp := &RestaurantResponse{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Location:     r.Location,
		Address:      r.Address,
		Phone:        r.Phone,
		Email:        r.Email,
		Cuisine:      r.Cuisine,
		Rating:       r.Rating,
		PriceTier:    r.PriceTier,
		MaxPartySize: r.PartySizeLimit(),
		Capacity:     r.Capacity(),
		Tables:       make([]TableResponse, 0, len(r.Tables)),
		OpeningHours: fromDomainSchedule(r.WorkingHours),
		Images:       r.Images,
	}
	if resp.Cuisine == nil {
		resp.Cuisine = []string{}
	}
	for _, t := range r.Tables {
		resp.Tables = append(resp.Tables, TableResponse{Seats: t.Seats, Count: t.Count})
	}

	return resp
}

func fromDomainSchedule(w domain.WeeklySchedule) map[string]DayResponse {
	return map[string]DayResponse{
		"monday":    fromDomainDay(w.Monday),
		"tuesday":   fromDomainDay(w.Tuesday),
		"wednesday": fromDomainDay(w.Wednesday),
		"thursday":  fromDomainDay(w.Thursday),
		"friday":    fromDomainDay(w.Friday),
		"saturday":  fromDomainDay(w.Saturday),
		"sunday":    fromDomainDay(w.Sunday),
	}
}

func fromDomainDay(d domain.DaySchedule) DayResponse {
	day := DayResponse{IsOpen: d.IsOpen, Windows: make([]WindowResponse, 0, len(d.Windows))}
	for _, w := range d.Windows {
		day.Windows = append(day.Windows, WindowResponse{Open: w.Open.String(), Close: w.Close.String()})
	}
	return day
}
