package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// Request модели

// UpdateConfigRequest запрос на обновление конфигурации слотов
// Все поля опциональны - обновляются только переданные значения
type UpdateConfigRequest struct {
	UserID                  uuid.UUID `json:"userId"`
	SlotDurationMinutes     *int      `json:"slotDurationMinutes,omitempty"`
	BookingDurationMinutes  *int      `json:"bookingDurationMinutes,omitempty"`
	AdvanceBookingDays      *int      `json:"advanceBookingDays,omitempty"`      // 0 = без ограничений
	MinBookingNoticeMinutes *int      `json:"minBookingNoticeMinutes,omitempty"` // Минимальное время до бронирования
}

// IsEmpty возвращает true, если не передано ни одного поля
func (r *UpdateConfigRequest) IsEmpty() bool {
	return r.SlotDurationMinutes == nil && r.BookingDurationMinutes == nil &&
		r.AdvanceBookingDays == nil && r.MinBookingNoticeMinutes == nil
}

// ApplyToConfig применяет обновления к существующей конфигурации
// Обновляются только непустые (not nil) поля из request
func (r *UpdateConfigRequest) ApplyToConfig(config *domain.RestaurantSlotsConfig) {
	if r.SlotDurationMinutes != nil {
		config.SlotDurationMinutes = *r.SlotDurationMinutes
	}
	if r.BookingDurationMinutes != nil {
		config.BookingDurationMinutes = *r.BookingDurationMinutes
	}
	if r.AdvanceBookingDays != nil {
		config.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.MinBookingNoticeMinutes != nil {
		config.MinBookingNoticeMinutes = *r.MinBookingNoticeMinutes
	}
}

// Response модели

// ConfigResponse ответ с данными конфигурации слотов
type ConfigResponse struct {
	RestaurantID            uuid.UUID  `json:"restaurantId"`
	SlotDurationMinutes     int        `json:"slotDurationMinutes"`
	BookingDurationMinutes  int        `json:"bookingDurationMinutes"`
	AdvanceBookingDays      int        `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int        `json:"minBookingNoticeMinutes"`
	IsDefault               bool       `json:"isDefault"` // конфигурация не сохранена, действуют значения по умолчанию
	CreatedAt               *time.Time `json:"createdAt,omitempty"`
	UpdatedAt               *time.Time `json:"updatedAt,omitempty"`
}

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.RestaurantSlotsConfig) *ConfigResponse {
	if c == nil {
		return nil
	}

	resp := &ConfigResponse{
		RestaurantID:            c.RestaurantID,
		SlotDurationMinutes:     c.SlotDurationMinutes,
		BookingDurationMinutes:  c.BookingDurationMinutes,
		AdvanceBookingDays:      c.AdvanceBookingDays,
		MinBookingNoticeMinutes: c.MinBookingNoticeMinutes,
		IsDefault:               !c.IsPersisted(),
	}
	if c.IsPersisted() {
		createdAt, updatedAt := c.CreatedAt, c.UpdatedAt
		resp.CreatedAt = &createdAt
		resp.UpdatedAt = &updatedAt
	}

	return resp
}
