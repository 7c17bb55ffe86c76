package models

import (
	"time"

	"github.com/carosellagiuliano-max/salon-booking-service/internal/domain"
)

// Request модели

// UpdateConfigRequest запрос на обновление параметров бронирования салона
// Поддерживает частичное обновление - неуказанные поля не меняются
type UpdateConfigRequest struct {
	UserID  int64 `json:"userId"`
	SalonID int64 `json:"salonId"`

	SlotGranularityMinutes *int    `json:"slotGranularityMinutes,omitempty"`
	MinLeadTimeMinutes     *int    `json:"minLeadTimeMinutes,omitempty"`
	AdvanceBookingDays     *int    `json:"advanceBookingDays,omitempty"`
	Timezone               *string `json:"timezone,omitempty"`
}

// ApplyToConfig применяет указанные поля запроса к конфигурации
func (r *UpdateConfigRequest) ApplyToConfig(config *domain.SalonBookingConfig) {
	if r.SlotGranularityMinutes != nil {
		config.SlotGranularityMinutes = *r.SlotGranularityMinutes
	}
	if r.MinLeadTimeMinutes != nil {
		config.MinLeadTimeMinutes = *r.MinLeadTimeMinutes
	}
	if r.AdvanceBookingDays != nil {
		config.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.Timezone != nil {
		config.Timezone = *r.Timezone
	}
}

// Response модели

// ConfigResponse ответ с параметрами бронирования салона
type ConfigResponse struct {
	ID                     int64     `json:"id,omitempty"`
	SalonID                int64     `json:"salonId"`
	SlotGranularityMinutes int       `json:"slotGranularityMinutes"`
	MinLeadTimeMinutes     int       `json:"minLeadTimeMinutes"`
	AdvanceBookingDays     int       `json:"advanceBookingDays"`
	Timezone               string    `json:"timezone"`
	CreatedAt              time.Time `json:"createdAt,omitempty"`
	UpdatedAt              time.Time `json:"updatedAt,omitempty"`
}

// Методы конвертации

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.SalonBookingConfig) *ConfigResponse {
	if c == nil {
		return nil
	}

	return &ConfigResponse{
		ID:                     c.ID,
		SalonID:                c.SalonID,
		SlotGranularityMinutes: c.SlotGranularityMinutes,
		MinLeadTimeMinutes:     c.MinLeadTimeMinutes,
		AdvanceBookingDays:     c.AdvanceBookingDays,
		Timezone:               c.Timezone,
		CreatedAt:              c.CreatedAt,
		UpdatedAt:              c.UpdatedAt,
	}
}
