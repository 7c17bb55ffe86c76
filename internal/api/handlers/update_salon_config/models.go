package update_salon_config

import (
	"github.com/carosellagiuliano-max/salon-booking-service/internal/service/salonconfig/models"
)

// UpdateConfigRequest HTTP request model
// Все поля опциональны - обновляются только указанные
type UpdateConfigRequest struct {
	SlotGranularityMinutes *int    `json:"slotGranularityMinutes,omitempty"`
	MinLeadTimeMinutes     *int    `json:"minLeadTimeMinutes,omitempty"`
	AdvanceBookingDays     *int    `json:"advanceBookingDays,omitempty"`
	Timezone               *string `json:"timezone,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateConfigRequest) ToServiceRequest(salonID, userID int64) *models.UpdateConfigRequest {
	return &models.UpdateConfigRequest{
		UserID:                 userID,
		SalonID:                salonID,
		SlotGranularityMinutes: r.SlotGranularityMinutes,
		MinLeadTimeMinutes:     r.MinLeadTimeMinutes,
		AdvanceBookingDays:     r.AdvanceBookingDays,
		Timezone:               r.Timezone,
	}
}
