package domain

import "time"

// SalonBookingConfig represents the booking parameters of a salon:
// slot grid granularity, same-day lead time, how far ahead customers
// may book and the salon's local timezone.
type SalonBookingConfig struct {
	ID                     int64
	SalonID                int64
	SlotGranularityMinutes int
	MinLeadTimeMinutes     int
	AdvanceBookingDays     int // 0 = без ограничения
	Timezone               string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// HasAdvanceBookingLimit returns true if there is a limit on how far in advance bookings can be made
func (c *SalonBookingConfig) HasAdvanceBookingLimit() bool {
	return c.AdvanceBookingDays > 0
}

// Location возвращает таймзону салона
// Некорректное значение деградирует до зоны по умолчанию, а не до ошибки
func (c *SalonBookingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		loc, err = time.LoadLocation(DefaultTimezone)
		if err != nil {
			return time.UTC
		}
	}
	return loc
}

// DefaultBookingConfig возвращает конфигурацию по умолчанию для салона
func DefaultBookingConfig(salonID int64) *SalonBookingConfig {
	return &SalonBookingConfig{
		SalonID:                salonID,
		SlotGranularityMinutes: DefaultSlotGranularityMinutes,
		MinLeadTimeMinutes:     DefaultMinLeadTimeMinutes,
		AdvanceBookingDays:     DefaultAdvanceBookingDays,
		Timezone:               DefaultTimezone,
	}
}
