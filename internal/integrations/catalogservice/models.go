package catalogservice

// Service модель услуги из CatalogService
type Service struct {
	ID              int64    `json:"id"`
	SalonID         int64    `json:"salon_id"`
	Name            string   `json:"name"`
	DurationMinutes int      `json:"duration_minutes"`
	BufferMinutes   int      `json:"buffer_minutes"` // Время "простоя" после услуги, недоступное для других записей
	Price           *float64 `json:"price"`
	StaffIDs        []int64  `json:"staff_ids"` // Мастера, способные выполнить услугу
	IsActive        bool     `json:"is_active"`
}

// CanBePerformedBy возвращает true, если мастер умеет выполнять услугу
func (s *Service) CanBePerformedBy(staffID int64) bool {
	for _, id := range s.StaffIDs {
		if id == staffID {
			return true
		}
	}
	return false
}

// EffectiveDurationMinutes длительность услуги вместе с буферным временем
func (s *Service) EffectiveDurationMinutes() int {
	return s.DurationMinutes + s.BufferMinutes
}

// Staff модель мастера из CatalogService
type Staff struct {
	ID       int64  `json:"id"`
	SalonID  int64  `json:"salon_id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// ErrorResponse модель ошибки от CatalogService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
