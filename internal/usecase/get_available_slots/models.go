package get_available_slots

import (
	"time"

	"github.com/carosellagiuliano-max/salon-booking-service/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	SalonID    int64     // ID салона
	ServiceIDs []int64   // Цепочка услуг (минимум одна)
	Date       time.Time // Дата для получения слотов (без времени)
	StaffID    *int64    // Конкретный мастер (опционально, nil = любой подходящий)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date                 time.Time // Дата, на которую запрашивались слоты
	SalonID              int64     // ID салона
	ServiceIDs           []int64   // Запрошенные услуги
	TotalDurationMinutes int       // Суммарная длительность цепочки услуг (с буферами)
	Slots                []Slot    // Список доступных слотов, упорядоченный по (start, staffId)
}

// Slot модель кандидата временного слота для конкретного мастера
type Slot struct {
	StaffID         int64            // Мастер, который выполнит запись
	StartTime       types.TimeString // Время начала (например, "10:00")
	EndTime         types.TimeString // Время окончания
	DurationMinutes int              // Длительность слота в минутах
}
