package create_appointment

import (
	"time"

	"github.com/carosellagiuliano-max/salon-booking-service/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	CustomerID int64            // ID клиента
	SalonID    int64            // ID салона
	StaffID    int64            // ID мастера
	ServiceIDs []int64          // Цепочка услуг (минимум одна)
	Date       time.Time        // Дата записи (без времени)
	StartTime  types.TimeString // Время начала (например, "10:00")
	Notes      *string          // Дополнительные заметки (опционально)
	Hold       bool             // true = предварительная бронь (статус pending вместо confirmed)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64            // ID созданной записи
	CustomerID      int64            // ID клиента
	SalonID         int64            // ID салона
	StaffID         int64            // ID мастера
	Date            time.Time        // Дата записи
	StartTime       types.TimeString // Время начала
	EndTime         types.TimeString // Время окончания
	DurationMinutes int              // Суммарная длительность в минутах
	Status          string           // Статус записи

	// Денормализованные данные
	ServiceIDs   []int64  // Услуги цепочки
	ServiceNames []string // Названия услуг
	TotalPrice   float64  // Суммарная цена
	Notes        *string  // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
