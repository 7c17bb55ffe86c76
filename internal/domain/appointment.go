package domain

import (
	"time"

	"github.com/carosellagiuliano-max/salon-booking-service/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// Appointment represents a booked visit of one customer with one staff
// member. The row is the unit of conflict detection: at most one active
// appointment may occupy any overlapping interval for a staff member.
type Appointment struct {
	ID              int64
	SalonID         int64
	StaffID         int64
	CustomerID      int64
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          AppointmentStatus

	// Цепочка услуг и денормализованные данные для истории
	ServiceIDs   []int64
	ServiceNames []string
	TotalPrice   float64
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still occupies its interval
// for availability purposes. Cancelled and no-show rows are kept for
// history but no longer block the slot.
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled && a.Status != StatusNoShow
}

// IsTerminal returns true if no further status transition is allowed
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled || a.Status == StatusNoShow
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// Interval возвращает занимаемый интервал в минутах с начала суток
func (a *Appointment) Interval() (Interval, error) {
	startMin, err := a.StartTime.Minutes()
	if err != nil {
		return Interval{}, err
	}
	return Interval{StartMin: startMin, EndMin: startMin + a.DurationMinutes}, nil
}

// ValidStatusTransition проверяет переход по графу статусов:
//
//	pending   -> confirmed | cancelled
//	confirmed -> completed | cancelled | no_show
//
// completed, cancelled и no_show - терминальные состояния
func ValidStatusTransition(from, to AppointmentStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCompleted || to == StatusCancelled || to == StatusNoShow
	default:
		return false
	}
}

// SalonAppointmentsFilter фильтр для получения записей салона
type SalonAppointmentsFilter struct {
	SalonID         int64              // Обязательный параметр
	StaffID         *int64             // Фильтр по мастеру (опционально)
	StartDate       *time.Time         // Начало периода (опционально)
	EndDate         *time.Time         // Конец периода (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли отменённые и no-show записи
}
