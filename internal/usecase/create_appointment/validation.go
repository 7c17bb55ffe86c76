package create_appointment

import (
	"fmt"
	"time"

	"github.com/carosellagiuliano-max/salon-booking-service/internal/domain"
	"github.com/carosellagiuliano-max/salon-booking-service/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.SalonID <= 0 {
		return fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}

	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one serviceID is required", ErrInvalidInput)
	}

	if len(req.ServiceIDs) > domain.MaxServicesPerAppointment {
		return fmt.Errorf("%w: at most %d services per appointment", ErrInvalidInput, domain.MaxServicesPerAppointment)
	}

	for _, serviceID := range req.ServiceIDs {
		if serviceID <= 0 {
			return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
		}
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата подходит для записи
func validateDate(requestDate time.Time, now time.Time, loc *time.Location, advanceBookingDays int) error {
	// Проверяем, что дата не в прошлом
	if isDateInPast(requestDate, now, loc) {
		return ErrInvalidDate
	}

	// Если advanceBookingDays = 0, нет ограничений на дату
	if advanceBookingDays == 0 {
		return nil
	}

	// Проверяем, что дата не превышает ограничение advanceBookingDays
	localNow := now.In(loc)
	maxDate := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, loc).
		AddDate(0, 0, advanceBookingDays)

	requestDateOnly := time.Date(requestDate.Year(), requestDate.Month(), requestDate.Day(), 0, 0, 0, 0, loc)

	if requestDateOnly.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}

// validateLeadTime проверяет, что запись не нарушает minLeadTimeMinutes
func validateLeadTime(
	date time.Time,
	startTime types.TimeString,
	now time.Time,
	loc *time.Location,
	minLeadTimeMinutes int,
) error {
	localNow := now.In(loc)

	// Если дата записи не сегодня, проверка не нужна
	if !isSameDay(date, localNow) {
		return nil
	}

	startMin, err := startTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: failed to parse start time: %v", ErrInternal, err)
	}

	minAllowed := localNow.Hour()*60 + localNow.Minute() + minLeadTimeMinutes
	if startMin < minAllowed {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, minLeadTimeMinutes)
	}

	return nil
}

// validateWithinWindow проверяет, что запрошенный интервал целиком помещается
// в рабочее окно (пересечение часов салона и графика мастера)
func validateWithinWindow(requested, window domain.Interval) error {
	if window.IsEmpty() || !window.Contains(requested) {
		return ErrOutsideWorkingHours
	}
	return nil
}

// collectBusyIntervals собирает занятые интервалы мастера на дату:
// отсутствия, блокировки и активные записи
func collectBusyIntervals(
	staffID int64,
	date time.Time,
	loc *time.Location,
	absences []domain.StaffAbsence,
	blocked []domain.BlockedTime,
	appointments []*domain.Appointment,
) []domain.Interval {
	busy := make([]domain.Interval, 0, len(absences)+len(blocked)+len(appointments))

	for _, absence := range absences {
		if absence.StaffID != staffID {
			continue
		}
		if iv, ok := absence.ClipToDay(date, loc); ok {
			busy = append(busy, iv)
		}
	}

	for _, block := range blocked {
		if !block.AppliesToStaff(staffID) {
			continue
		}
		if iv, ok := block.ClipToDay(date, loc); ok {
			busy = append(busy, iv)
		}
	}

	for _, appt := range appointments {
		if appt.StaffID != staffID || !appt.IsActive() {
			continue
		}
		iv, err := appt.Interval()
		if err != nil {
			continue
		}
		busy = append(busy, iv)
	}

	return busy
}

// hasConflict проверяет пересечение запрошенного интервала с занятыми
// (полуоткрытые интервалы: совпадение границ конфликтом не считается)
func hasConflict(requested domain.Interval, busy []domain.Interval) bool {
	for _, iv := range busy {
		if requested.Overlaps(iv) {
			return true
		}
	}
	return false
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня в зоне салона)
func isDateInPast(date time.Time, now time.Time, loc *time.Location) bool {
	localNow := now.In(loc)
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	nowOnly := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, loc)
	return dateOnly.Before(nowOnly)
}
