package get_available_slots

import (
	"sort"
	"time"

	"github.com/carosellagiuliano-max/salon-booking-service/internal/domain"
	"github.com/carosellagiuliano-max/salon-booking-service/pkg/types"
)

// staffCalendar календарные данные одного мастера на запрошенную дату
type staffCalendar struct {
	staffID      int64
	workingHours *domain.StaffWorkingHours
	absences     []domain.StaffAbsence
	blocked      []domain.BlockedTime
	appointments []*domain.Appointment
}

// computeStaffSlots вычисляет доступные слоты одного мастера
//
// Алгоритм:
//  1. Рабочее окно = пересечение часов салона и графика мастера на день недели
//  2. Из окна вычитаются отсутствия, блокировки и активные записи -
//     получаются непересекающиеся свободные подинтервалы
//  3. Внутри каждого подинтервала кандидаты генерируются с шагом granularity
//     от его начала, пока кандидат целиком помещается в подинтервал
//  4. Кандидаты раньше minStartMin (lead time в день запроса) отбрасываются
//
// Вся арифметика - в целых минутах с начала локальных суток салона.
func computeStaffSlots(
	cal staffCalendar,
	salonWindow domain.Interval,
	date time.Time,
	loc *time.Location,
	durationMinutes int,
	granularityMinutes int,
	minStartMin int,
) []Slot {
	slots := make([]Slot, 0)

	// Мастер без графика на этот день недоступен
	if cal.workingHours == nil {
		return slots
	}

	staffWindow, ok := cal.workingHours.Week.WindowFor(date).Interval()
	if !ok {
		return slots
	}

	window := salonWindow.Intersect(staffWindow)
	if window.IsEmpty() {
		return slots
	}

	busy := collectBusyIntervals(cal, date, loc)
	free := domain.SubtractAll(window, busy)

	for _, sub := range free {
		for start := sub.StartMin; start+durationMinutes <= sub.EndMin; start += granularityMinutes {
			if start < minStartMin {
				continue
			}

			startTime, err := types.FromMinutes(start)
			if err != nil {
				continue
			}
			endTime, err := types.FromMinutes(start + durationMinutes)
			if err != nil {
				continue
			}

			slots = append(slots, Slot{
				StaffID:         cal.staffID,
				StartTime:       startTime,
				EndTime:         endTime,
				DurationMinutes: durationMinutes,
			})
		}
	}

	return slots
}

// collectBusyIntervals собирает занятые интервалы мастера на дату:
// отсутствия, блокировки (общесалонные и персональные) и активные записи
func collectBusyIntervals(cal staffCalendar, date time.Time, loc *time.Location) []domain.Interval {
	busy := make([]domain.Interval, 0, len(cal.absences)+len(cal.blocked)+len(cal.appointments))

	for _, absence := range cal.absences {
		if absence.StaffID != cal.staffID {
			continue
		}
		if iv, ok := absence.ClipToDay(date, loc); ok {
			busy = append(busy, iv)
		}
	}

	for _, block := range cal.blocked {
		if !block.AppliesToStaff(cal.staffID) {
			continue
		}
		if iv, ok := block.ClipToDay(date, loc); ok {
			busy = append(busy, iv)
		}
	}

	for _, appt := range cal.appointments {
		if appt.StaffID != cal.staffID || !appt.IsActive() {
			continue
		}
		iv, err := appt.Interval()
		if err != nil {
			// Битое время записи пропускаем - оно не должно ронять выдачу
			continue
		}
		busy = append(busy, iv)
	}

	return busy
}

// mergeSlots объединяет слоты всех мастеров в один детерминированный список:
// по возрастанию времени начала, при равенстве - по ID мастера
func mergeSlots(perStaff [][]Slot) []Slot {
	merged := make([]Slot, 0)
	for _, slots := range perStaff {
		merged = append(merged, slots...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].StartTime != merged[j].StartTime {
			return merged[i].StartTime.IsBefore(merged[j].StartTime)
		}
		return merged[i].StaffID < merged[j].StaffID
	})

	return merged
}

// minAllowedStartMinutes возвращает минимально допустимое время начала слота
// в минутах с начала суток: для запроса на сегодня это now + lead time,
// для будущих дат ограничения нет
func minAllowedStartMinutes(date time.Time, now time.Time, loc *time.Location, leadTimeMinutes int) int {
	localNow := now.In(loc)
	if !isSameDay(date, localNow) {
		return 0
	}
	return localNow.Hour()*60 + localNow.Minute() + leadTimeMinutes
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
