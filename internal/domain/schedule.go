package domain

import (
	"time"
)

// WeekSchedule расписание на неделю (для салона или мастера)
type WeekSchedule struct {
	Monday    WorkingWindow
	Tuesday   WorkingWindow
	Wednesday WorkingWindow
	Thursday  WorkingWindow
	Friday    WorkingWindow
	Saturday  WorkingWindow
	Sunday    WorkingWindow
}

// WindowFor возвращает окно работы для дня недели указанной даты
func (s WeekSchedule) WindowFor(date time.Time) WorkingWindow {
	switch date.Weekday() {
	case time.Monday:
		return s.Monday
	case time.Tuesday:
		return s.Tuesday
	case time.Wednesday:
		return s.Wednesday
	case time.Thursday:
		return s.Thursday
	case time.Friday:
		return s.Friday
	case time.Saturday:
		return s.Saturday
	case time.Sunday:
		return s.Sunday
	default:
		return WorkingWindow{IsOpen: false}
	}
}

// OpeningHours часы работы салона
type OpeningHours struct {
	SalonID int64
	Week    WeekSchedule
}

// StaffWorkingHours персональный график мастера
// Мастер без записи на день недели считается недоступным в этот день
type StaffWorkingHours struct {
	StaffID int64
	SalonID int64
	Week    WeekSchedule
}

// AbsenceReason причина отсутствия мастера
type AbsenceReason string

const (
	AbsenceVacation  AbsenceReason = "vacation"
	AbsenceSickLeave AbsenceReason = "sick_leave"
	AbsenceDayOff    AbsenceReason = "day_off"
	AbsenceOther     AbsenceReason = "other"
)

// StaffAbsence represents an absolute (non-recurring) absence window for
// a staff member: vacation, sick leave and the like. It fully blocks
// availability regardless of working hours.
type StaffAbsence struct {
	ID      int64
	StaffID int64
	SalonID int64
	StartAt time.Time
	EndAt   time.Time
	Reason  AbsenceReason

	CreatedAt time.Time
}

// ClipToDay проецирует отсутствие на конкретную дату в таймзоне салона
func (a StaffAbsence) ClipToDay(date time.Time, loc *time.Location) (Interval, bool) {
	return ClipToDay(a.StartAt, a.EndAt, date, loc)
}

// BlockedTime represents a non-bookable absolute interval reserved for
// cleaning, admin work etc. StaffID == nil means the block applies to
// every staff member of the salon.
type BlockedTime struct {
	ID      int64
	SalonID int64
	StaffID *int64
	StartAt time.Time
	EndAt   time.Time
	Reason  *string

	CreatedAt time.Time
}

// AppliesToStaff возвращает true, если блокировка касается указанного мастера
func (b BlockedTime) AppliesToStaff(staffID int64) bool {
	return b.StaffID == nil || *b.StaffID == staffID
}

// ClipToDay проецирует блокировку на конкретную дату в таймзоне салона
func (b BlockedTime) ClipToDay(date time.Time, loc *time.Location) (Interval, bool) {
	return ClipToDay(b.StartAt, b.EndAt, date, loc)
}
