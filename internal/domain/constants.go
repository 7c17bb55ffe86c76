package domain

// Default configuration values
const (
	DefaultSlotGranularityMinutes = 15
	DefaultMinLeadTimeMinutes     = 0
	DefaultAdvanceBookingDays     = 0 // 0 = unlimited
	DefaultTimezone               = "Europe/Zurich"
)

// Business validation constants
const (
	MinSlotGranularityMinutes = 5
	MaxSlotGranularityMinutes = 240
	MinLeadTimeMinutesLimit   = 0
	MaxLeadTimeMinutesLimit   = 10080 // 1 week
	MinAdvanceBookingDays     = 0
	MaxAdvanceBookingDays     = 365 // 1 year

	MaxServicesPerAppointment   = 10
	MaxAppointmentMinutes       = 720 // 12 hours
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, при которых запись больше не занимает свой интервал
// Используется для фильтрации при расчёте доступности
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusNoShow,
}

// ActiveStatuses список статусов записей, занимающих свой интервал
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}
