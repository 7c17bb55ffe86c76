package create_appointment

import (
	"context"
	"time"

	"github.com/carosellagiuliano-max/salon-booking-service/internal/domain"
	"github.com/carosellagiuliano-max/salon-booking-service/internal/integrations/catalogservice"
	"github.com/carosellagiuliano-max/salon-booking-service/internal/integrations/notifyservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	GetBySalonWithFilter(ctx context.Context, filter domain.SalonAppointmentsFilter) ([]*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория календарных данных салона
type ScheduleRepository interface {
	GetOpeningHours(ctx context.Context, salonID int64) (*domain.OpeningHours, error)
	GetStaffWorkingHours(ctx context.Context, salonID int64) (map[int64]*domain.StaffWorkingHours, error)
	GetAbsences(ctx context.Context, salonID int64, from, to time.Time) ([]domain.StaffAbsence, error)
	GetBlockedTimes(ctx context.Context, salonID int64, from, to time.Time) ([]domain.BlockedTime, error)
}

// ConfigRepository интерфейс репозитория конфигурации бронирования
type ConfigRepository interface {
	GetBySalonID(ctx context.Context, salonID int64) (*domain.SalonBookingConfig, error)
}

// CatalogServiceClient интерфейс клиента справочника услуг и мастеров
type CatalogServiceClient interface {
	GetService(ctx context.Context, salonID, serviceID int64) (*catalogservice.Service, error)
	GetStaff(ctx context.Context, salonID, staffID int64) (*catalogservice.Staff, error)
}

// NotifyServiceClient интерфейс клиента сервиса уведомлений
type NotifyServiceClient interface {
	Send(ctx context.Context, n *notifyservice.Notification) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
