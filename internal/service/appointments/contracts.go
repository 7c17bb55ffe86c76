package appointments

import (
	"context"

	"github.com/carosellagiuliano-max/salon-booking-service/internal/domain"
	"github.com/carosellagiuliano-max/salon-booking-service/internal/integrations/catalogservice"
	"github.com/carosellagiuliano-max/salon-booking-service/internal/integrations/notifyservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByCustomerID(ctx context.Context, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	GetBySalonWithFilter(ctx context.Context, filter domain.SalonAppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// CatalogServiceClient интерфейс клиента справочника услуг и мастеров
type CatalogServiceClient interface {
	GetStaff(ctx context.Context, salonID, staffID int64) (*catalogservice.Staff, error)
}

// NotifyServiceClient интерфейс клиента сервиса уведомлений
type NotifyServiceClient interface {
	Send(ctx context.Context, n *notifyservice.Notification) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
