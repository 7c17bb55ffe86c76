package salonconfig

import (
	"context"

	"github.com/carosellagiuliano-max/salon-booking-service/internal/domain"
	"github.com/carosellagiuliano-max/salon-booking-service/internal/integrations/catalogservice"
)

// ConfigRepository интерфейс репозитория конфигурации бронирования
type ConfigRepository interface {
	GetBySalonID(ctx context.Context, salonID int64) (*domain.SalonBookingConfig, error)
	Upsert(ctx context.Context, config *domain.SalonBookingConfig) (*domain.SalonBookingConfig, error)
}

// CatalogServiceClient интерфейс клиента справочника услуг и мастеров
type CatalogServiceClient interface {
	GetStaff(ctx context.Context, salonID, staffID int64) (*catalogservice.Staff, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
