package get_salon_config

import (
	"context"

	"github.com/carosellagiuliano-max/salon-booking-service/internal/service/salonconfig/models"
)

type ConfigService interface {
	Get(ctx context.Context, salonID int64) (*models.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
