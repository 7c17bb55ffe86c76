package salonconfig

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/carosellagiuliano-max/salon-booking-service/internal/domain"
	"github.com/carosellagiuliano-max/salon-booking-service/pkg/dbmetrics"
	"github.com/carosellagiuliano-max/salon-booking-service/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для работы с параметрами бронирования салона
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория конфигурации
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBySalonID получает конфигурацию бронирования салона
// Если строки нет, возвращает ErrConfigNotFound - вызывающий код
// подставляет значения по умолчанию
func (r *Repository) GetBySalonID(ctx context.Context, salonID int64) (*domain.SalonBookingConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"salon_id",
		"slot_granularity_minutes",
		"min_lead_time_minutes",
		"advance_booking_days",
		"timezone",
		"created_at",
		"updated_at",
	).
		From("salon_booking_config").
		Where(squirrel.Eq{"salon_id": salonID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBySalonID - build select query: %v", ErrBuildQuery, err)
	}

	var config domain.SalonBookingConfig
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&config.ID,
		&config.SalonID,
		&config.SlotGranularityMinutes,
		&config.MinLeadTimeMinutes,
		&config.AdvanceBookingDays,
		&config.Timezone,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySalonID - scan config: %v", ErrScanRow, err)
	}

	config.CreatedAt = createdAt.Time
	config.UpdatedAt = updatedAt.Time

	return &config, nil
}

// Upsert создает или обновляет конфигурацию бронирования салона
func (r *Repository) Upsert(ctx context.Context, config *domain.SalonBookingConfig) (*domain.SalonBookingConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("salon_booking_config").
		Columns(
			"salon_id",
			"slot_granularity_minutes",
			"min_lead_time_minutes",
			"advance_booking_days",
			"timezone",
		).
		Values(
			config.SalonID,
			config.SlotGranularityMinutes,
			config.MinLeadTimeMinutes,
			config.AdvanceBookingDays,
			config.Timezone,
		).
		Suffix(`ON CONFLICT (salon_id) DO UPDATE SET
			slot_granularity_minutes = EXCLUDED.slot_granularity_minutes,
			min_lead_time_minutes = EXCLUDED.min_lead_time_minutes,
			advance_booking_days = EXCLUDED.advance_booking_days,
			timezone = EXCLUDED.timezone,
			updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&config.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute upsert: %v", ErrExecQuery, err)
	}

	config.CreatedAt = createdAt.Time
	config.UpdatedAt = updatedAt.Time

	return config, nil
}
