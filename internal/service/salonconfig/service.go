package salonconfig

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carosellagiuliano-max/salon-booking-service/internal/domain"
	configRepo "github.com/carosellagiuliano-max/salon-booking-service/internal/infra/storage/salonconfig"
	catalogClient "github.com/carosellagiuliano-max/salon-booking-service/internal/integrations/catalogservice"
	"github.com/carosellagiuliano-max/salon-booking-service/internal/service/salonconfig/models"
)

// Service сервис для работы с параметрами бронирования салона
type Service struct {
	configRepo    ConfigRepository
	catalogClient CatalogServiceClient
	logger        Logger
}

// NewService создает новый экземпляр сервиса конфигурации
func NewService(
	configRepo ConfigRepository,
	catalogClient CatalogServiceClient,
	logger Logger,
) *Service {
	return &Service{
		configRepo:    configRepo,
		catalogClient: catalogClient,
		logger:        logger,
	}
}

// Get получает параметры бронирования салона
// Публичный метод - если конфигурация не сохранена, возвращает значения по умолчанию
func (s *Service) Get(ctx context.Context, salonID int64) (*models.ConfigResponse, error) {
	s.logger.Info("Get: fetching config for salon=%d", salonID)

	config, err := s.configRepo.GetBySalonID(ctx, salonID)
	if err != nil {
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			s.logger.Info("Get: no config stored for salon=%d, returning defaults", salonID)
			return models.FromDomainConfig(domain.DefaultBookingConfig(salonID)), nil
		}
		s.logger.Error("Get: repository error for salon=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Get: successfully fetched config id=%d for salon=%d", config.ID, salonID)
	return models.FromDomainConfig(config), nil
}

// Update обновляет параметры бронирования салона
// Доступно только сотрудникам салона
// Поддерживает частичное обновление - обновляются только указанные поля
func (s *Service) Update(ctx context.Context, req *models.UpdateConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("Update: updating config for salon=%d by user=%d", req.SalonID, req.UserID)

	// 1. Проверяем права доступа (только сотрудник салона)
	if err := s.checkSalonAccess(ctx, req.SalonID, req.UserID); err != nil {
		return nil, err
	}

	// 2. Получаем существующую конфигурацию или значения по умолчанию
	config, err := s.configRepo.GetBySalonID(ctx, req.SalonID)
	if err != nil {
		if !errors.Is(err, configRepo.ErrConfigNotFound) {
			s.logger.Error("Update: repository error for salon=%d: %v", req.SalonID, err)
			return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		config = domain.DefaultBookingConfig(req.SalonID)
	}

	// 3. Применяем обновления
	req.ApplyToConfig(config)

	// 4. Валидируем обновленные данные
	if err := s.validateConfigData(config); err != nil {
		s.logger.Warn("Update: validation failed for salon=%d: %v", req.SalonID, err)
		return nil, err
	}

	// 5. Сохраняем конфигурацию
	updated, err := s.configRepo.Upsert(ctx, config)
	if err != nil {
		s.logger.Error("Update: repository error for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated config id=%d for salon=%d", updated.ID, req.SalonID)
	return models.FromDomainConfig(updated), nil
}

// Вспомогательные методы

// checkSalonAccess проверяет, что пользователь является активным сотрудником салона
func (s *Service) checkSalonAccess(ctx context.Context, salonID int64, userID int64) error {
	staff, err := s.catalogClient.GetStaff(ctx, salonID, userID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrStaffNotFound) {
			s.logger.Warn("checkSalonAccess: user=%d is not a staff member of salon=%d", userID, salonID)
			return ErrAccessDenied
		}
		s.logger.Error("checkSalonAccess: failed to get staff id=%d: %v", userID, err)
		return fmt.Errorf("%w: checkSalonAccess - failed to get staff: %v", ErrInternal, err)
	}

	if !staff.IsActive {
		s.logger.Warn("checkSalonAccess: staff id=%d of salon=%d is inactive", userID, salonID)
		return ErrAccessDenied
	}

	return nil
}

// validateConfigData валидирует параметры конфигурации
func (s *Service) validateConfigData(config *domain.SalonBookingConfig) error {
	// Проверяем slotGranularityMinutes
	if config.SlotGranularityMinutes < domain.MinSlotGranularityMinutes ||
		config.SlotGranularityMinutes > domain.MaxSlotGranularityMinutes {
		return fmt.Errorf("%w: slotGranularityMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes)
	}

	// Проверяем minLeadTimeMinutes
	if config.MinLeadTimeMinutes < 0 || config.MinLeadTimeMinutes > domain.MaxLeadTimeMinutesLimit {
		return fmt.Errorf("%w: minLeadTimeMinutes must be between 0 and %d",
			ErrInvalidInput, domain.MaxLeadTimeMinutesLimit)
	}

	// Проверяем advanceBookingDays
	if config.AdvanceBookingDays < 0 || config.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between 0 and %d",
			ErrInvalidInput, domain.MaxAdvanceBookingDays)
	}

	// Проверяем, что таймзона загружается
	if _, err := time.LoadLocation(config.Timezone); err != nil {
		return fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, config.Timezone)
	}

	return nil
}
