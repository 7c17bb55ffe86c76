package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carosellagiuliano-max/salon-booking-service/internal/domain"
	appointmentRepo "github.com/carosellagiuliano-max/salon-booking-service/internal/infra/storage/appointment"
	scheduleRepo "github.com/carosellagiuliano-max/salon-booking-service/internal/infra/storage/schedule"
	configRepo "github.com/carosellagiuliano-max/salon-booking-service/internal/infra/storage/salonconfig"
	catalogClient "github.com/carosellagiuliano-max/salon-booking-service/internal/integrations/catalogservice"
	"github.com/carosellagiuliano-max/salon-booking-service/internal/integrations/notifyservice"
	"github.com/carosellagiuliano-max/salon-booking-service/pkg/ptr"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	configRepo      ConfigRepository
	catalogClient   CatalogServiceClient
	notifyClient    NotifyServiceClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	configRepo ConfigRepository,
	catalogClient CatalogServiceClient,
	notifyClient NotifyServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		configRepo:      configRepo,
		catalogClient:   catalogClient,
		notifyClient:    notifyClient,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
//
// Использует сериализуемую транзакцию с повторной проверкой занятости
// (FOR UPDATE) для предотвращения гонки данных. Второй уровень защиты -
// exclusion constraint в БД: при конкурентной вставке пересекающейся записи
// хранилище вернет ErrSlotTaken.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: customer=%d, salon=%d, staff=%d, services=%v, date=%s, time=%s",
		req.CustomerID, req.SalonID, req.StaffID, req.ServiceIDs, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем мастера
	staff, err := uc.catalogClient.GetStaff(ctx, req.SalonID, req.StaffID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrStaffNotFound) {
			uc.logger.Warn("CreateAppointment: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	if !staff.IsActive {
		uc.logger.Warn("CreateAppointment: staff id=%d is inactive", req.StaffID)
		return nil, ErrStaffNotFound
	}

	// 4. Получаем услуги цепочки, проверяем квалификацию мастера,
	// считаем длительность и цену
	serviceNames := make([]string, 0, len(req.ServiceIDs))
	totalDuration := 0
	totalPrice := 0.0

	for _, serviceID := range req.ServiceIDs {
		service, err := uc.catalogClient.GetService(ctx, req.SalonID, serviceID)
		if err != nil {
			if errors.Is(err, catalogClient.ErrServiceNotFound) {
				uc.logger.Warn("CreateAppointment: service id=%d not found", serviceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", serviceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}

		if !service.IsActive {
			uc.logger.Warn("CreateAppointment: service id=%d is inactive", serviceID)
			return nil, ErrServiceNotFound
		}

		if !service.CanBePerformedBy(req.StaffID) {
			uc.logger.Warn("CreateAppointment: staff id=%d not qualified for service id=%d",
				req.StaffID, serviceID)
			return nil, ErrStaffNotQualified
		}

		serviceNames = append(serviceNames, service.Name)
		totalDuration += service.EffectiveDurationMinutes()
		totalPrice += getServicePrice(service)
	}

	if totalDuration <= 0 {
		return nil, fmt.Errorf("%w: total duration must be positive", ErrInvalidInput)
	}
	if totalDuration > domain.MaxAppointmentMinutes {
		return nil, fmt.Errorf("%w: total duration exceeds %d minutes", ErrInvalidInput, domain.MaxAppointmentMinutes)
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 5. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Получаем конфигурацию бронирования (или значения по умолчанию)
		config, err := uc.configRepo.GetBySalonID(txCtx, req.SalonID)
		if err != nil {
			if !errors.Is(err, configRepo.ErrConfigNotFound) {
				uc.logger.Error("CreateAppointment: failed to get config: %v", err)
				return fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
			}
			config = domain.DefaultBookingConfig(req.SalonID)
			uc.logger.Info("CreateAppointment: using default config for salon=%d", req.SalonID)
		}
		loc := config.Location()

		// 5.2. Валидация даты с учетом конфигурации
		if err := validateDate(req.Date, now, loc, config.AdvanceBookingDays); err != nil {
			uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
			return err
		}

		// 5.3. Валидация времени записи (minLeadTimeMinutes)
		if err := validateLeadTime(req.Date, req.StartTime, now, loc, config.MinLeadTimeMinutes); err != nil {
			uc.logger.Warn("CreateAppointment: lead time validation failed: %v", err)
			return err
		}

		// 5.4. Проверяем, что салон открыт в указанную дату
		openingHours, err := uc.scheduleRepo.GetOpeningHours(txCtx, req.SalonID)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				uc.logger.Warn("CreateAppointment: salon id=%d has no schedule", req.SalonID)
				return ErrSalonClosed
			}
			uc.logger.Error("CreateAppointment: failed to get opening hours: %v", err)
			return fmt.Errorf("%w: failed to get opening hours: %v", ErrInternal, err)
		}

		salonWindow, open := openingHours.Week.WindowFor(req.Date).Interval()
		if !open {
			uc.logger.Warn("CreateAppointment: salon is closed on %s", req.Date.Format(domain.DateFormat))
			return ErrSalonClosed
		}

		// 5.5. Проверяем график мастера на этот день
		staffHours, err := uc.scheduleRepo.GetStaffWorkingHours(txCtx, req.SalonID)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get staff working hours: %v", err)
			return fmt.Errorf("%w: failed to get staff working hours: %v", ErrInternal, err)
		}

		hours, ok := staffHours[req.StaffID]
		if !ok {
			uc.logger.Warn("CreateAppointment: staff id=%d has no working hours", req.StaffID)
			return ErrOutsideWorkingHours
		}

		staffWindow, working := hours.Week.WindowFor(req.Date).Interval()
		if !working {
			uc.logger.Warn("CreateAppointment: staff id=%d does not work on %s",
				req.StaffID, req.Date.Format(domain.DateFormat))
			return ErrOutsideWorkingHours
		}

		// 5.6. Запрошенный интервал должен целиком помещаться в рабочее окно
		startMin, err := req.StartTime.Minutes()
		if err != nil {
			return fmt.Errorf("%w: failed to parse start time: %v", ErrInternal, err)
		}
		requested := domain.Interval{StartMin: startMin, EndMin: startMin + totalDuration}

		if err := validateWithinWindow(requested, salonWindow.Intersect(staffWindow)); err != nil {
			uc.logger.Warn("CreateAppointment: interval [%s, +%dm) is outside working hours",
				req.StartTime, totalDuration)
			return err
		}

		// 5.7. Повторно проверяем занятость внутри транзакции: отсутствия,
		// блокировки и активные записи мастера (записи - с блокировкой FOR UPDATE)
		dayStart := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, loc)
		dayEnd := dayStart.AddDate(0, 0, 1)

		absences, err := uc.scheduleRepo.GetAbsences(txCtx, req.SalonID, dayStart, dayEnd)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get absences: %v", err)
			return fmt.Errorf("%w: failed to get absences: %v", ErrInternal, err)
		}

		blocked, err := uc.scheduleRepo.GetBlockedTimes(txCtx, req.SalonID, dayStart, dayEnd)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get blocked times: %v", err)
			return fmt.Errorf("%w: failed to get blocked times: %v", ErrInternal, err)
		}

		filter := domain.SalonAppointmentsFilter{
			SalonID:         req.SalonID,
			StaffID:         ptr.Ptr(req.StaffID),
			StartDate:       ptr.Ptr(req.Date),
			EndDate:         ptr.Ptr(req.Date),
			IncludeInactive: false, // Только активные записи
		}

		appointments, err := uc.appointmentRepo.GetBySalonWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		busy := collectBusyIntervals(req.StaffID, req.Date, loc, absences, blocked, appointments)
		if hasConflict(requested, busy) {
			uc.logger.Warn("CreateAppointment: slot [%s, +%dm) is already taken for staff=%d",
				req.StartTime, totalDuration, req.StaffID)
			return ErrSlotNotAvailable
		}

		// 5.8. Создаем запись с денормализацией данных услуг
		// Предварительная бронь (hold) создается в статусе pending и
		// подтверждается отдельным переходом статуса после checkout
		status := domain.StatusConfirmed
		if req.Hold {
			status = domain.StatusPending
		}

		appointment := &domain.Appointment{
			SalonID:         req.SalonID,
			StaffID:         req.StaffID,
			CustomerID:      req.CustomerID,
			Date:            req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: totalDuration,
			Status:          status,
			// Денормализация данных услуг
			ServiceIDs:   req.ServiceIDs,
			ServiceNames: serviceNames,
			TotalPrice:   totalPrice,
			// Заметки
			Notes: req.Notes,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotTaken) {
				uc.logger.Warn("CreateAppointment: exclusion constraint rejected slot [%s, +%dm) for staff=%d",
					req.StartTime, totalDuration, req.StaffID)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	// 6. Отправляем уведомление после коммита: сбой доставки не влияет
	// на результат создания записи. Для предварительной брони уведомление
	// уйдет при переходе pending -> confirmed
	if result.Status == domain.StatusConfirmed {
		uc.sendConfirmationNotification(result)
	}

	endTime, err := result.StartTime.AddMinutes(result.DurationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to calculate end time: %v", ErrInternal, err)
	}

	// Конвертируем в response
	return &Response{
		ID:              result.ID,
		CustomerID:      result.CustomerID,
		SalonID:         result.SalonID,
		StaffID:         result.StaffID,
		Date:            result.Date,
		StartTime:       result.StartTime,
		EndTime:         endTime,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		ServiceIDs:      result.ServiceIDs,
		ServiceNames:    result.ServiceNames,
		TotalPrice:      result.TotalPrice,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// sendConfirmationNotification асинхронно отправляет уведомление о создании записи
func (uc *UseCase) sendConfirmationNotification(appointment *domain.Appointment) {
	n := &notifyservice.Notification{
		Event:         notifyservice.EventAppointmentConfirmed,
		AppointmentID: appointment.ID,
		SalonID:       appointment.SalonID,
		CustomerID:    appointment.CustomerID,
		StaffID:       appointment.StaffID,
		Date:          appointment.Date.Format(domain.DateFormat),
		StartTime:     string(appointment.StartTime),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := uc.notifyClient.Send(ctx, n); err != nil {
			uc.logger.Warn("CreateAppointment: failed to send confirmation notification for appointment id=%d: %v",
				appointment.ID, err)
		}
	}()
}

// getServicePrice извлекает цену из услуги
// Если цена не указана (nil), возвращает 0.0
func getServicePrice(service *catalogClient.Service) float64 {
	if service.Price == nil {
		return 0.0
	}
	return *service.Price
}
