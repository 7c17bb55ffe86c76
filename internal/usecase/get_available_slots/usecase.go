package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/carosellagiuliano-max/salon-booking-service/internal/domain"
	scheduleRepo "github.com/carosellagiuliano-max/salon-booking-service/internal/infra/storage/schedule"
	configRepo "github.com/carosellagiuliano-max/salon-booking-service/internal/infra/storage/salonconfig"
	catalogClient "github.com/carosellagiuliano-max/salon-booking-service/internal/integrations/catalogservice"
	"github.com/carosellagiuliano-max/salon-booking-service/pkg/ptr"
)

// UseCase use case для получения доступных слотов для бронирования
//
// Расчёт доступности - чисто читающая операция: она выполняется без
// транзакций и блокировок, результат носит рекомендательный характер.
// Реальная защита от двойного бронирования - на коммите в create_appointment.
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	configRepo      ConfigRepository
	catalogClient   CatalogServiceClient
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	configRepo ConfigRepository,
	catalogClient CatalogServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		configRepo:      configRepo,
		catalogClient:   catalogClient,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: salon=%d, services=%v, staff=%v, date=%s",
		req.SalonID, req.ServiceIDs, req.StaffID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услуги и считаем суммарную длительность цепочки
	services, err := uc.resolveServices(ctx, req)
	if err != nil {
		return nil, err
	}

	totalDuration, err := totalChainDuration(services)
	if err != nil {
		return nil, err
	}

	// 4. Определяем кандидатов-мастеров
	candidateStaff, err := uc.resolveCandidateStaff(ctx, req, services)
	if err != nil {
		return nil, err
	}

	// 5. Получаем конфигурацию бронирования (или значения по умолчанию)
	bookingConfig, err := uc.loadConfig(ctx, req.SalonID)
	if err != nil {
		return nil, err
	}
	loc := bookingConfig.Location()

	// 6. Валидация даты с учетом конфигурации
	if err := validateDate(req.Date, now, loc, bookingConfig.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	emptyResponse := &Response{
		Date:                 req.Date,
		SalonID:              req.SalonID,
		ServiceIDs:           req.ServiceIDs,
		TotalDurationMinutes: totalDuration,
		Slots:                []Slot{},
	}

	// 7. Получаем часы работы салона на указанную дату
	openingHours, err := uc.scheduleRepo.GetOpeningHours(ctx, req.SalonID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			uc.logger.Info("GetAvailableSlots: salon id=%d has no schedule, treating as closed", req.SalonID)
			return emptyResponse, nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get opening hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get opening hours: %v", ErrInternal, err)
	}

	salonWindow, open := openingHours.Week.WindowFor(req.Date).Interval()
	if !open {
		uc.logger.Info("GetAvailableSlots: salon id=%d is closed on %s",
			req.SalonID, req.Date.Format(domain.DateFormat))
		return emptyResponse, nil
	}

	// 8. Загружаем календарные данные на дату: графики, отсутствия,
	// блокировки и активные записи
	calendars, err := uc.loadDayCalendars(ctx, req, candidateStaff, loc)
	if err != nil {
		return nil, err
	}

	// 9. Минимально допустимое время начала (lead time для запросов на сегодня)
	minStartMin := minAllowedStartMinutes(req.Date, now, loc, bookingConfig.MinLeadTimeMinutes)

	// 10. Считаем слоты каждого мастера и объединяем в один список
	perStaff := make([][]Slot, 0, len(calendars))
	for _, cal := range calendars {
		perStaff = append(perStaff, computeStaffSlots(
			cal,
			salonWindow,
			req.Date,
			loc,
			totalDuration,
			bookingConfig.SlotGranularityMinutes,
			minStartMin,
		))
	}
	slots := mergeSlots(perStaff)

	uc.logger.Info("GetAvailableSlots: generated %d slots for salon=%d, date=%s, duration=%d",
		len(slots), req.SalonID, req.Date.Format(domain.DateFormat), totalDuration)

	return &Response{
		Date:                 req.Date,
		SalonID:              req.SalonID,
		ServiceIDs:           req.ServiceIDs,
		TotalDurationMinutes: totalDuration,
		Slots:                slots,
	}, nil
}

// resolveServices получает услуги цепочки из справочника
func (uc *UseCase) resolveServices(ctx context.Context, req *Request) ([]*catalogClient.Service, error) {
	services := make([]*catalogClient.Service, 0, len(req.ServiceIDs))

	for _, serviceID := range req.ServiceIDs {
		service, err := uc.catalogClient.GetService(ctx, req.SalonID, serviceID)
		if err != nil {
			if errors.Is(err, catalogClient.ErrServiceNotFound) {
				uc.logger.Warn("GetAvailableSlots: service id=%d not found", serviceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", serviceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}

		if !service.IsActive {
			uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", serviceID)
			return nil, ErrServiceNotFound
		}

		services = append(services, service)
	}

	return services, nil
}

// totalChainDuration возвращает суммарную длительность цепочки услуг
// (длительность + буферное время каждой услуги)
func totalChainDuration(services []*catalogClient.Service) (int, error) {
	total := 0
	for _, service := range services {
		total += service.EffectiveDurationMinutes()
	}

	if total <= 0 {
		return 0, fmt.Errorf("%w: total duration must be positive", ErrInvalidInput)
	}
	if total > domain.MaxAppointmentMinutes {
		return 0, fmt.Errorf("%w: total duration exceeds %d minutes", ErrInvalidInput, domain.MaxAppointmentMinutes)
	}

	return total, nil
}

// resolveCandidateStaff возвращает упорядоченный по ID список мастеров,
// способных выполнить всю цепочку услуг
//
// Если мастер указан явно - он обязан существовать, быть активным и уметь
// выполнять каждую услугу цепочки. Если нет - берутся все активные мастера
// салона, квалифицированные для всех услуг (пустой список - не ошибка,
// просто не будет слотов).
func (uc *UseCase) resolveCandidateStaff(ctx context.Context, req *Request, services []*catalogClient.Service) ([]int64, error) {
	if req.StaffID != nil {
		staff, err := uc.catalogClient.GetStaff(ctx, req.SalonID, *req.StaffID)
		if err != nil {
			if errors.Is(err, catalogClient.ErrStaffNotFound) {
				uc.logger.Warn("GetAvailableSlots: staff id=%d not found", *req.StaffID)
				return nil, ErrStaffNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get staff id=%d: %v", *req.StaffID, err)
			return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
		}

		if !staff.IsActive {
			uc.logger.Warn("GetAvailableSlots: staff id=%d is inactive", *req.StaffID)
			return nil, ErrStaffNotFound
		}

		for _, service := range services {
			if !service.CanBePerformedBy(staff.ID) {
				uc.logger.Warn("GetAvailableSlots: staff id=%d not qualified for service id=%d",
					staff.ID, service.ID)
				return nil, ErrStaffNotQualified
			}
		}

		return []int64{staff.ID}, nil
	}

	allStaff, err := uc.catalogClient.ListStaff(ctx, req.SalonID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list staff for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: failed to list staff: %v", ErrInternal, err)
	}

	candidates := make([]int64, 0, len(allStaff))
	for _, staff := range allStaff {
		if !staff.IsActive {
			continue
		}

		qualified := true
		for _, service := range services {
			if !service.CanBePerformedBy(staff.ID) {
				qualified = false
				break
			}
		}

		if qualified {
			candidates = append(candidates, staff.ID)
		}
	}

	// Сортировка по ID для детерминированного порядка слотов
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	return candidates, nil
}

// loadConfig получает конфигурацию бронирования салона или значения по умолчанию
func (uc *UseCase) loadConfig(ctx context.Context, salonID int64) (*domain.SalonBookingConfig, error) {
	cfg, err := uc.configRepo.GetBySalonID(ctx, salonID)
	if err != nil {
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			uc.logger.Info("GetAvailableSlots: using default config for salon=%d", salonID)
			return domain.DefaultBookingConfig(salonID), nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get config: %v", err)
		return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}
	return cfg, nil
}

// loadDayCalendars загружает календарные данные всех кандидатов на дату запроса
func (uc *UseCase) loadDayCalendars(ctx context.Context, req *Request, candidateStaff []int64, loc *time.Location) ([]staffCalendar, error) {
	staffHours, err := uc.scheduleRepo.GetStaffWorkingHours(ctx, req.SalonID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get staff working hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get staff working hours: %v", ErrInternal, err)
	}

	dayStart := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	absences, err := uc.scheduleRepo.GetAbsences(ctx, req.SalonID, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get absences: %v", err)
		return nil, fmt.Errorf("%w: failed to get absences: %v", ErrInternal, err)
	}

	blocked, err := uc.scheduleRepo.GetBlockedTimes(ctx, req.SalonID, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get blocked times: %v", err)
		return nil, fmt.Errorf("%w: failed to get blocked times: %v", ErrInternal, err)
	}

	filter := domain.SalonAppointmentsFilter{
		SalonID:         req.SalonID,
		StartDate:       ptr.Ptr(req.Date),
		EndDate:         ptr.Ptr(req.Date),
		IncludeInactive: false, // Только активные записи занимают интервалы
	}

	appointments, err := uc.appointmentRepo.GetBySalonWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	calendars := make([]staffCalendar, 0, len(candidateStaff))
	for _, staffID := range candidateStaff {
		calendars = append(calendars, staffCalendar{
			staffID:      staffID,
			workingHours: staffHours[staffID],
			absences:     absences,
			blocked:      blocked,
			appointments: appointments,
		})
	}

	return calendars, nil
}
