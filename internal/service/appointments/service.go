package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carosellagiuliano-max/salon-booking-service/internal/domain"
	appointmentRepo "github.com/carosellagiuliano-max/salon-booking-service/internal/infra/storage/appointment"
	catalogClient "github.com/carosellagiuliano-max/salon-booking-service/internal/integrations/catalogservice"
	"github.com/carosellagiuliano-max/salon-booking-service/internal/integrations/notifyservice"
	"github.com/carosellagiuliano-max/salon-booking-service/internal/service/appointments/models"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	catalogClient   CatalogServiceClient
	notifyClient    NotifyServiceClient
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	catalogClient CatalogServiceClient,
	notifyClient NotifyServiceClient,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		catalogClient:   catalogClient,
		notifyClient:    notifyClient,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Проверяет права доступа - клиент может видеть только свою запись,
// сотрудник салона - любую запись своего салона
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkUserAccess(ctx, appointment, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appointment), nil
}

// GetCustomerAppointments получает историю записей клиента
// Опционально фильтрует по статусу. Клиент может видеть только свою историю
func (s *Service) GetCustomerAppointments(ctx context.Context, req *models.GetCustomerAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetCustomerAppointments: fetching appointments for customer=%d, status=%v", req.CustomerID, req.Status)

	if req.UserID != req.CustomerID {
		s.logger.Warn("GetCustomerAppointments: access denied for user=%d to customer=%d history",
			req.UserID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	// Конвертируем статус из строки в domain.AppointmentStatus
	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerAppointments: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	appointments, err := s.appointmentRepo.GetByCustomerID(ctx, req.CustomerID, domainStatus)
	if err != nil {
		s.logger.Error("GetCustomerAppointments: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerAppointments: successfully fetched %d appointments for customer=%d",
		len(appointments), req.CustomerID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetSalonAppointments получает записи салона с гибкой фильтрацией
// Поддерживает фильтрацию по мастеру, периоду, статусу и включению неактивных записей
// Доступно только сотрудникам салона
func (s *Service) GetSalonAppointments(ctx context.Context, req *models.GetSalonAppointmentsRequest) (*models.AppointmentListResponse, error) {
	// Логируем запрос с деталями фильтрации
	logMsg := fmt.Sprintf("GetSalonAppointments: fetching appointments for salon=%d, user=%d", req.SalonID, req.UserID)
	if req.StaffID != nil {
		logMsg += fmt.Sprintf(", staff=%d", *req.StaffID)
	}
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	// Проверяем права доступа сотрудника
	if err := s.checkSalonAccess(ctx, req.SalonID, req.UserID); err != nil {
		return nil, err
	}

	// Конвертируем request в domain фильтр
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetSalonAppointments: invalid filter for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	// Получаем записи с фильтрацией
	appointments, err := s.appointmentRepo.GetBySalonWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetSalonAppointments: repository error for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: GetSalonAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetSalonAppointments: successfully fetched %d appointments for salon=%d",
		len(appointments), req.SalonID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись
// Клиент может отменить только свою запись, сотрудник салона - любую запись салона
// Повторная отмена уже отменённой записи не является ошибкой
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", appointmentID, req.UserID)

	if len(req.CancellationReason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason must be at most %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	// Получаем запись
	appointment, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkUserAccess(ctx, appointment, req.UserID); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to cancel appointment id=%d", req.UserID, appointmentID)
		return err
	}

	// Повторная отмена - идемпотентная операция
	if appointment.Status == domain.StatusCancelled {
		s.logger.Info("Cancel: appointment id=%d is already cancelled", appointmentID)
		return nil
	}

	// Проверяем, можно ли отменить запись
	if !appointment.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", appointmentID, appointment.Status)
		return ErrCannotCancel
	}

	// Отменяем запись
	if err := s.appointmentRepo.Cancel(ctx, appointmentID, req.CancellationReason); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found during cancellation", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", appointmentID)

	// Отправляем уведомление об отмене: сбой доставки не влияет на результат
	s.sendNotification(appointment, notifyservice.EventAppointmentCancelled)

	return nil
}

// UpdateStatus обновляет статус записи по графу переходов
// Доступно только сотрудникам салона
func (s *Service) UpdateStatus(ctx context.Context, appointmentID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by user=%d",
		appointmentID, req.Status, req.UserID)

	// Получаем запись
	appointment, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа (только сотрудник салона)
	if err := s.checkSalonAccess(ctx, appointment.SalonID, req.UserID); err != nil {
		return err
	}

	// Валидируем и конвертируем статус
	newStatus, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, appointmentID)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	// Проверяем допустимость перехода
	if !domain.ValidStatusTransition(appointment.Status, newStatus) {
		s.logger.Warn("UpdateStatus: invalid transition %s -> %s for appointment id=%d",
			appointment.Status, newStatus, appointmentID)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, appointment.Status, newStatus)
	}

	// Переход в cancelled идёт через Cancel, чтобы проставить cancelled_at
	if newStatus == domain.StatusCancelled {
		if err := s.appointmentRepo.Cancel(ctx, appointmentID, ""); err != nil {
			s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}
		s.sendNotification(appointment, notifyservice.EventAppointmentCancelled)
	} else {
		if err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, newStatus); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				s.logger.Warn("UpdateStatus: appointment id=%d not found during update", appointmentID)
				return ErrAppointmentNotFound
			}
			s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		// Подтверждение предварительной брони уведомляет клиента
		if newStatus == domain.StatusConfirmed {
			s.sendNotification(appointment, notifyservice.EventAppointmentConfirmed)
		}
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", appointmentID, newStatus)
	return nil
}

// Вспомогательные методы

// checkUserAccess проверяет, что пользователь имеет доступ к записи
// Клиент может видеть свою запись, сотрудник салона - любую запись салона
func (s *Service) checkUserAccess(ctx context.Context, appointment *domain.Appointment, userID int64) error {
	// Если пользователь владелец записи - доступ разрешён
	if appointment.CustomerID == userID {
		return nil
	}

	// Проверяем, является ли пользователь сотрудником салона
	if err := s.checkSalonAccess(ctx, appointment.SalonID, userID); err != nil {
		// Ошибка уже залогирована в checkSalonAccess
		return ErrAccessDenied
	}

	return nil
}

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

	s.logger.Info("checkSalonAccess: user=%d is staff member of salon=%d", userID, salonID)
	return nil
}

// sendNotification асинхронно отправляет уведомление о смене статуса записи
func (s *Service) sendNotification(appointment *domain.Appointment, event notifyservice.Event) {
	n := &notifyservice.Notification{
		Event:         event,
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

		if err := s.notifyClient.Send(ctx, n); err != nil {
			s.logger.Warn("failed to send %s notification for appointment id=%d: %v",
				n.Event, appointment.ID, err)
		}
	}()
}
