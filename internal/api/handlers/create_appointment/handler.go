package create_appointment

import (
	"errors"
	"net/http"

	"github.com/carosellagiuliano-max/salon-booking-service/internal/api/handlers"
	"github.com/carosellagiuliano-max/salon-booking-service/internal/api/middleware"
	createAppointment "github.com/carosellagiuliano-max/salon-booking-service/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgSlotNotAvailable     = "выбранный временной слот недоступен"
	msgServiceNotFound      = "услуга не найдена"
	msgStaffNotFound        = "мастер не найден"
	msgStaffNotQualified    = "мастер не выполняет выбранную услугу"
	msgSalonClosed          = "салон закрыт в выбранную дату"
	msgOutsideWorkingHours  = "время записи вне рабочих часов"
	msgInvalidDateValue     = "некорректная дата записи"
	msgDateTooFar           = "дата записи слишком далеко в будущем"
	msgTooLateToBook        = "слишком поздно для записи на этот слот"
	msgInvalidInput         = "некорректные данные запроса"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(customerID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, createAppointment.ErrSlotNotAvailable):
			h.logger.Warn("POST /appointments - Slot not available: customer_id=%d, salon_id=%d, staff_id=%d",
				customerID, req.SalonID, req.StaffID)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: customer_id=%d, salon_id=%d",
				customerID, req.SalonID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrStaffNotFound):
			h.logger.Warn("POST /appointments - Staff not found: customer_id=%d, salon_id=%d, staff_id=%d",
				customerID, req.SalonID, req.StaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, createAppointment.ErrStaffNotQualified):
			h.logger.Warn("POST /appointments - Staff not qualified: customer_id=%d, salon_id=%d, staff_id=%d",
				customerID, req.SalonID, req.StaffID)
			handlers.RespondBadRequest(w, msgStaffNotQualified)

		case errors.Is(err, createAppointment.ErrSalonClosed):
			h.logger.Warn("POST /appointments - Salon closed: customer_id=%d, salon_id=%d",
				customerID, req.SalonID)
			handlers.RespondBadRequest(w, msgSalonClosed)

		case errors.Is(err, createAppointment.ErrOutsideWorkingHours):
			h.logger.Warn("POST /appointments - Outside working hours: customer_id=%d, salon_id=%d, staff_id=%d",
				customerID, req.SalonID, req.StaffID)
			handlers.RespondBadRequest(w, msgOutsideWorkingHours)

		case errors.Is(err, createAppointment.ErrInvalidDate):
			h.logger.Warn("POST /appointments - Invalid date: customer_id=%d, salon_id=%d",
				customerID, req.SalonID)
			handlers.RespondBadRequest(w, msgInvalidDateValue)

		case errors.Is(err, createAppointment.ErrDateTooFarInFuture):
			h.logger.Warn("POST /appointments - Date too far in future: customer_id=%d, salon_id=%d",
				customerID, req.SalonID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createAppointment.ErrTooLateToBook):
			h.logger.Warn("POST /appointments - Too late to book: customer_id=%d, salon_id=%d",
				customerID, req.SalonID)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: customer_id=%d, error=%v", customerID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: customer_id=%d, salon_id=%d, error=%v",
				customerID, req.SalonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, customer_id=%d, salon_id=%d",
		result.ID, customerID, req.SalonID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
