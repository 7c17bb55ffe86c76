package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/carosellagiuliano-max/salon-booking-service/internal/api/handlers"
	getAvailableSlots "github.com/carosellagiuliano-max/salon-booking-service/internal/usecase/get_available_slots"
)

const (
	msgInvalidSalonID    = "некорректный ID салона"
	msgMissingServiceIDs = "ID услуг обязательны"
	msgInvalidServiceIDs = "некорректный список ID услуг"
	msgMissingDate       = "дата обязательна"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidStaffID    = "некорректный ID мастера"
	msgServiceNotFound   = "услуга не найдена"
	msgStaffNotFound     = "мастер не найден"
	msgStaffNotQualified = "мастер не выполняет выбранную услугу"
	msgInvalidParams     = "некорректные параметры запроса"
	msgDateInPast        = "дата не может быть в прошлом"
	msgDateTooFar        = "дата слишком далеко в будущем"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/salons/{salonId}/available-slots
// Query params: serviceIds (required, через запятую), date (required, YYYY-MM-DD), staffId (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	// Извлекаем salonId из URL
	salonIDStr := vars["salonId"]
	salonID, err := strconv.ParseInt(salonIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /salons/{id}/available-slots - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	// Извлекаем serviceIds из query параметров
	serviceIDsStr := r.URL.Query().Get("serviceIds")
	if serviceIDsStr == "" {
		h.logger.Warn("GET /salons/{id}/available-slots - Missing service IDs")
		handlers.RespondBadRequest(w, msgMissingServiceIDs)
		return
	}

	// Извлекаем date из query параметров
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /salons/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	staffIDStr := r.URL.Query().Get("staffId")

	// Формируем запрос к use case (с парсингом параметров)
	useCaseReq, err := ToUseCaseRequest(salonID, serviceIDsStr, dateStr, staffIDStr)
	if err != nil {
		h.logger.Warn("GET /salons/{id}/available-slots - Invalid parameters: %v", err)
		switch {
		case isServiceIDsError(serviceIDsStr):
			handlers.RespondBadRequest(w, msgInvalidServiceIDs)
		case staffIDStr != "" && isStaffIDError(staffIDStr):
			handlers.RespondBadRequest(w, msgInvalidStaffID)
		default:
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /salons/{id}/available-slots - Service not found: salon_id=%d, service_ids=%s",
				salonID, serviceIDsStr)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrStaffNotFound):
			h.logger.Warn("GET /salons/{id}/available-slots - Staff not found: salon_id=%d, staff_id=%s",
				salonID, staffIDStr)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, getAvailableSlots.ErrStaffNotQualified):
			h.logger.Warn("GET /salons/{id}/available-slots - Staff not qualified: salon_id=%d, staff_id=%s",
				salonID, staffIDStr)
			handlers.RespondBadRequest(w, msgStaffNotQualified)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /salons/{id}/available-slots - Date in past: salon_id=%d, date=%s", salonID, dateStr)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /salons/{id}/available-slots - Date too far in future: salon_id=%d, date=%s",
				salonID, dateStr)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /salons/{id}/available-slots - Invalid input: salon_id=%d, error=%v", salonID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /salons/{id}/available-slots - Failed to get slots: salon_id=%d, error=%v",
				salonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("GET /salons/{id}/available-slots - Slots retrieved successfully: salon_id=%d, date=%s, slots_count=%d",
		salonID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}

// isStaffIDError проверяет, что staffId не парсится как число
func isStaffIDError(staffIDStr string) bool {
	_, err := strconv.ParseInt(staffIDStr, 10, 64)
	return err != nil
}

// isServiceIDsError проверяет, что serviceIds не парсится как список чисел
func isServiceIDsError(serviceIDsStr string) bool {
	_, err := parseServiceIDs(serviceIDsStr)
	return err != nil
}
