package get_available_slots

import (
	"strconv"
	"strings"
	"time"

	"github.com/carosellagiuliano-max/salon-booking-service/internal/domain"
	getAvailableSlots "github.com/carosellagiuliano-max/salon-booking-service/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date                 string          `json:"date"`
	SalonID              int64           `json:"salonId"`
	ServiceIDs           []int64         `json:"serviceIds"`
	TotalDurationMinutes int             `json:"totalDurationMinutes"`
	Slots                []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StaffID         int64  `json:"staffId"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StaffID:         slot.StaffID,
			StartTime:       slot.StartTime.String(),
			EndTime:         slot.EndTime.String(),
			DurationMinutes: slot.DurationMinutes,
		}
	}

	return &AvailableSlotsResponse{
		Date:                 resp.Date.Format(domain.DateFormat),
		SalonID:              resp.SalonID,
		ServiceIDs:           resp.ServiceIDs,
		TotalDurationMinutes: resp.TotalDurationMinutes,
		Slots:                slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(salonID int64, serviceIDsStr, dateStr, staffIDStr string) (*getAvailableSlots.Request, error) {
	// Парсим список услуг (через запятую)
	serviceIDs, err := parseServiceIDs(serviceIDsStr)
	if err != nil {
		return nil, err
	}

	// Парсим дату
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	req := &getAvailableSlots.Request{
		SalonID:    salonID,
		ServiceIDs: serviceIDs,
		Date:       date,
	}

	// Парсим мастера, если указан
	if staffIDStr != "" {
		staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.StaffID = &staffID
	}

	return req, nil
}

// parseServiceIDs парсит список ID услуг из строки вида "1,2,3"
func parseServiceIDs(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))

	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}
