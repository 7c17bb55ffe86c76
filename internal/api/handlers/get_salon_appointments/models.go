package get_salon_appointments

import (
	"strconv"
	"time"

	"github.com/carosellagiuliano-max/salon-booking-service/internal/domain"
	"github.com/carosellagiuliano-max/salon-booking-service/internal/service/appointments/models"
)

// ToServiceRequest собирает запрос к сервису из path и query параметров
// date задает один день, startDate/endDate - период; date имеет приоритет
func ToServiceRequest(
	salonID, userID int64,
	staffIDStr, statusStr, dateStr, startDateStr, endDateStr, includeInactiveStr string,
) (*models.GetSalonAppointmentsRequest, error) {
	req := &models.GetSalonAppointmentsRequest{
		SalonID: salonID,
		UserID:  userID,
	}

	if staffIDStr != "" {
		staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.StaffID = &staffID
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &date
		req.EndDate = &date
	} else {
		if startDateStr != "" {
			startDate, err := time.Parse(domain.DateFormat, startDateStr)
			if err != nil {
				return nil, err
			}
			req.StartDate = &startDate
		}
		if endDateStr != "" {
			endDate, err := time.Parse(domain.DateFormat, endDateStr)
			if err != nil {
				return nil, err
			}
			req.EndDate = &endDate
		}
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, err
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
