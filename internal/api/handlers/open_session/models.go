package open_session

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/sessions/models"
)

// OpenSessionRequest HTTP request model
type OpenSessionRequest struct {
	StylistID int64  `json:"stylistId"`
	ServiceID int64  `json:"serviceId"`
	Date      string `json:"date"` // "2026-03-10"
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *OpenSessionRequest) ToServiceRequest(actor domain.Actor) (*models.OpenSessionRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &models.OpenSessionRequest{
		Actor:     actor,
		StylistID: r.StylistID,
		ServiceID: r.ServiceID,
		Date:      date,
	}, nil
}
