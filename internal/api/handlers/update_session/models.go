package update_session

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/sessions/models"
)

// UpdateSessionRequest HTTP request model. Все поля опциональны
type UpdateSessionRequest struct {
	ServiceID *int64  `json:"serviceId,omitempty"`
	Date      *string `json:"date,omitempty"` // "2026-03-10"
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateSessionRequest) ToServiceRequest() (*models.UpdateSessionRequest, error) {
	req := &models.UpdateSessionRequest{ServiceID: r.ServiceID}

	if r.Date != nil {
		date, err := time.Parse(domain.DateFormat, *r.Date)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	return req, nil
}
