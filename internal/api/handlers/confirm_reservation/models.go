package confirm_reservation

import (
	"github.com/m04kA/SMC-SalonBooking/internal/service/sessions/models"
	confirmReservation "github.com/m04kA/SMC-SalonBooking/internal/usecase/confirm_reservation"
)

// ConfirmReservationResponse HTTP response model
type ConfirmReservationResponse struct {
	Outcome          string              `json:"outcome"`
	Reason           string              `json:"reason,omitempty"`
	AppointmentID    *string             `json:"appointmentId,omitempty"`
	ConfirmedSlotIDs []int64             `json:"confirmedSlotIds,omitempty"`
	Applied          bool                `json:"applied"`
	Session          *models.SessionView `json:"session,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *confirmReservation.Response) *ConfirmReservationResponse {
	out := &ConfirmReservationResponse{
		Outcome: string(resp.Outcome),
		Reason:  string(resp.Reason),
		Applied: resp.Applied,
	}

	if resp.AppointmentID != nil {
		id := resp.AppointmentID.String()
		out.AppointmentID = &id
	}

	if len(resp.ConfirmedSlots) > 0 {
		out.ConfirmedSlotIDs = make([]int64, len(resp.ConfirmedSlots))
		for i, slot := range resp.ConfirmedSlots {
			out.ConfirmedSlotIDs[i] = slot.ID
		}
	}

	if resp.Session != nil {
		out.Session = models.NewSessionView(resp.Session, resp.Service, resp.Display, false)
	}

	return out
}
