package cancel_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	cancelAppointment "github.com/m04kA/SMC-SalonBooking/internal/usecase/cancel_appointment"
)

const (
	route = "POST /appointments/{slotId}/cancel"

	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidSlotID = "некорректный ID слота"
	msgInvalidInput  = "некорректные данные запроса"
	msgSlotNotFound  = "слот не найден"
	msgNotBooked     = "слот не относится ни к одной записи"
	msgForbidden     = "нельзя отменить чужую запись"
)

type Handler struct {
	useCase CancelAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CancelAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{slotId}/cancel
// Отменяет запись целиком по любому из ее слотов
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	slotID, err := strconv.ParseInt(mux.Vars(r)["slotId"], 10, 64)
	if err != nil || slotID <= 0 {
		h.logger.Warn("%s - Invalid slot ID: %s", route, mux.Vars(r)["slotId"])
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), &cancelAppointment.Request{
		SlotID: slotID,
		Actor:  actor,
	})
	if err != nil {
		switch {
		case errors.Is(err, cancelAppointment.ErrInvalidInput):
			h.logger.Warn("%s - Invalid input: %v", route, err)
			handlers.RespondBadRequest(w, msgInvalidInput)
		case errors.Is(err, cancelAppointment.ErrSlotNotFound):
			h.logger.Warn("%s - Slot not found: slot_id=%d", route, slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)
		case errors.Is(err, cancelAppointment.ErrNotBooked):
			h.logger.Warn("%s - Slot is not booked: slot_id=%d", route, slotID)
			handlers.RespondNotFound(w, msgNotBooked)
		case errors.Is(err, cancelAppointment.ErrAccessDenied):
			h.logger.Warn("%s - Access denied: slot_id=%d, user_id=%d", route, slotID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)
		default:
			h.logger.Error("%s - Failed to cancel appointment: slot_id=%d, error=%v", route, slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Appointment cancelled: slot_id=%d, released=%d", route, slotID, len(resp.ReleasedSlots))
	handlers.RespondJSON(w, http.StatusOK, &CancelAppointmentResponse{ReleasedSlotIDs: resp.ReleasedIDs()})
}
