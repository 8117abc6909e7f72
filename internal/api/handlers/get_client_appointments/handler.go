package get_client_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
)

const (
	route = "GET /clients/{clientId}/appointments"

	msgMissingUserID   = "отсутствует ID пользователя"
	msgInvalidClientID = "некорректный ID клиента"
	msgForbidden       = "доступ к записям другого клиента запрещен"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/clients/{clientId}/appointments
// Ближайшие и прошедшие записи клиента, сгруппированные по записи
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	clientID, err := strconv.ParseInt(mux.Vars(r)["clientId"], 10, 64)
	if err != nil || clientID <= 0 {
		h.logger.Warn("%s - Invalid client ID: %s", route, mux.Vars(r)["clientId"])
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	resp, err := h.service.ListForClient(r.Context(), &models.ListForClientRequest{
		Actor:    actor,
		ClientID: clientID,
	})
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("%s - Access denied: client_id=%d, user_id=%d", route, clientID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("%s - Invalid input: %v", route, err)
			handlers.RespondBadRequest(w, msgInvalidClientID)
		default:
			h.logger.Error("%s - Failed to list appointments: client_id=%d, error=%v", route, clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
