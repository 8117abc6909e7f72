package refresh_session

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers/sessionerr"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

const (
	route = "POST /sessions/{sessionId}/refresh"

	msgScheduleUnavailable = "расписание временно недоступно, повторите попытку"
)

type Handler struct {
	service SessionService
	logger  Logger
}

func NewHandler(service SessionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/sessions/{sessionId}/refresh
// Повторная загрузка дня по запросу пользователя. Если день снова не загрузился, отвечаем 503.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, sessionerr.MsgMissingUserID)
		return
	}

	sessionID, err := uuid.Parse(mux.Vars(r)["sessionId"])
	if err != nil {
		h.logger.Warn("%s - Invalid session ID: %v", route, err)
		handlers.RespondBadRequest(w, sessionerr.MsgInvalidSessionID)
		return
	}

	view, err := h.service.Refresh(r.Context(), actor, sessionID)
	if err != nil {
		sessionerr.Respond(w, h.logger, route, err)
		return
	}

	if view.LoadFailed {
		h.logger.Warn("%s - Schedule still unavailable: session_id=%s", route, sessionID)
		handlers.RespondServiceUnavailable(w, string(domain.ReasonScheduleUnavailable), msgScheduleUnavailable)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, view)
}
