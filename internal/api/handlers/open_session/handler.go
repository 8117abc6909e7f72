package open_session

import (
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers/sessionerr"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
)

const (
	route = "POST /sessions"

	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
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

// Handle POST /api/v1/sessions
// Если день загрузить не удалось, сессия все равно создается с loadFailed=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, sessionerr.MsgMissingUserID)
		return
	}

	var req OpenSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(actor)
	if err != nil {
		h.logger.Warn("%s - Invalid date %q: %v", route, req.Date, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	view, err := h.service.Open(r.Context(), serviceReq)
	if err != nil {
		sessionerr.Respond(w, h.logger, route, err)
		return
	}

	h.logger.Info("%s - Session opened: session_id=%s, user_id=%d, load_failed=%t",
		route, view.SessionID, actor.ID, view.LoadFailed)
	handlers.RespondJSON(w, http.StatusCreated, view)
}
