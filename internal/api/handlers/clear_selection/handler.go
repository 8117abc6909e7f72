package clear_selection

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers/sessionerr"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
)

const route = "DELETE /sessions/{sessionId}/selection"

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

// Handle DELETE /api/v1/sessions/{sessionId}/selection
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

	view, err := h.service.ClearSelection(r.Context(), actor, sessionID)
	if err != nil {
		sessionerr.Respond(w, h.logger, route, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, view)
}
