package update_calendar_slot

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers/calendarerr"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar/models"
)

const (
	route = "PATCH /calendar/slots/{slotId}"

	msgInvalidSlotID      = "некорректный ID слота"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgOfferedRequired    = "поле offered обязательно"
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/calendar/slots/{slotId}
// Открывает или закрывает свободный слот для записи
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, calendarerr.MsgMissingUserID)
		return
	}

	slotID, err := strconv.ParseInt(mux.Vars(r)["slotId"], 10, 64)
	if err != nil || slotID <= 0 {
		h.logger.Warn("%s - Invalid slot ID: %s", route, mux.Vars(r)["slotId"])
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req UpdateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.Offered == nil {
		handlers.RespondBadRequest(w, msgOfferedRequired)
		return
	}

	slot, err := h.service.SetOffered(r.Context(), &models.SetOfferedRequest{
		Actor:   actor,
		SlotID:  slotID,
		Offered: *req.Offered,
	})
	if err != nil {
		calendarerr.Respond(w, h.logger, route, err)
		return
	}

	h.logger.Info("%s - Slot updated: slot_id=%d, offered=%t", route, slotID, slot.IsOffered)
	handlers.RespondJSON(w, http.StatusOK, slot)
}
