package open_calendar_slot

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers/calendarerr"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

const (
	route = "POST /stylists/{stylistId}/calendar/slots"

	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
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

// Handle POST /api/v1/stylists/{stylistId}/calendar/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, calendarerr.MsgMissingUserID)
		return
	}

	stylistID, err := strconv.ParseInt(mux.Vars(r)["stylistId"], 10, 64)
	if err != nil || stylistID <= 0 {
		h.logger.Warn("%s - Invalid stylist ID: %s", route, mux.Vars(r)["stylistId"])
		handlers.RespondBadRequest(w, calendarerr.MsgInvalidStylistID)
		return
	}

	var req OpenSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		handlers.RespondBadRequest(w, calendarerr.MsgInvalidDate)
		return
	}
	start, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	slot, err := h.service.OpenSlot(r.Context(), &models.OpenSlotRequest{
		Actor:     actor,
		StylistID: stylistID,
		Date:      date,
		StartTime: start,
	})
	if err != nil {
		calendarerr.Respond(w, h.logger, route, err)
		return
	}

	h.logger.Info("%s - Slot opened: slot_id=%d, stylist_id=%d", route, slot.ID, stylistID)
	handlers.RespondJSON(w, http.StatusCreated, slot)
}
