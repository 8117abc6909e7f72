package get_stylist_calendar

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
)

const route = "GET /stylists/{stylistId}/calendar"

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

// Handle GET /api/v1/stylists/{stylistId}/calendar?date=2026-03-10
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

	dateStr := r.URL.Query().Get("date")
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("%s - Invalid date %q: %v", route, dateStr, err)
		handlers.RespondBadRequest(w, calendarerr.MsgInvalidDate)
		return
	}

	day, err := h.service.GetDay(r.Context(), &models.GetDayRequest{
		Actor:     actor,
		StylistID: stylistID,
		Date:      date,
	})
	if err != nil {
		calendarerr.Respond(w, h.logger, route, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, day)
}
