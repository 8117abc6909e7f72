package open_calendar_day

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

const (
	route = "POST /stylists/{stylistId}/calendar/days"

	msgInvalidRequestBody = "некорректное тело запроса"
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

// Handle POST /api/v1/stylists/{stylistId}/calendar/days
// Открывает все позиции сетки дня, на которых еще нет слотов
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

	var req OpenDayRequest
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

	resp, err := h.service.OpenDay(r.Context(), &models.OpenDayRequest{
		Actor:     actor,
		StylistID: stylistID,
		Date:      date,
	})
	if err != nil {
		calendarerr.Respond(w, h.logger, route, err)
		return
	}

	h.logger.Info("%s - Day opened: stylist_id=%d, date=%s, created=%d", route, stylistID, req.Date, resp.Created)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
