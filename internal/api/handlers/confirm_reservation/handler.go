package confirm_reservation

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers/sessionerr"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	confirmReservation "github.com/m04kA/SMC-SalonBooking/internal/usecase/confirm_reservation"
)

const (
	route = "POST /sessions/{sessionId}/confirm"

	msgInvalidInput     = "некорректные данные запроса"
	msgNotClient        = "записываться могут только клиенты"
	msgForbidden        = "доступ запрещен"
	msgSessionNotFound  = "сессия не найдена или истекла"
	msgServiceNotFound  = "услуга не найдена"
	msgEmptySelection   = "сначала выберите время"
	msgOperationPending = "подтверждение записи уже выполняется"
)

type Handler struct {
	useCase ConfirmReservationUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/sessions/{sessionId}/confirm
// Отказ арбитра возвращается телом с outcome=rejected и причиной, а не ошибкой
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

	resp, err := h.useCase.Execute(r.Context(), &confirmReservation.Request{
		SessionID: sessionID,
		Actor:     actor,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	body := FromUseCaseResponse(resp)

	if resp.IsConfirmed() {
		h.logger.Info("%s - Reservation confirmed: session_id=%s, appointment_id=%s", route, sessionID, *body.AppointmentID)
		handlers.RespondJSON(w, http.StatusOK, body)
		return
	}

	h.logger.Warn("%s - Reservation rejected: session_id=%s, reason=%s", route, sessionID, resp.Reason)
	handlers.RespondJSON(w, statusForReason(resp.Reason), body)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, confirmReservation.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondRejection(w, http.StatusBadRequest, string(domain.ReasonValidation), msgInvalidInput)

	case errors.Is(err, confirmReservation.ErrNotClient):
		h.logger.Warn("%s - Not a client", route)
		handlers.RespondForbidden(w, msgNotClient)

	case errors.Is(err, confirmReservation.ErrAccessDenied):
		h.logger.Warn("%s - Access denied", route)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, confirmReservation.ErrSessionNotFound):
		h.logger.Warn("%s - Session not found", route)
		handlers.RespondNotFound(w, msgSessionNotFound)

	case errors.Is(err, confirmReservation.ErrServiceNotFound):
		h.logger.Warn("%s - Service not found", route)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, confirmReservation.ErrEmptySelection):
		handlers.RespondConflict(w, string(domain.ReasonValidation), msgEmptySelection)

	case errors.Is(err, confirmReservation.ErrOperationPending):
		h.logger.Warn("%s - Operation pending", route)
		handlers.RespondConflict(w, string(domain.ReasonOperationPending), msgOperationPending)

	default:
		h.logger.Error("%s - Unexpected error: %v", route, err)
		handlers.RespondInternalError(w)
	}
}

func statusForReason(reason domain.RejectionReason) int {
	if reason == domain.ReasonServerError {
		return http.StatusInternalServerError
	}
	return http.StatusConflict
}
