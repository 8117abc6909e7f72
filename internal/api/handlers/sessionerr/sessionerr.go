// Package sessionerr переводит ошибки сервиса сессий в HTTP ответы
package sessionerr

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/sessions"
)

const (
	MsgMissingUserID    = "отсутствует ID пользователя"
	MsgInvalidSessionID = "некорректный ID сессии"

	msgInvalidInput         = "некорректные данные запроса"
	msgDateInPast           = "нельзя записаться на прошедшую дату"
	msgNotClient            = "записываться могут только клиенты"
	msgForbidden            = "доступ запрещен"
	msgSessionNotFound      = "сессия не найдена или истекла"
	msgServiceNotFound      = "услуга не найдена"
	msgStylistNotFound      = "стилист не найден"
	msgOperationPending     = "подтверждение записи еще выполняется"
	msgAlreadyBooked        = "это время уже занято"
	msgNotOffered           = "это время недоступно для записи"
	msgInsufficientCapacity = "недостаточно свободных слотов подряд для выбранной услуги"
	msgNotOnGrid            = "такого времени нет в расписании дня"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Respond отправляет ответ для ошибки сервиса сессий. route используется в логах.
func Respond(w http.ResponseWriter, log Logger, route string, err error) {
	switch {
	case errors.Is(err, sessions.ErrInvalidInput):
		log.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondRejection(w, http.StatusBadRequest, string(domain.ReasonValidation), msgInvalidInput)

	case errors.Is(err, sessions.ErrDateInPast):
		log.Warn("%s - Date in the past: %v", route, err)
		handlers.RespondRejection(w, http.StatusBadRequest, string(domain.ReasonValidation), msgDateInPast)

	case errors.Is(err, sessions.ErrNotClient):
		log.Warn("%s - Not a client", route)
		handlers.RespondForbidden(w, msgNotClient)

	case errors.Is(err, sessions.ErrAccessDenied):
		log.Warn("%s - Access denied", route)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, sessions.ErrSessionNotFound):
		log.Warn("%s - Session not found", route)
		handlers.RespondNotFound(w, msgSessionNotFound)

	case errors.Is(err, sessions.ErrServiceNotFound):
		log.Warn("%s - Service not found", route)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, sessions.ErrStylistNotFound):
		log.Warn("%s - Stylist not found", route)
		handlers.RespondNotFound(w, msgStylistNotFound)

	case errors.Is(err, sessions.ErrOperationPending):
		log.Warn("%s - Operation pending", route)
		handlers.RespondConflict(w, string(domain.ReasonOperationPending), msgOperationPending)

	case errors.Is(err, sessions.ErrAlreadyBooked):
		handlers.RespondConflict(w, string(domain.ReasonAlreadyBooked), msgAlreadyBooked)

	case errors.Is(err, sessions.ErrNotOffered):
		handlers.RespondConflict(w, string(domain.ReasonNotOffered), msgNotOffered)

	case errors.Is(err, sessions.ErrInsufficientCapacity):
		handlers.RespondConflict(w, string(domain.ReasonInsufficientCapacity), msgInsufficientCapacity)

	case errors.Is(err, sessions.ErrSlotNotOnGrid):
		handlers.RespondConflict(w, string(domain.ReasonNotOnGrid), msgNotOnGrid)

	default:
		log.Error("%s - Unexpected error: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
