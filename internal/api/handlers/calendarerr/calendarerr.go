// Package calendarerr переводит ошибки сервиса календаря в HTTP ответы
package calendarerr

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar"
)

const (
	MsgMissingUserID    = "отсутствует ID пользователя"
	MsgInvalidStylistID = "некорректный ID стилиста"
	MsgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"

	msgInvalidInput    = "некорректные данные запроса"
	msgForbidden       = "нет доступа к календарю этого стилиста"
	msgStylistNotFound = "стилист не найден"
	msgSlotNotFound    = "слот не найден"
	msgNotOnGrid       = "такого времени нет в сетке дня"
	msgSlotExists      = "слот на это время уже открыт"
	msgSlotBooked      = "слот занят записью клиента"
	msgDateInPast      = "нельзя менять расписание прошедших дней"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Respond отправляет ответ для ошибки сервиса календаря
func Respond(w http.ResponseWriter, log Logger, route string, err error) {
	switch {
	case errors.Is(err, calendar.ErrInvalidInput):
		log.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondRejection(w, http.StatusBadRequest, string(domain.ReasonValidation), msgInvalidInput)

	case errors.Is(err, calendar.ErrDateInPast):
		log.Warn("%s - Date in the past: %v", route, err)
		handlers.RespondRejection(w, http.StatusBadRequest, string(domain.ReasonValidation), msgDateInPast)

	case errors.Is(err, calendar.ErrNotOnGrid):
		log.Warn("%s - Not on grid: %v", route, err)
		handlers.RespondRejection(w, http.StatusBadRequest, string(domain.ReasonNotOnGrid), msgNotOnGrid)

	case errors.Is(err, calendar.ErrAccessDenied):
		log.Warn("%s - Access denied", route)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, calendar.ErrStylistNotFound):
		log.Warn("%s - Stylist not found", route)
		handlers.RespondNotFound(w, msgStylistNotFound)

	case errors.Is(err, calendar.ErrSlotNotFound):
		log.Warn("%s - Slot not found", route)
		handlers.RespondNotFound(w, msgSlotNotFound)

	case errors.Is(err, calendar.ErrSlotAlreadyExists):
		log.Warn("%s - Slot already exists", route)
		handlers.RespondConflict(w, string(domain.ReasonSlotTaken), msgSlotExists)

	case errors.Is(err, calendar.ErrSlotBooked):
		log.Warn("%s - Slot is booked", route)
		handlers.RespondConflict(w, string(domain.ReasonAlreadyBooked), msgSlotBooked)

	default:
		log.Error("%s - Unexpected error: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
