package open_calendar_day

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar/models"
)

type CalendarService interface {
	OpenDay(ctx context.Context, req *models.OpenDayRequest) (*models.OpenDayResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
