package open_session

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/service/sessions/models"
)

type SessionService interface {
	Open(ctx context.Context, req *models.OpenSessionRequest) (*models.SessionView, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
