package select_slot

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/sessions/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type SessionService interface {
	Select(ctx context.Context, actor domain.Actor, id uuid.UUID, start types.TimeString) (*models.SessionView, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
