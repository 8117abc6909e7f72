package cancel_appointment

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// ReservationService интерфейс арбитра бронирований
type ReservationService interface {
	CommitCancellation(ctx context.Context, req domain.CancellationRequest) ([]*domain.Slot, error)
}

// Metrics интерфейс доменных метрик
type Metrics interface {
	RecordCancellation(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
