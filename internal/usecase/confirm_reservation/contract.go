package confirm_reservation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// SessionStore интерфейс хранилища сессий бронирования
type SessionStore interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	Replace(ctx context.Context, session *domain.Session) error
	AcquirePending(ctx context.Context, id uuid.UUID) (bool, error)
	ReleasePending(ctx context.Context, id uuid.UUID) error
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByStylistAndDate(ctx context.Context, stylistID int64, date time.Time) ([]*domain.Slot, error)
}

// CatalogRepository интерфейс справочника услуг
type CatalogRepository interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
}

// ReservationService интерфейс арбитра бронирований
type ReservationService interface {
	CommitReservation(ctx context.Context, req domain.ReservationRequest) ([]*domain.Slot, error)
}

// Metrics интерфейс доменных метрик
type Metrics interface {
	RecordReservation(outcome, reason string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
