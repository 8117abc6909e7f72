package reservations

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Slot, error)
	GetByAppointmentID(ctx context.Context, appointmentID uuid.UUID) ([]*domain.Slot, error)
	Reserve(ctx context.Context, ids []int64, appointmentID uuid.UUID, clientID, serviceID int64) (int64, error)
	Release(ctx context.Context, appointmentID uuid.UUID) (int64, error)
}

// CatalogRepository интерфейс справочника услуг
type CatalogRepository interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
