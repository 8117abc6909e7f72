package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// SlotRepository интерфейс чтения слотов
type SlotRepository interface {
	GetByStylistAndDate(ctx context.Context, stylistID int64, date time.Time) ([]*domain.Slot, error)
}

// CatalogRepository интерфейс справочника
type CatalogRepository interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	GetStylist(ctx context.Context, id int64) (*domain.Stylist, error)
}

// SessionStore интерфейс хранилища сессий
type SessionStore interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Replace(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	AcquirePending(ctx context.Context, id uuid.UUID) (bool, error)
	ReleasePending(ctx context.Context, id uuid.UUID) error
	IsPending(ctx context.Context, id uuid.UUID) (bool, error)
}

// Metrics интерфейс доменных метрик
type Metrics interface {
	RecordSelectionRejection(reason string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
