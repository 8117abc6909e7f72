package confirm_reservation

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Outcome итог подтверждения
type Outcome string

const (
	OutcomeConfirmed Outcome = "confirmed"
	OutcomeRejected  Outcome = "rejected"
)

// Request модель запроса на подтверждение выбранного блока
type Request struct {
	SessionID uuid.UUID    // ID сессии бронирования
	Actor     domain.Actor // Текущий пользователь
}

// Response результат подтверждения.
// Отказ арбитра не является ошибкой usecase: он возвращается как Outcome=rejected с причиной.
type Response struct {
	Outcome        Outcome
	Reason         domain.RejectionReason // Пусто при успехе
	AppointmentID  *uuid.UUID             // ID записи при успехе
	ConfirmedSlots []*domain.Slot

	// Applied=false означает, что сессия была закрыта или сменила день/услугу,
	// пока шло подтверждение, и результат к ней не применен
	Applied bool

	// Состояние сессии после применения результата (nil, если сессия закрыта)
	Session *domain.Session
	Service *domain.Service
	Display []domain.DisplaySlot
}

// IsConfirmed возвращает true при успешной брони
func (r *Response) IsConfirmed() bool {
	return r.Outcome == OutcomeConfirmed
}
