package cancel_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/reservations"
)

// UseCase use case отмены записи целиком
type UseCase struct {
	reservations ReservationService
	metrics      Metrics
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(reservations ReservationService, metrics Metrics, logger Logger) *UseCase {
	return &UseCase{
		reservations: reservations,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute освобождает все слоты записи, к которой относится переданный слот
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelAppointment: slot=%d, actor=%d (%s)", req.SlotID, req.Actor.ID, req.Actor.Role)

	// 1. Валидация входных данных
	if req.SlotID <= 0 {
		return nil, fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}
	if req.Actor.ID <= 0 {
		return nil, fmt.Errorf("%w: actor is required", ErrInvalidInput)
	}

	// 2. Отменяем запись у арбитра
	released, err := uc.reservations.CommitCancellation(ctx, domain.CancellationRequest{
		SlotID: req.SlotID,
		Actor:  req.Actor,
	})
	if err != nil {
		mapped := mapError(err)
		if errors.Is(mapped, ErrInternal) {
			uc.metrics.RecordCancellation(outcomeFailed)
			uc.logger.Error("CancelAppointment: failed for slot=%d: %v", req.SlotID, err)
		} else {
			uc.metrics.RecordCancellation(outcomeRejected)
			uc.logger.Warn("CancelAppointment: rejected for slot=%d: %v", req.SlotID, err)
		}
		return nil, mapped
	}

	// 3. Каждый слот записи должен стать свободным
	if err := verifyReleased(released, req.SlotID); err != nil {
		uc.metrics.RecordCancellation(outcomeFailed)
		uc.logger.Error("CancelAppointment: slot=%d: %v", req.SlotID, err)
		return nil, err
	}

	uc.metrics.RecordCancellation(outcomeCancelled)
	uc.logger.Info("CancelAppointment: released %d slots via slot=%d", len(released), req.SlotID)

	return &Response{ReleasedSlots: released}, nil
}

func verifyReleased(released []*domain.Slot, slotID int64) error {
	found := false
	for _, slot := range released {
		if slot.ID == slotID {
			found = true
		}
		if slot.IsBooked() || slot.ClientID != nil || slot.ServiceID != nil {
			return fmt.Errorf("%w: slot %d is still booked", ErrIncompleteRelease, slot.ID)
		}
		if !slot.IsOffered {
			return fmt.Errorf("%w: slot %d is not offered", ErrIncompleteRelease, slot.ID)
		}
	}
	if !found {
		return fmt.Errorf("%w: slot %d is missing from the released set", ErrIncompleteRelease, slotID)
	}
	return nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, reservations.ErrSlotNotFound):
		return ErrSlotNotFound
	case errors.Is(err, reservations.ErrNotBooked):
		return ErrNotBooked
	case errors.Is(err, reservations.ErrAccessDenied):
		return ErrAccessDenied
	case errors.Is(err, reservations.ErrInvalidInput):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
