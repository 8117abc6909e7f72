package confirm_reservation

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SessionID == uuid.Nil {
		return fmt.Errorf("%w: sessionID is required", ErrInvalidInput)
	}

	if req.Actor.ID <= 0 {
		return fmt.Errorf("%w: actor is required", ErrInvalidInput)
	}

	return nil
}

// selectionStillOffered проверяет, что каждый слот выбора по-прежнему свободен
// в заново классифицированном дне
func selectionStillOffered(display []domain.DisplaySlot, slotIDs []int64) bool {
	states := make(map[int64]domain.SlotState, len(display))
	for _, d := range display {
		if id, ok := d.SlotID(); ok {
			states[id] = d.State
		}
	}

	for _, id := range slotIDs {
		if states[id] != domain.SlotStateSelected {
			return false
		}
	}
	return true
}

// verifyCommitted проверяет, что арбитр вернул весь блок, занятый клиентом под одной записью.
// Возвращает ID записи.
func verifyCommitted(confirmed []*domain.Slot, slotIDs []int64, clientID int64) (uuid.UUID, bool) {
	if len(confirmed) != len(slotIDs) || len(confirmed) == 0 {
		return uuid.Nil, false
	}

	expected := make(map[int64]struct{}, len(slotIDs))
	for _, id := range slotIDs {
		expected[id] = struct{}{}
	}

	var appointmentID uuid.UUID
	for i, slot := range confirmed {
		if _, ok := expected[slot.ID]; !ok {
			return uuid.Nil, false
		}
		if !slot.IsBookedBy(clientID) || slot.AppointmentID == nil {
			return uuid.Nil, false
		}
		if i == 0 {
			appointmentID = *slot.AppointmentID
		} else if *slot.AppointmentID != appointmentID {
			return uuid.Nil, false
		}
	}

	return appointmentID, true
}
