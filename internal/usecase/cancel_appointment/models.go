package cancel_appointment

import "github.com/m04kA/SMC-SalonBooking/internal/domain"

const (
	outcomeCancelled = "cancelled"
	outcomeRejected  = "rejected"
	outcomeFailed    = "failed"
)

// Request модель запроса на отмену записи по любому ее слоту
type Request struct {
	SlotID int64        // ID любого слота записи
	Actor  domain.Actor // Текущий пользователь
}

// Response модель ответа с освобожденными слотами записи
type Response struct {
	ReleasedSlots []*domain.Slot
}

// ReleasedIDs возвращает ID освобожденных слотов
func (r *Response) ReleasedIDs() []int64 {
	ids := make([]int64, len(r.ReleasedSlots))
	for i, slot := range r.ReleasedSlots {
		ids[i] = slot.ID
	}
	return ids
}
