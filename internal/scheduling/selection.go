package scheduling

import (
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Selection состояние автомата выбора блока: пустой выбор или один выбранный блок.
// Значение неизменяемое, каждый переход возвращает новое значение.
type Selection struct {
	start   types.TimeString
	slotIDs []int64
}

// NewSelection восстанавливает выбор из сохраненной сессии
func NewSelection(start types.TimeString, slotIDs []int64) Selection {
	if len(slotIDs) == 0 {
		return Selection{}
	}
	return Selection{start: start, slotIDs: append([]int64(nil), slotIDs...)}
}

// IsEmpty проверяет, что блок не выбран
func (s Selection) IsEmpty() bool {
	return len(s.slotIDs) == 0
}

// Start время начала выбранного блока
func (s Selection) Start() types.TimeString {
	return s.start
}

// SlotIDs идентификаторы слотов блока в хронологическом порядке
func (s Selection) SlotIDs() []int64 {
	return append([]int64(nil), s.slotIDs...)
}

// Clear сбрасывает выбор
func (s Selection) Clear() Selection {
	return Selection{}
}

// Select выполняет переход по клику на позицию сетки с началом start.
// display должен быть классифицирован с текущим выбором и услугой.
// При отказе возвращается исходный выбор и ошибка с причиной.
func (s Selection) Select(display []domain.DisplaySlot, start types.TimeString, service *domain.Service) (Selection, error) {
	if service == nil || service.SlotSpan <= 0 {
		return s, ErrNoService
	}

	idx := -1
	for i := range display {
		if display[i].StartTime == start {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, fmt.Errorf("%w: %s", ErrSlotNotOnGrid, start)
	}

	clicked := display[idx]
	switch clicked.State {
	case domain.SlotStateSelected:
		return s.Clear(), nil
	case domain.SlotStateBookedByOther, domain.SlotStateBookedByViewer:
		return s, fmt.Errorf("%w: %s", ErrAlreadyBooked, start)
	case domain.SlotStateBlocked, domain.SlotStateUndefined:
		return s, fmt.Errorf("%w: %s", ErrNotOffered, start)
	}

	if !clicked.IsValidBlockStart {
		return s, fmt.Errorf("%w: %s needs %d slots", ErrInsufficientCapacity, start, service.SlotSpan)
	}

	// Блок может пересекаться с текущим выбором: он будет заменен
	if idx+service.SlotSpan > len(display) {
		return s, fmt.Errorf("%w: %s needs %d slots", ErrInsufficientCapacity, start, service.SlotSpan)
	}
	ids := make([]int64, 0, service.SlotSpan)
	for _, d := range display[idx : idx+service.SlotSpan] {
		free := d.State == domain.SlotStateOffered || d.State == domain.SlotStateSelected
		if !free || d.Slot == nil {
			return s, fmt.Errorf("%w: %s needs %d slots", ErrInsufficientCapacity, start, service.SlotSpan)
		}
		ids = append(ids, d.Slot.ID)
	}

	return Selection{start: start, slotIDs: ids}, nil
}

// Reconcile проверяет выбор против заново классифицированного дня.
// Если хотя бы один слот блока перестал быть выбранным (его забронировали
// или закрыли), выбор сбрасывается.
func (s Selection) Reconcile(display []domain.DisplaySlot, span int) Selection {
	if s.IsEmpty() {
		return s
	}
	if len(s.slotIDs) != span {
		return s.Clear()
	}

	selected := 0
	for _, d := range display {
		if d.State == domain.SlotStateSelected {
			selected++
		}
	}
	if selected != len(s.slotIDs) {
		return s.Clear()
	}
	return s
}
