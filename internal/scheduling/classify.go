package scheduling

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// ClassifyInput входные данные классификатора
type ClassifyInput struct {
	Grid     Grid
	Date     time.Time
	Slots    []*domain.Slot
	Selected []int64
	Viewer   domain.Actor

	// Service nil означает, что услуга не выбрана и допустимых начал блока нет
	Service *domain.Service
}

// Classify сопоставляет позиции сетки с записями слотов и вычисляет
// состояние каждой позиции для текущего пользователя.
//
// Допустимость начала блока считается по состояниям без учета выбора,
// поэтому блок, пересекающийся с текущим выбором, тоже считается допустимым.
func Classify(in ClassifyInput) []domain.DisplaySlot {
	byStart := indexSlots(in.Slots, in.Date)

	display := make([]domain.DisplaySlot, len(in.Grid))
	for i, iv := range in.Grid {
		d := domain.DisplaySlot{
			StartTime: iv.Start,
			EndTime:   iv.End,
			State:     domain.SlotStateUndefined,
		}
		if slot, ok := byStart[iv.Start.Minutes()]; ok {
			d.Slot = slot
			d.State = baseState(slot, in.Viewer)
		}
		display[i] = d
	}

	if in.Service != nil && in.Service.SlotSpan > 0 {
		markBlockStarts(display, in.Service.SlotSpan)
	}

	if len(in.Selected) > 0 {
		selected := make(map[int64]struct{}, len(in.Selected))
		for _, id := range in.Selected {
			selected[id] = struct{}{}
		}
		for i := range display {
			if display[i].State != domain.SlotStateOffered || display[i].Slot == nil {
				continue
			}
			if _, ok := selected[display[i].Slot.ID]; ok {
				display[i].State = domain.SlotStateSelected
				display[i].IsValidBlockStart = false
			}
		}
	}

	return display
}

// ClassifySession классифицирует день сессии
func ClassifySession(grid Grid, session *domain.Session, service *domain.Service) []domain.DisplaySlot {
	return Classify(ClassifyInput{
		Grid:     grid,
		Date:     session.Date,
		Slots:    session.Slots,
		Selected: session.SelectedSlotIDs,
		Viewer:   session.Actor,
		Service:  service,
	})
}

// baseState состояние записи без учета выбора.
// Запись с клиентом считается забронированной даже без идентификатора записи.
func baseState(slot *domain.Slot, viewer domain.Actor) domain.SlotState {
	if slot.IsBooked() || slot.ClientID != nil {
		if viewer.IsClient() && slot.ClientID != nil && *slot.ClientID == viewer.ID {
			return domain.SlotStateBookedByViewer
		}
		return domain.SlotStateBookedByOther
	}

	// Услуга без брони: запись повреждена, предлагать её нельзя
	if slot.ServiceID != nil {
		return domain.SlotStateBlocked
	}

	if slot.IsOffered {
		return domain.SlotStateOffered
	}
	return domain.SlotStateBlocked
}

// markBlockStarts отмечает позиции, с которых начинается span подряд идущих Offered
func markBlockStarts(display []domain.DisplaySlot, span int) {
	run := 0
	for i := len(display) - 1; i >= 0; i-- {
		if display[i].State == domain.SlotStateOffered {
			run++
		} else {
			run = 0
		}
		display[i].IsValidBlockStart = run >= span
	}
}

// indexSlots индексирует записи даты по минуте начала.
// При дубликатах предпочтение отдается забронированной записи, иначе первой.
func indexSlots(slots []*domain.Slot, date time.Time) map[int]*domain.Slot {
	byStart := make(map[int]*domain.Slot, len(slots))
	for _, slot := range slots {
		if slot == nil || !domain.SameDate(slot.Date, date) {
			continue
		}
		key := slot.StartTime.Minutes()
		if key < 0 {
			continue
		}
		if existing, ok := byStart[key]; ok && (existing.IsBooked() || !slot.IsBooked()) {
			continue
		}
		byStart[key] = slot
	}
	return byStart
}
