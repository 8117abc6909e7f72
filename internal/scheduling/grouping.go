package scheduling

import (
	"sort"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// GroupByAppointment собирает забронированные слоты в логические записи.
// Слоты без идентификатора записи пропускаются. Результат отсортирован по (дата, начало).
// Если слоты одной записи идут не подряд, у сводки Contiguous = false.
func GroupByAppointment(slots []*domain.ReservedSlot) []domain.AppointmentSummary {
	groups := make(map[uuid.UUID][]*domain.ReservedSlot)
	order := make([]uuid.UUID, 0)
	for _, s := range slots {
		if s == nil || s.AppointmentID == nil {
			continue
		}
		id := *s.AppointmentID
		if _, ok := groups[id]; !ok {
			order = append(order, id)
		}
		groups[id] = append(groups[id], s)
	}

	summaries := make([]domain.AppointmentSummary, 0, len(groups))
	for _, id := range order {
		members := groups[id]
		sort.SliceStable(members, func(i, j int) bool {
			return slotBefore(&members[i].Slot, &members[j].Slot)
		})
		summaries = append(summaries, summarize(id, members))
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime.IsBefore(b.StartTime)
		}
		return a.AppointmentID.String() < b.AppointmentID.String()
	})

	return summaries
}

func summarize(id uuid.UUID, members []*domain.ReservedSlot) domain.AppointmentSummary {
	first := members[0]
	last := members[len(members)-1]

	summary := domain.AppointmentSummary{
		AppointmentID:   id,
		AnyMemberSlotID: first.ID,
		StylistID:       first.StylistID,
		StylistName:     first.StylistName,
		SalonName:       first.SalonName,
		ServiceName:     first.ServiceName,
		ServicePrice:    first.ServicePrice,
		Date:            first.Date,
		StartTime:       first.StartTime,
		EndTime:         last.EndTime,
		SlotCount:       len(members),
		Contiguous:      isContiguous(members),
	}
	if first.ClientID != nil {
		summary.ClientID = *first.ClientID
	}
	if first.ServiceID != nil {
		summary.ServiceID = *first.ServiceID
	}

	return summary
}

func isContiguous(members []*domain.ReservedSlot) bool {
	for i := 1; i < len(members); i++ {
		prev, cur := members[i-1], members[i]
		if !domain.SameDate(prev.Date, cur.Date) || prev.StylistID != cur.StylistID {
			return false
		}
		if prev.EndTime != cur.StartTime {
			return false
		}
	}
	return true
}

func slotBefore(a, b *domain.Slot) bool {
	if !domain.SameDate(a.Date, b.Date) {
		return a.Date.Before(b.Date)
	}
	return a.StartTime.IsBefore(b.StartTime)
}
