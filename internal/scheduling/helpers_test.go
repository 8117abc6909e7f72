package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var testDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func offered(id int64, start, end types.TimeString) *domain.Slot {
	return &domain.Slot{
		ID:        id,
		StylistID: 7,
		Date:      testDate,
		StartTime: start,
		EndTime:   end,
		IsOffered: true,
	}
}

func blocked(id int64, start, end types.TimeString) *domain.Slot {
	s := offered(id, start, end)
	s.IsOffered = false
	return s
}

func booked(id int64, start, end types.TimeString, clientID int64, appointment uuid.UUID) *domain.Slot {
	s := offered(id, start, end)
	s.AppointmentID = ptr.Ptr(appointment)
	s.ClientID = ptr.Ptr(clientID)
	s.ServiceID = ptr.Ptr(int64(3))
	return s
}

func states(display []domain.DisplaySlot) []domain.SlotState {
	out := make([]domain.SlotState, len(display))
	for i, d := range display {
		out[i] = d.State
	}
	return out
}

func validStarts(display []domain.DisplaySlot) []types.TimeString {
	out := make([]types.TimeString, 0)
	for _, d := range display {
		if d.IsValidBlockStart {
			out = append(out, d.StartTime)
		}
	}
	return out
}
