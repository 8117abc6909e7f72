package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Session is the reservation context of one client viewing one stylist's day.
// Generation grows on every context change (date, service, close) so that
// results of operations started earlier can be recognised as stale.
type Session struct {
	ID        uuid.UUID
	Actor     Actor
	StylistID int64
	Date      time.Time
	ServiceID int64

	SelectedStart   types.TimeString
	SelectedSlotIDs []int64

	Slots      []*Slot
	LoadFailed bool
	Generation int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClearSelection drops the selected block
func (s *Session) ClearSelection() {
	s.SelectedStart = ""
	s.SelectedSlotIDs = nil
}

// HasSelection returns true if a block is selected
func (s *Session) HasSelection() bool {
	return len(s.SelectedSlotIDs) > 0
}

// Clone returns a deep copy
func (s *Session) Clone() *Session {
	c := *s
	if s.SelectedSlotIDs != nil {
		c.SelectedSlotIDs = append([]int64(nil), s.SelectedSlotIDs...)
	}
	if s.Slots != nil {
		c.Slots = make([]*Slot, len(s.Slots))
		for i, slot := range s.Slots {
			c.Slots[i] = slot.Clone()
		}
	}
	return &c
}
