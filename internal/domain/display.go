package domain

import "github.com/m04kA/SMC-SalonBooking/pkg/types"

// SlotState is the viewer-relative display state of a grid position
type SlotState string

const (
	SlotStateUndefined      SlotState = "undefined"
	SlotStateOffered        SlotState = "offered"
	SlotStateSelected       SlotState = "selected"
	SlotStateBookedByOther  SlotState = "booked_by_other"
	SlotStateBookedByViewer SlotState = "booked_by_viewer"
	SlotStateBlocked        SlotState = "blocked"
)

// IsBooked returns true for both booked states
func (s SlotState) IsBooked() bool {
	return s == SlotStateBookedByOther || s == SlotStateBookedByViewer
}

// DisplaySlot is a grid position annotated for the current viewer
type DisplaySlot struct {
	StartTime         types.TimeString
	EndTime           types.TimeString
	Slot              *Slot // nil, если у стилиста нет записи на эту позицию
	State             SlotState
	IsValidBlockStart bool
}

// SlotID returns the underlying record id if the position has one
func (d DisplaySlot) SlotID() (int64, bool) {
	if d.Slot == nil {
		return 0, false
	}
	return d.Slot.ID, true
}
