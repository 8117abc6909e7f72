package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// ReservedSlot is a booked slot with denormalized data for history views
type ReservedSlot struct {
	Slot

	StylistName  string
	SalonName    string
	ServiceName  string
	ServicePrice float64
}

// AppointmentSummary is one appointment assembled from its member slots
type AppointmentSummary struct {
	AppointmentID   uuid.UUID
	AnyMemberSlotID int64
	ClientID        int64
	StylistID       int64
	StylistName     string
	SalonName       string
	ServiceID       int64
	ServiceName     string
	ServicePrice    float64
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	SlotCount       int

	// Contiguous is false when member slots leave gaps or cross dates
	Contiguous bool
}

// ReservationRequest asks the commit arbiter to book a block of slots
type ReservationRequest struct {
	SlotIDs   []int64
	ClientID  int64
	ServiceID int64
	StylistID int64
	Date      time.Time
}

// CancellationRequest asks the commit arbiter to release an appointment
type CancellationRequest struct {
	SlotID int64
	Actor  Actor
}
