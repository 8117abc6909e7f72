package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var (
	// ErrSlotPartiallyBooked запись содержит клиента или услугу без идентификатора записи (или наоборот)
	ErrSlotPartiallyBooked = errors.New("domain: slot booking fields are inconsistent")

	// ErrSlotBookedNotOffered забронированный слот помечен как не предлагаемый
	ErrSlotBookedNotOffered = errors.New("domain: booked slot is not offered")
)

// Slot is a persisted time-slot record of one stylist on one date.
// A slot is booked when AppointmentID is set; ClientID and ServiceID
// are set exactly when it is booked.
type Slot struct {
	ID            int64
	StylistID     int64
	Date          time.Time
	StartTime     types.TimeString
	EndTime       types.TimeString
	IsOffered     bool
	AppointmentID *uuid.UUID
	ClientID      *int64
	ServiceID     *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBooked returns true if the slot belongs to an appointment
func (s *Slot) IsBooked() bool {
	return s.AppointmentID != nil
}

// IsBookedBy returns true if the slot is booked by the given client
func (s *Slot) IsBookedBy(clientID int64) bool {
	return s.IsBooked() && s.ClientID != nil && *s.ClientID == clientID
}

// IsBookable returns true if the slot is offered and carries no booking data
func (s *Slot) IsBookable() bool {
	return s.IsOffered && s.AppointmentID == nil && s.ClientID == nil && s.ServiceID == nil
}

// CheckIntegrity validates booking fields consistency
func (s *Slot) CheckIntegrity() error {
	booked := s.AppointmentID != nil
	if (s.ClientID != nil) != booked || (s.ServiceID != nil) != booked {
		return ErrSlotPartiallyBooked
	}
	if booked && !s.IsOffered {
		return ErrSlotBookedNotOffered
	}
	return nil
}

// Clone returns a copy that does not share pointer fields with s
func (s *Slot) Clone() *Slot {
	c := *s
	if s.AppointmentID != nil {
		id := *s.AppointmentID
		c.AppointmentID = &id
	}
	if s.ClientID != nil {
		id := *s.ClientID
		c.ClientID = &id
	}
	if s.ServiceID != nil {
		id := *s.ServiceID
		c.ServiceID = &id
	}
	return &c
}

// DateOnly truncates t to midnight UTC of its calendar date
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDate returns true if both times fall on the same calendar date
func SameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
