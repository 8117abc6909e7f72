package domain

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// ErrInvalidSchedule возвращается при некорректных настройках рабочего дня
var ErrInvalidSchedule = errors.New("domain: invalid day schedule")

// DaySchedule describes the salon working day used to build the slot grid.
// The same schedule applies to every stylist and every date.
type DaySchedule struct {
	DayStart            types.TimeString
	DayEnd              types.TimeString
	SlotDurationMinutes int
}

// DefaultDaySchedule returns the 09:00-20:00 day with 30 minute slots
func DefaultDaySchedule() DaySchedule {
	return DaySchedule{
		DayStart:            DefaultDayStart,
		DayEnd:              DefaultDayEnd,
		SlotDurationMinutes: DefaultSlotDurationMinutes,
	}
}

// Validate checks bounds and slot length
func (s DaySchedule) Validate() error {
	if err := s.DayStart.Validate(); err != nil {
		return fmt.Errorf("%w: day start: %v", ErrInvalidSchedule, err)
	}
	if err := s.DayEnd.Validate(); err != nil {
		return fmt.Errorf("%w: day end: %v", ErrInvalidSchedule, err)
	}
	if !s.DayStart.IsBefore(s.DayEnd) {
		return fmt.Errorf("%w: day start %s must be before day end %s", ErrInvalidSchedule, s.DayStart, s.DayEnd)
	}
	if s.SlotDurationMinutes < MinSlotDurationMinutes || s.SlotDurationMinutes > MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slot duration must be between %d and %d minutes",
			ErrInvalidSchedule, MinSlotDurationMinutes, MaxSlotDurationMinutes)
	}
	return nil
}
