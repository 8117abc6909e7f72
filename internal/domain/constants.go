package domain

// Default schedule values
const (
	DefaultDayStart            = "09:00"
	DefaultDayEnd              = "20:00"
	DefaultSlotDurationMinutes = 30
)

// Business validation constants
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 240 // 4 hours
	MaxServiceSlotSpan     = 16
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
