package domain

// Salon is a salon location
type Salon struct {
	ID   int64
	Name string
}

// Stylist is an employee offering slots
type Stylist struct {
	ID        int64
	SalonID   int64
	Name      string
	SalonName string
}

// Service is a bookable salon service. SlotSpan is the number of
// consecutive grid slots one appointment for it occupies.
type Service struct {
	ID       int64
	Name     string
	Price    float64
	SlotSpan int
}
