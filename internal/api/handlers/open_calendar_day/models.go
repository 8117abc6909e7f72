package open_calendar_day

// OpenDayRequest HTTP request model
type OpenDayRequest struct {
	Date string `json:"date"` // "2026-03-10"
}
