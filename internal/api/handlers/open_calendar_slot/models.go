package open_calendar_slot

// OpenSlotRequest HTTP request model
type OpenSlotRequest struct {
	Date      string `json:"date"`      // "2026-03-10"
	StartTime string `json:"startTime"` // "10:00"
}
