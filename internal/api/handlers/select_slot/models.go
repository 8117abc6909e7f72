package select_slot

// SelectSlotRequest HTTP request model
type SelectSlotRequest struct {
	StartTime string `json:"startTime"` // "10:00"
}
