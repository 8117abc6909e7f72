package update_calendar_slot

// UpdateSlotRequest HTTP request model
type UpdateSlotRequest struct {
	Offered *bool `json:"offered"`
}
