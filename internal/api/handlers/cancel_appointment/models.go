package cancel_appointment

// CancelAppointmentResponse HTTP response model
type CancelAppointmentResponse struct {
	ReleasedSlotIDs []int64 `json:"releasedSlotIds"`
}
