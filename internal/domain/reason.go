package domain

// RejectionReason is a machine-readable reason of a rejected operation
type RejectionReason string

const (
	ReasonAlreadyBooked        RejectionReason = "already_booked"
	ReasonNotOffered           RejectionReason = "not_offered"
	ReasonInsufficientCapacity RejectionReason = "insufficient_capacity"
	ReasonNotOnGrid            RejectionReason = "not_on_grid"
	ReasonNoService            RejectionReason = "no_service"
	ReasonSlotTaken            RejectionReason = "slot_taken"
	ReasonValidation           RejectionReason = "validation_error"
	ReasonServerError          RejectionReason = "server_error"
	ReasonPartialCommit        RejectionReason = "partial_commit"
	ReasonOperationPending     RejectionReason = "operation_pending"
	ReasonScheduleUnavailable  RejectionReason = "schedule_unavailable"
)
