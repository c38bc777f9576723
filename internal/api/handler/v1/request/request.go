package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// EventRequestStatusUpdateRequest is one moderation batch: the ids to decide
// and the verdict to apply.
type EventRequestStatusUpdateRequest struct {
	RequestIDs []int64 `json:"requestIds"`
	Status     string  `json:"status" binding:"required"`
}

func (req *EventRequestStatusUpdateRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required, validation.In("CONFIRMED", "REJECTED")),
	)
}
