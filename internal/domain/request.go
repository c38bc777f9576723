package domain

import "time"

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusConfirmed RequestStatus = "CONFIRMED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCanceled  RequestStatus = "CANCELED"
)

// IsLive reports whether the status still counts toward the one-request-per-
// (event, requester) rule.
func (s RequestStatus) IsLive() bool {
	return s == RequestStatusPending || s == RequestStatusConfirmed
}

// ParticipationRequest is a join attempt by a non-initiator user against one event.
type ParticipationRequest struct {
	ID          int64         `json:"id"`
	EventID     int64         `json:"event"`
	RequesterID int64         `json:"requester"`
	Created     time.Time     `json:"created"`
	Status      RequestStatus `json:"status"`
}

// AdjudicationResult carries the outcome of one moderation batch.
type AdjudicationResult struct {
	Confirmed []ParticipationRequest `json:"confirmedRequests"`
	Rejected  []ParticipationRequest `json:"rejectedRequests"`
}
