package domain

import "time"

type EventState string

const (
	EventStatePending   EventState = "PENDING"
	EventStatePublished EventState = "PUBLISHED"
	EventStateCanceled  EventState = "CANCELED"
)

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Event is a capacity-limited activity an initiator publishes for others to join.
// ConfirmedRequests and Views are derived on read and never persisted.
type Event struct {
	ID                int64      `json:"id"`
	Title             string     `json:"title"`
	Annotation        string     `json:"annotation"`
	Description       string     `json:"description"`
	CategoryID        int64      `json:"category"`
	InitiatorID       int64      `json:"initiator"`
	Location          Location   `json:"location"`
	Paid              bool       `json:"paid"`
	ParticipantLimit  int        `json:"participantLimit"` // 0 means unlimited
	RequestModeration bool       `json:"requestModeration"`
	EventDate         time.Time  `json:"eventDate"`
	CreatedOn         time.Time  `json:"createdOn"`
	PublishedOn       *time.Time `json:"publishedOn,omitempty"`
	State             EventState `json:"state"`

	ConfirmedRequests int64 `json:"confirmedRequests"`
	Views             int64 `json:"views"`
}
