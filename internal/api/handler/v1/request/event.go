package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// DateTimeLayout is the wire format for every date field in request bodies
// and query strings.
const DateTimeLayout = "2006-01-02 15:04:05"

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type NewEventRequest struct {
	Title             string   `json:"title" binding:"required"`
	Annotation        string   `json:"annotation" binding:"required"`
	Description       string   `json:"description" binding:"required"`
	Category          int64    `json:"category" binding:"required"`
	Location          Location `json:"location"`
	Paid              bool     `json:"paid"`
	ParticipantLimit  int      `json:"participantLimit"`
	RequestModeration *bool    `json:"requestModeration"`
	EventDate         string   `json:"eventDate" binding:"required" format:"2006-01-02 15:04:05"`
}

func (req *NewEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(3, 120)),
		validation.Field(&req.Annotation, validation.Required, validation.Length(20, 2000)),
		validation.Field(&req.Description, validation.Required, validation.Length(20, 7000)),
		validation.Field(&req.Category, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.ParticipantLimit, validation.Min(0)),
		validation.Field(&req.EventDate, validation.Required, validation.Date(DateTimeLayout)),
	)
}

func (req *NewEventRequest) ParsedEventDate() (time.Time, error) {
	return time.Parse(DateTimeLayout, req.EventDate)
}

// Moderation reports the requestModeration flag, defaulting to true when the
// field was omitted.
func (req *NewEventRequest) Moderation() bool {
	if req.RequestModeration == nil {
		return true
	}

	return *req.RequestModeration
}

type UpdateEventUserRequest struct {
	Title             *string   `json:"title"`
	Annotation        *string   `json:"annotation"`
	Description       *string   `json:"description"`
	Category          *int64    `json:"category"`
	Location          *Location `json:"location"`
	Paid              *bool     `json:"paid"`
	ParticipantLimit  *int      `json:"participantLimit"`
	RequestModeration *bool     `json:"requestModeration"`
	EventDate         *string   `json:"eventDate" format:"2006-01-02 15:04:05"`
	StateAction       string    `json:"stateAction"`
}

func (req *UpdateEventUserRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Length(3, 120)),
		validation.Field(&req.Annotation, validation.Length(20, 2000)),
		validation.Field(&req.Description, validation.Length(20, 7000)),
		validation.Field(&req.Category, validation.Min(int64(1))),
		validation.Field(&req.ParticipantLimit, validation.Min(0)),
		validation.Field(&req.EventDate, validation.Date(DateTimeLayout)),
		validation.Field(&req.StateAction, validation.In("SEND_TO_REVIEW", "CANCEL_REVIEW")),
	)
}

type UpdateEventAdminRequest struct {
	Title             *string   `json:"title"`
	Annotation        *string   `json:"annotation"`
	Description       *string   `json:"description"`
	Category          *int64    `json:"category"`
	Location          *Location `json:"location"`
	Paid              *bool     `json:"paid"`
	ParticipantLimit  *int      `json:"participantLimit"`
	RequestModeration *bool     `json:"requestModeration"`
	EventDate         *string   `json:"eventDate" format:"2006-01-02 15:04:05"`
	StateAction       string    `json:"stateAction"`
}

func (req *UpdateEventAdminRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Length(3, 120)),
		validation.Field(&req.Annotation, validation.Length(20, 2000)),
		validation.Field(&req.Description, validation.Length(20, 7000)),
		validation.Field(&req.Category, validation.Min(int64(1))),
		validation.Field(&req.ParticipantLimit, validation.Min(0)),
		validation.Field(&req.EventDate, validation.Date(DateTimeLayout)),
		validation.Field(&req.StateAction, validation.In("PUBLISH_EVENT", "REJECT_EVENT")),
	)
}

// ParseOptionalDate parses a nullable wire date.
func ParseOptionalDate(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}

	parsed, err := time.Parse(DateTimeLayout, *value)
	if err != nil {
		return nil, err
	}

	return &parsed, nil
}
