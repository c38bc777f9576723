package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type NewHitRequest struct {
	App       string `json:"app" binding:"required"`
	URI       string `json:"uri" binding:"required"`
	IP        string `json:"ip" binding:"required"`
	Timestamp string `json:"timestamp" binding:"required" format:"2006-01-02 15:04:05"`
}

func (req *NewHitRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.App, validation.Required),
		validation.Field(&req.URI, validation.Required),
		validation.Field(&req.IP, validation.Required),
		validation.Field(&req.Timestamp, validation.Required, validation.Date(DateTimeLayout)),
	)
}

func (req *NewHitRequest) ParsedTimestamp() (time.Time, error) {
	return time.Parse(DateTimeLayout, req.Timestamp)
}
