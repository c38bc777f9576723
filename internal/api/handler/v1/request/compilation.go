package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type NewCompilationRequest struct {
	Title  string  `json:"title" binding:"required"`
	Pinned bool    `json:"pinned"`
	Events []int64 `json:"events"`
}

func (req *NewCompilationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 50)),
	)
}

// UpdateCompilationRequest is a partial edit; a nil Events slice leaves the
// event set untouched.
type UpdateCompilationRequest struct {
	Title  *string `json:"title"`
	Pinned *bool   `json:"pinned"`
	Events []int64 `json:"events"`
}

func (req *UpdateCompilationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Length(1, 50)),
	)
}
