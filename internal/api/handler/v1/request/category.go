package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type NewCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func (req *NewCategoryRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 50)),
	)
}
