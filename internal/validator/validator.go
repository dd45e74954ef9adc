package validator

import (
	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with the service's custom tags
type Validator struct {
	validate *validator.Validate
	business *BusinessValidator
}

func New() *Validator {
	business := NewBusinessValidator()
	return &Validator{
		validate: business.validate,
		business: business,
	}
}

// Validate runs struct tag validation and returns ValidationErrors on failure
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}
