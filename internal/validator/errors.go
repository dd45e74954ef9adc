package validator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError is a single field failure returned to API clients
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// ToValidationErrors converts a go-playground error into ValidationErrors.
// Non-validation errors become a single entry without a field.
func ToValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Message: err.Error()}}
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: errorMessage(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return out
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "url":
		return "must be a valid URL"
	case "reaction_type":
		return "must be one of like, love, rocket, clap"
	case "comment_content":
		return fmt.Sprintf("must be at most %d characters", MaxCommentLength)
	case "display_name":
		return fmt.Sprintf("must be between 1 and %d characters", MaxDisplayNameLength)
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}
