package validator

import (
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/social-service/internal/models"
)

const (
	MaxCommentLength     = 2000
	MaxDisplayNameLength = 120
)

// BusinessValidator handles rules that go beyond struct tags
type BusinessValidator struct {
	validate *validator.Validate
}

func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	if err := bv.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateConnectionRequest rejects requests a profile makes to itself
func (bv *BusinessValidator) ValidateConnectionRequest(requesterID, recipientID string) ValidationErrors {
	var errors ValidationErrors

	if strings.TrimSpace(recipientID) == "" {
		errors = append(errors, ValidationError{
			Field:   "recipient_id",
			Message: "is required",
			Rule:    "required",
		})
	}
	if requesterID != "" && requesterID == recipientID {
		errors = append(errors, ValidationError{
			Field:   "recipient_id",
			Message: "cannot connect to yourself",
			Value:   recipientID,
			Rule:    "self_connection",
		})
	}

	return errors
}

// ValidateProfileUpdate checks the request and that the photo URL, if set, is http(s)
func (bv *BusinessValidator) ValidateProfileUpdate(req *models.UpdateProfileRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if req.PhotoURL != nil && *req.PhotoURL != "" {
		lower := strings.ToLower(*req.PhotoURL)
		if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
			errors = append(errors, ValidationError{
				Field:   "photo_url",
				Message: "must use http or https",
				Value:   *req.PhotoURL,
				Rule:    "http_url",
			})
		}
	}

	return errors
}

func (bv *BusinessValidator) registerBusinessRules() {
	bv.validate.RegisterValidation("reaction_type", func(fl validator.FieldLevel) bool {
		return models.ReactionType(fl.Field().String()).IsValid()
	})

	// Empty content is allowed here; the comment service treats it as a no-op.
	bv.validate.RegisterValidation("comment_content", func(fl validator.FieldLevel) bool {
		content := strings.TrimSpace(fl.Field().String())
		return utf8.RuneCountInString(content) <= MaxCommentLength
	})

	bv.validate.RegisterValidation("display_name", func(fl validator.FieldLevel) bool {
		n := utf8.RuneCountInString(strings.TrimSpace(fl.Field().String()))
		return n >= 1 && n <= MaxDisplayNameLength
	})
}
