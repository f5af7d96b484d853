package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/identity-service/internal/models"
)

// ValidationError represents a single field failure.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

// ValidationErrors collects every failing field rather than stopping at the
// first violation.
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

// Fields returns the field→message mapping for boundary responses.
func (ve ValidationErrors) Fields() map[string]string {
	fields := make(map[string]string, len(ve))
	for _, err := range ve {
		fields[err.Field] = err.Message
	}
	return fields
}

// Validator bundles struct validation with identity-specific rules.
type Validator struct {
	business *BusinessValidator
}

func New() *Validator {
	return &Validator{business: NewBusinessValidator()}
}

func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}

// BusinessValidator validates request DTOs against identity business rules.
type BusinessValidator struct {
	validate *validator.Validate
}

func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates a struct and collects every field error.
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	var errors ValidationErrors

	err := bv.validate.Struct(s)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			errors = append(errors, ValidationError{
				Field:   strings.ToLower(err.Field()),
				Message: bv.getErrorMessage(err),
				Value:   err.Value(),
				Rule:    err.Tag(),
			})
		}
	}

	return errors
}

func (bv *BusinessValidator) registerBusinessRules() {
	// Username: 3-50 characters after trimming
	bv.validate.RegisterValidation("username_format", func(fl validator.FieldLevel) bool {
		username := strings.TrimSpace(fl.Field().String())
		return len(username) >= 3 && len(username) <= 50
	})

	// Plaintext password length before hashing: 6-40 characters
	bv.validate.RegisterValidation("password_length", func(fl validator.FieldLevel) bool {
		password := fl.Field().String()
		return len(password) >= 6 && len(password) <= 40
	})

	// Role names come from the closed catalog only
	bv.validate.RegisterValidation("role_name", func(fl validator.FieldLevel) bool {
		return models.IsValidRole(strings.ToLower(fl.Field().String()))
	})
}

func (bv *BusinessValidator) getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "username_format":
		return "must be between 3 and 50 characters"
	case "password_length":
		return "must be between 6 and 40 characters"
	case "role_name":
		return "must be one of: student, teacher, parent"
	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}
