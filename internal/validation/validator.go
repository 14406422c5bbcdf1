// package validation provides helper functions for request data validation.
// It uses the go-playground/validator library and includes custom validation rules.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/YusovID/library-service/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validate = validator.New()
	isbnRe   = regexp.MustCompile(`^[0-9][0-9-]{8,15}[0-9Xx]$`)
)

// init registers custom validation rules with the validator instance.
func init() {
	rules := map[string]validator.Func{
		// isbn accepts ISBN-10 and ISBN-13 with optional hyphens.
		"isbn": func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			if s == "" {
				return true
			}

			digits := strings.ReplaceAll(s, "-", "")

			return isbnRe.MatchString(s) && (len(digits) == 10 || len(digits) == 13)
		},
		// copy_status accepts the statuses an operator may set directly.
		"copy_status": func(fl validator.FieldLevel) bool {
			s := domain.CopyStatus(fl.Field().String())
			return s.Valid() && s != domain.CopyLoaned
		},
		// money accepts a positive decimal with at most two fractional digits.
		"money": func(fl validator.FieldLevel) bool {
			d, err := decimal.NewFromString(fl.Field().String())
			if err != nil {
				return false
			}

			return d.IsPositive() && d.Exponent() >= -2
		},
	}

	for tag, fn := range rules {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("failed to register custom validation %q: %v", tag, err))
		}
	}
}

// ValidationError is a custom error type that holds a slice of validation error messages.
type ValidationError struct {
	Errors []string
}

// Error returns a single string concatenating all validation error messages.
func (v *ValidationError) Error() string {
	return strings.Join(v.Errors, ", ")
}

// ValidateStruct performs validation on a given struct based on its validation tags.
// If validation fails, it returns a *ValidationError with user-friendly messages.
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		var validationErrors []string

		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return &ValidationError{Errors: []string{err.Error()}}
		}

		for _, err := range fieldErrs {
			var message string

			switch err.Tag() {
			case "isbn":
				message = fmt.Sprintf("field '%s' must be a valid ISBN-10 or ISBN-13", err.Field())
			case "copy_status":
				message = fmt.Sprintf("field '%s' must be one of Available, Reserved, Maintenance, Damaged", err.Field())
			case "money":
				message = fmt.Sprintf("field '%s' must be a positive amount with at most two decimal places", err.Field())
			default:
				message = fmt.Sprintf(
					"field '%s' failed on the '%s' tag",
					err.Field(),
					err.Tag(),
				)
			}

			validationErrors = append(validationErrors, message)
		}

		return &ValidationError{Errors: validationErrors}
	}

	return nil
}
