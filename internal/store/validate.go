package store

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldIssue is a single failed constraint on a record field.
type FieldIssue struct {
	Field   string
	Message string
}

// ValidationError reports every field of a record that failed validation.
type ValidationError struct {
	Model  string
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Field+": "+issue.Message)
	}
	return e.Model + " validation failed: " + strings.Join(parts, ", ")
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report fields by their wire names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// validateRecord checks rec against its validate tags and converts failures into a *ValidationError.
func validateRecord(model string, rec any) error {
	err := recordValidator().Struct(rec)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating %s: %w", model, err)
	}

	verr := &ValidationError{Model: model}
	for _, fe := range fieldErrs {
		verr.Issues = append(verr.Issues, FieldIssue{
			Field:   fe.Field(),
			Message: describe(fe),
		})
	}
	return verr
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Path `%s` is required.", fe.Field())
	case "max":
		return fmt.Sprintf("Path `%s` (`%v`) is longer than the maximum allowed length (%s).", fe.Field(), fe.Value(), fe.Param())
	case "oneof":
		return fmt.Sprintf("`%v` is not a valid enum value for path `%s`.", fe.Value(), fe.Field())
	default:
		return fmt.Sprintf("Path `%s` failed the %s constraint.", fe.Field(), fe.Tag())
	}
}
