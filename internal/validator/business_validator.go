package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single rejected form field
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no field errors"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("%s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("%d field errors", len(ve))
}

// Fields returns the names of the rejected fields in order
func (ve ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(ve))
	for _, e := range ve {
		fields = append(fields, e.Field)
	}
	return fields
}

// BusinessValidator checks submitted forms before they reach the backend
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates any struct carrying validate tags
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "form", Message: err.Error(), Rule: "invalid"}}
	}

	var errs ValidationErrors
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   fe.Field(),
			Message: bv.getErrorMessage(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return errs
}

// ValidateCourseCreate validates the create-course form
func (bv *BusinessValidator) ValidateCourseCreate(form *CourseForm) ValidationErrors {
	return bv.Validate(form)
}

// ValidateSubmission validates the student hand-in form
func (bv *BusinessValidator) ValidateSubmission(form *SubmissionForm) ValidationErrors {
	if strings.TrimSpace(form.NotebookContent) == "" {
		return ValidationErrors{{Field: "notebook_content", Message: "is required", Rule: "required"}}
	}
	return nil
}

// ValidateGrade validates a grading row
func (bv *BusinessValidator) ValidateGrade(form *GradeForm) ValidationErrors {
	form.Score = strings.TrimSpace(form.Score)
	return bv.Validate(form)
}

func (bv *BusinessValidator) registerBusinessRules() {
	// Whitespace-only titles are treated as missing
	bv.validate.RegisterValidation("course_title", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// getErrorMessage returns user-friendly error messages
func (bv *BusinessValidator) getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "course_title":
		return "is required"
	case "numeric":
		return "must be a number"
	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}
