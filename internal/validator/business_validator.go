package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

const maxExamNameLength = 150

// Edit operations accepted in a question batch
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(jsonTagName)

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	if err := bv.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateExamCreate validates exam creation
func (bv *BusinessValidator) ValidateExamCreate(req *CreateExamRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateExamUpdate validates a partial exam update
func (bv *BusinessValidator) ValidateExamUpdate(req *UpdateExamRequest) ValidationErrors {
	errors := bv.Validate(req)

	if req.ClearDate && req.Date != nil {
		errors = append(errors, ValidationError{
			Field:   "clear_date",
			Message: "cannot be combined with date",
			Value:   req.ClearDate,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateQuestionBatch checks the shape of an edit batch. Content problems of a
// single record (empty text, bad options) are not errors here; the editor skips them.
func (bv *BusinessValidator) ValidateQuestionBatch(req *ReconcileQuestionsRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateSubmission validates submitted answers
func (bv *BusinessValidator) ValidateSubmission(req *SubmitAnswersRequest) ValidationErrors {
	return bv.Validate(req)
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Exam kind must be one of the known values
	bv.validate.RegisterValidation("exam_type", func(fl validator.FieldLevel) bool {
		return models.ExamType(fl.Field().String()).IsValid()
	})

	// Exam name: 1-150 characters after trimming
	bv.validate.RegisterValidation("exam_name", func(fl validator.FieldLevel) bool {
		name := strings.TrimSpace(fl.Field().String())
		n := utf8.RuneCountInString(name)
		return n >= 1 && n <= maxExamNameLength
	})

	bv.validate.RegisterValidation("question_op", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case OpCreate, OpUpdate, OpDelete:
			return true
		}
		return false
	})
}

// errorMessage returns user-friendly error messages
func errorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "required_unless", "required_without":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "exam_type":
		return "must be one of Midterm, Final, Quiz, Assignment, Project"
	case "exam_name":
		return fmt.Sprintf("must be between 1 and %d characters", maxExamNameLength)
	case "question_op":
		return "must be one of create, update, delete"
	default:
		return fmt.Sprintf("failed on %s validation", err.Tag())
	}
}
