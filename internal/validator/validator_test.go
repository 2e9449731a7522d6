package validator

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestValidateExamCreate(t *testing.T) {
	bv := New().GetBusinessValidator()

	tests := []struct {
		name      string
		req       CreateExamRequest
		wantField string
	}{
		{
			name: "valid",
			req:  CreateExamRequest{CourseID: 1, Name: "Midterm", Type: models.ExamMidterm},
		},
		{
			name:      "missing course",
			req:       CreateExamRequest{Name: "Midterm", Type: models.ExamMidterm},
			wantField: "course_id",
		},
		{
			name:      "blank name",
			req:       CreateExamRequest{CourseID: 1, Name: "   ", Type: models.ExamQuiz},
			wantField: "name",
		},
		{
			name:      "name too long",
			req:       CreateExamRequest{CourseID: 1, Name: strings.Repeat("x", 151), Type: models.ExamQuiz},
			wantField: "name",
		},
		{
			name:      "unknown type",
			req:       CreateExamRequest{CourseID: 1, Name: "Lab", Type: "Lab"},
			wantField: "type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := bv.ValidateExamCreate(&tt.req)
			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Fatalf("unexpected errors: %v", errs)
				}
				return
			}
			if len(errs) == 0 || errs[0].Field != tt.wantField {
				t.Fatalf("errors = %v, want field %s", errs, tt.wantField)
			}
		})
	}
}

func TestValidateExamUpdate(t *testing.T) {
	bv := New().GetBusinessValidator()

	if errs := bv.ValidateExamUpdate(&UpdateExamRequest{}); len(errs) != 0 {
		t.Errorf("empty update should be valid, got %v", errs)
	}
	if errs := bv.ValidateExamUpdate(&UpdateExamRequest{Type: ptr(models.ExamType("Oral"))}); len(errs) != 1 {
		t.Errorf("invalid type: got %v", errs)
	}
	errs := bv.ValidateExamUpdate(&UpdateExamRequest{ClearDate: true, Date: ptr(time.Now())})
	if len(errs) != 1 || errs[0].Field != "clear_date" {
		t.Errorf("clear_date with date: got %v", errs)
	}
}

func TestValidateQuestionBatch(t *testing.T) {
	bv := New().GetBusinessValidator()

	ok := &ReconcileQuestionsRequest{Questions: []QuestionEdit{
		{Op: OpCreate, Text: "new"},
		{Op: OpUpdate, ID: 3, Text: "edited"},
		{Op: OpDelete, ID: 4},
	}}
	if errs := bv.ValidateQuestionBatch(ok); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	bad := &ReconcileQuestionsRequest{Questions: []QuestionEdit{
		{Op: "upsert", ID: 1, Text: "x"},
		{Op: OpDelete},
	}}
	errs := bv.ValidateQuestionBatch(bad)
	if len(errs) != 2 {
		t.Fatalf("errors = %v, want 2", errs)
	}
	if errs[0].Field != "questions[0].op" || errs[1].Field != "questions[1].id" {
		t.Errorf("fields = %s, %s", errs[0].Field, errs[1].Field)
	}
	if !errors.Is(errs, ErrValidationFailed) {
		t.Error("ValidationErrors should match ErrValidationFailed")
	}

	missing := bv.ValidateQuestionBatch(&ReconcileQuestionsRequest{})
	if len(missing) != 1 || missing[0].Field != "questions" || missing[0].Rule != "required" {
		t.Errorf("missing list errors = %v", missing)
	}
	if errs := bv.ValidateQuestionBatch(&ReconcileQuestionsRequest{Questions: []QuestionEdit{}}); len(errs) != 0 {
		t.Errorf("empty list errors = %v, want none", errs)
	}
}

func TestValidateSubmission(t *testing.T) {
	bv := New().GetBusinessValidator()

	tests := []struct {
		name    string
		answers []AnswerInput
		wantErr bool
	}{
		{"by id", []AnswerInput{{QuestionID: 1, SelectedOptionID: "a"}}, false},
		{"by text", []AnswerInput{{QuestionID: 1, SelectedOptionText: "Paris"}}, false},
		{"empty submission", nil, false},
		{"no selection", []AnswerInput{{QuestionID: 1}}, true},
		{"no question", []AnswerInput{{SelectedOptionID: "a"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := bv.ValidateSubmission(&SubmitAnswersRequest{Answers: tt.answers})
			if (len(errs) > 0) != tt.wantErr {
				t.Errorf("errors = %v, wantErr %v", errs, tt.wantErr)
			}
		})
	}
}

func TestToValidationErrors_NonValidatorError(t *testing.T) {
	errs := ToValidationErrors(errors.New("bad json"))
	if len(errs) != 1 || errs[0].Field != "request" {
		t.Errorf("ToValidationErrors() = %v", errs)
	}
}
