package validator

import (
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

// CreateExamRequest represents the request structure for creating exams
type CreateExamRequest struct {
	CourseID    uint            `json:"course_id" validate:"required"`
	Name        string          `json:"name" validate:"required,exam_name"`
	Type        models.ExamType `json:"type" validate:"required,exam_type"`
	Date        *time.Time      `json:"date"`
	Description *string         `json:"description" validate:"omitempty,max=5000"`
}

// UpdateExamRequest carries any subset of the editable exam details
type UpdateExamRequest struct {
	Name        *string          `json:"name" validate:"omitempty,exam_name"`
	Type        *models.ExamType `json:"type" validate:"omitempty,exam_type"`
	Date        *time.Time       `json:"date"`
	ClearDate   bool             `json:"clear_date"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	IsPublished *bool            `json:"is_published"`
}

// ReconcileQuestionsRequest is the full desired question set of an exam. Questions
// must be present; an empty list deletes every question.
type ReconcileQuestionsRequest struct {
	Questions []QuestionEdit `json:"questions" validate:"required,dive"`
}

// QuestionEdit is one record of an edit batch
type QuestionEdit struct {
	Op      string        `json:"op" validate:"required,question_op"`
	ID      uint          `json:"id" validate:"required_unless=Op create"`
	Text    string        `json:"question_text"`
	Marks   *float64      `json:"marks"`
	Options []OptionInput `json:"options"`
}

// OptionInput is an answer option; ID is echoed back for existing options
type OptionInput struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// SubmitAnswersRequest holds one selected option per question
type SubmitAnswersRequest struct {
	Answers []AnswerInput `json:"answers" validate:"dive"`
}

// AnswerInput selects an option by id, or by exact text for older clients
type AnswerInput struct {
	QuestionID         uint   `json:"question_id" validate:"required"`
	SelectedOptionID   string `json:"selected_option_id" validate:"required_without=SelectedOptionText"`
	SelectedOptionText string `json:"selected_option_text"`
}
