package services

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateExamRequest = validator.CreateExamRequest
type UpdateExamRequest = validator.UpdateExamRequest
type ReconcileQuestionsRequest = validator.ReconcileQuestionsRequest
type QuestionEdit = validator.QuestionEdit
type OptionInput = validator.OptionInput
type SubmitAnswersRequest = validator.SubmitAnswersRequest
type AnswerInput = validator.AnswerInput

// ReconcileResult reports what a reconciliation stored
type ReconcileResult struct {
	SavedCount int                `json:"saved_count"`
	Deleted    int                `json:"deleted"`
	Skipped    int                `json:"skipped"`
	TotalMarks float64            `json:"total_marks"`
	Questions  []*models.Question `json:"questions"`
}

// AttemptView is what a student sees when opening an exam
type AttemptView struct {
	Exam      *models.Exam             `json:"exam"`
	Questions []models.AttemptQuestion `json:"questions"`
}

// ===== SERVICE INTERFACES =====

// ExamService manages exam definitions
type ExamService interface {
	Create(ctx context.Context, req *CreateExamRequest, creatorID string) (*models.Exam, error)
	UpdateDetails(ctx context.Context, id uint, req *UpdateExamRequest, userID string) (*models.Exam, error)
	Delete(ctx context.Context, id uint, userID string) error

	GetByID(ctx context.Context, id uint) (*models.Exam, error)
	GetWithQuestions(ctx context.Context, id uint) (*models.Exam, error)
	ListByCourse(ctx context.Context, courseID uint) ([]*models.Exam, error)
}

// QuestionBankService reconciles the question set of an exam
type QuestionBankService interface {
	Reconcile(ctx context.Context, examID uint, req *ReconcileQuestionsRequest, editorID string) (*ReconcileResult, error)
}

// AttemptService gates student access to exams
type AttemptService interface {
	GetAttemptableExam(ctx context.Context, examID uint, studentID string) (*models.Exam, error)
	HasExistingAttempt(ctx context.Context, examID uint, studentID string) (bool, error)
	GetQuestionsForAttempt(ctx context.Context, examID uint) ([]models.AttemptQuestion, error)

	// GetAttemptView combines the three checks above in the order a student request needs
	GetAttemptView(ctx context.Context, examID uint, studentID string) (*AttemptView, error)
	ListStudentExams(ctx context.Context, studentID string) ([]*models.StudentExamSummary, error)
}

// GradingService records and grades submissions
type GradingService interface {
	RecordSubmission(ctx context.Context, examID uint, studentID string, answers map[uint]string) (*models.Result, error)

	// SubmitAnswers resolves a request (ids or legacy option texts) and records it
	SubmitAnswers(ctx context.Context, examID uint, studentID string, req *SubmitAnswersRequest) (*models.Result, error)
}

// ResultService exposes graded results
type ResultService interface {
	GetResultForReview(ctx context.Context, resultID uint, studentID string) (*models.ResultReview, error)
	ListExamResults(ctx context.Context, examID uint) ([]*models.ExamResultRow, error)
}

// ExportService renders results as spreadsheets
type ExportService interface {
	ExportExamResults(ctx context.Context, examID uint) ([]byte, string, error)
}

// ServiceManager manages all services and their dependencies
type ServiceManager interface {
	Exam() ExamService
	QuestionBank() QuestionBankService
	Attempt() AttemptService
	Grading() GradingService
	Result() ResultService
	Export() ExportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
