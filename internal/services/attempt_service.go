package services

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/validator"
)

type attemptService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAttemptService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) AttemptService {
	return &attemptService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// GetAttemptableExam returns the exam if it is published and the student is actively
// enrolled in its course. Every other case is ErrExamNotFound.
func (s *attemptService) GetAttemptableExam(ctx context.Context, examID uint, studentID string) (*models.Exam, error) {
	exam, err := s.repo.Exam().GetByID(ctx, nil, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, persistenceError("get exam", err)
	}
	if !exam.IsPublished {
		s.logger.Debug("Exam not published", "exam_id", examID, "student_id", studentID)
		return nil, ErrExamNotFound
	}

	enrolled, err := s.repo.Catalog().IsActivelyEnrolled(ctx, nil, studentID, exam.CourseID)
	if err != nil {
		return nil, persistenceError("check enrollment", err)
	}
	if !enrolled {
		s.logger.Debug("Student not enrolled", "exam_id", examID, "student_id", studentID, "course_id", exam.CourseID)
		return nil, ErrExamNotFound
	}

	return exam, nil
}

func (s *attemptService) HasExistingAttempt(ctx context.Context, examID uint, studentID string) (bool, error) {
	exists, err := s.repo.Result().ExistsForStudent(ctx, nil, examID, studentID)
	if err != nil {
		return false, persistenceError("check attempt", err)
	}
	return exists, nil
}

// GetQuestionsForAttempt returns the questions in stored order without correctness flags
func (s *attemptService) GetQuestionsForAttempt(ctx context.Context, examID uint) ([]models.AttemptQuestion, error) {
	questions, err := s.repo.Question().ListForAttempt(ctx, nil, examID)
	if err != nil {
		return nil, persistenceError("load attempt questions", err)
	}
	if questions == nil {
		questions = []models.AttemptQuestion{}
	}
	return questions, nil
}

func (s *attemptService) GetAttemptView(ctx context.Context, examID uint, studentID string) (*AttemptView, error) {
	exam, err := s.GetAttemptableExam(ctx, examID, studentID)
	if err != nil {
		return nil, err
	}

	attempted, err := s.HasExistingAttempt(ctx, examID, studentID)
	if err != nil {
		return nil, err
	}
	if attempted {
		return nil, ErrAlreadySubmitted
	}

	questions, err := s.GetQuestionsForAttempt(ctx, examID)
	if err != nil {
		return nil, err
	}

	return &AttemptView{Exam: exam, Questions: questions}, nil
}

// ListStudentExams lists published exams of the student's active courses with the
// student's result joined in. Order: date desc (undated last), course name, exam name.
func (s *attemptService) ListStudentExams(ctx context.Context, studentID string) ([]*models.StudentExamSummary, error) {
	courseIDs, err := s.repo.Catalog().ActiveCourseIDs(ctx, nil, studentID)
	if err != nil {
		return nil, persistenceError("list enrollments", err)
	}
	if len(courseIDs) == 0 {
		return []*models.StudentExamSummary{}, nil
	}

	exams, err := s.repo.Exam().ListPublishedByCourses(ctx, nil, courseIDs)
	if err != nil {
		return nil, persistenceError("list published exams", err)
	}

	examIDs := make([]uint, 0, len(exams))
	for _, e := range exams {
		examIDs = append(examIDs, e.ID)
	}

	results, err := s.repo.Result().ListByStudent(ctx, nil, studentID, examIDs)
	if err != nil {
		return nil, persistenceError("list student results", err)
	}
	resultByExam := make(map[uint]*models.Result, len(results))
	for _, r := range results {
		resultByExam[r.ExamID] = r
	}

	summaries := make([]*models.StudentExamSummary, 0, len(exams))
	for _, e := range exams {
		summary := &models.StudentExamSummary{
			ExamID:      e.ID,
			CourseID:    e.CourseID,
			Name:        e.Name,
			Type:        e.Type,
			Date:        e.Date,
			TotalMarks:  e.TotalMarks,
			Description: e.Description,
			Result:      resultByExam[e.ID],
		}
		if e.Course != nil {
			summary.CourseName = e.Course.Name
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}
