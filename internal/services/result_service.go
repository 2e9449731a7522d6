package services

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
)

type resultService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewResultService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) ResultService {
	return &resultService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

// GetResultForReview returns a student's own result with every live question, its
// options and what the student selected. Results of other students are ErrResultNotFound.
func (s *resultService) GetResultForReview(ctx context.Context, resultID uint, studentID string) (*models.ResultReview, error) {
	result, err := s.repo.Result().GetByIDWithAnswers(ctx, nil, resultID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrResultNotFound
		}
		return nil, persistenceError("get result", err)
	}
	if result.StudentID != studentID {
		s.logger.Warn("Result review denied", "result_id", resultID, "student_id", studentID)
		return nil, ErrResultNotFound
	}

	exam, err := s.repo.Exam().GetByIDWithQuestions(ctx, nil, result.ExamID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, persistenceError("get exam", err)
	}

	answers := make(map[uint]*models.Answer, len(result.Answers))
	for i := range result.Answers {
		answers[result.Answers[i].QuestionID] = &result.Answers[i]
	}

	questions := make([]models.ReviewQuestion, 0, len(exam.Questions))
	for _, q := range exam.Questions {
		questions = append(questions, buildReviewQuestion(q, answers[q.ID]))
	}

	// questions are carried by the review entries
	exam.Questions = nil
	return &models.ResultReview{
		Result:    result,
		Exam:      exam,
		Questions: questions,
	}, nil
}

// ListExamResults is the staff view of an exam's results with student names from identity
func (s *resultService) ListExamResults(ctx context.Context, examID uint) ([]*models.ExamResultRow, error) {
	if _, err := s.repo.Exam().GetByID(ctx, nil, examID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, persistenceError("get exam", err)
	}

	results, err := s.repo.Result().ListByExam(ctx, nil, examID)
	if err != nil {
		return nil, persistenceError("list results", err)
	}

	studentIDs := make([]string, 0, len(results))
	for _, r := range results {
		studentIDs = append(studentIDs, r.StudentID)
	}
	names := s.studentNames(ctx, studentIDs)

	rows := make([]*models.ExamResultRow, 0, len(results))
	for _, r := range results {
		name := names[r.StudentID]
		if name == "" {
			name = r.StudentID
		}
		rows = append(rows, &models.ExamResultRow{
			ResultID:    r.ID,
			StudentID:   r.StudentID,
			StudentName: name,
			Score:       r.Score,
			Grade:       r.Grade,
			SubmittedAt: r.SubmittedAt,
			IsGraded:    r.IsGraded,
		})
	}
	return rows, nil
}

// studentNames resolves display names; identity failures only cost the names
func (s *resultService) studentNames(ctx context.Context, ids []string) map[string]string {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 || s.repo.User() == nil {
		return names
	}

	users, err := s.repo.User().GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("Failed to resolve student names", "error", err)
		return names
	}
	for _, u := range users {
		names[u.ID] = u.DisplayName()
	}
	return names
}

func buildReviewQuestion(q models.Question, answer *models.Answer) models.ReviewQuestion {
	review := models.ReviewQuestion{
		QuestionID: q.ID,
		Text:       q.Text,
		Marks:      q.Marks,
		Options:    make([]models.ReviewOption, 0, len(q.Options)),
	}

	selectedID := ""
	if answer != nil {
		selectedID = answer.SelectedOptionID
		id, text := answer.SelectedOptionID, answer.SelectedOptionText
		review.SelectedOptionID = &id
		review.SelectedOptionText = &text
		review.IsStudentCorrect = answer.IsCorrect
	}

	for _, opt := range q.Options {
		review.Options = append(review.Options, models.ReviewOption{
			ID:          opt.ID,
			Text:        opt.Text,
			IsCorrect:   opt.IsCorrect,
			WasSelected: selectedID != "" && opt.ID == selectedID,
		})
	}
	return review
}
