package services

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/validator"
)

type gradingService struct {
	db        *gorm.DB
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
	now       func() time.Time
}

func NewGradingService(db *gorm.DB, repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) GradingService {
	return &gradingService{
		db:        db,
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
		now:       time.Now,
	}
}

// RecordSubmission grades a student's answers (question id -> selected option id) and
// stores the result. Grading always reads the live question set, never the cache.
func (s *gradingService) RecordSubmission(ctx context.Context, examID uint, studentID string, answers map[uint]string) (*models.Result, error) {
	s.logger.Info("Recording submission", "exam_id", examID, "student_id", studentID, "answers", len(answers))

	var result *models.Result
	var totalMarks float64
	err := withTx(ctx, s.db, "record submission", func(tx *gorm.DB) error {
		exam, err := s.repo.Exam().GetByID(ctx, tx, examID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrExamNotFound
			}
			return err
		}
		if !exam.IsPublished {
			return ErrExamNotPublished
		}

		enrolled, err := s.repo.Catalog().IsActivelyEnrolled(ctx, tx, studentID, exam.CourseID)
		if err != nil {
			return err
		}
		if !enrolled {
			return ErrExamNotFound
		}

		result, err = s.locateOrCreateResult(ctx, tx, examID, studentID)
		if err != nil {
			return err
		}

		questions, err := s.repo.Question().ListByExam(ctx, tx, examID)
		if err != nil {
			return err
		}

		graded, score := gradeAnswers(questions, answers)
		if err := s.repo.Result().ReplaceAnswers(ctx, tx, result.ID, graded); err != nil {
			return err
		}

		// heals any drift between total_marks and the live question set
		totalMarks, _, err = s.repo.Exam().SyncTotalMarks(ctx, tx, examID)
		if err != nil {
			return err
		}

		submittedAt := s.now().UTC()
		score = models.RoundMarks(score)
		result.Score = &score
		result.Grade = s.gradeFor(score, totalMarks)
		result.SubmittedAt = &submittedAt
		result.IsGraded = true
		if err := s.repo.Result().UpdateGrading(ctx, tx, result); err != nil {
			return err
		}

		result.Answers = make([]models.Answer, 0, len(graded))
		for _, a := range graded {
			result.Answers = append(result.Answers, *a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.repo.Exam().InvalidateCache(ctx, examID)

	s.logger.Info("Submission graded",
		"exam_id", examID,
		"student_id", studentID,
		"result_id", result.ID,
		"score", *result.Score,
		"total_marks", totalMarks)

	event := events.SubmissionGradedEvent{
		ResultID:   result.ID,
		ExamID:     examID,
		StudentID:  studentID,
		Score:      *result.Score,
		TotalMarks: totalMarks,
		GradedAt:   *result.SubmittedAt,
	}
	if result.Grade != nil {
		event.Grade = *result.Grade
	}
	publishEvent(ctx, s.publisher, s.logger, events.TopicSubmissionGraded, event)

	return result, nil
}

// SubmitAnswers accepts option ids, or option texts from older clients, and records them
func (s *gradingService) SubmitAnswers(ctx context.Context, examID uint, studentID string, req *SubmitAnswersRequest) (*models.Result, error) {
	if errors := s.validator.GetBusinessValidator().ValidateSubmission(req); len(errors) > 0 {
		return nil, errors
	}

	needsText := false
	for _, a := range req.Answers {
		if a.SelectedOptionID == "" {
			needsText = true
			break
		}
	}

	var questions []*models.Question
	if needsText {
		var err error
		questions, err = s.repo.Question().ListByExam(ctx, nil, examID)
		if err != nil {
			return nil, persistenceError("load questions", err)
		}
	}

	return s.RecordSubmission(ctx, examID, studentID, resolveAnswerSelections(req.Answers, questions))
}

// locateOrCreateResult returns the unsubmitted result of the pair, creating it if absent
func (s *gradingService) locateOrCreateResult(ctx context.Context, tx *gorm.DB, examID uint, studentID string) (*models.Result, error) {
	existing, err := s.repo.Result().GetByStudentAndExam(ctx, tx, studentID, examID)
	if err == nil {
		if existing.IsSubmitted() {
			return nil, ErrAlreadySubmitted
		}
		s.logger.Warn("Reusing unsubmitted result", "result_id", existing.ID, "exam_id", examID, "student_id", studentID)
		return existing, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, err
	}

	result := &models.Result{StudentID: studentID, ExamID: examID}
	if err := s.repo.Result().Create(ctx, tx, result); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrAlreadySubmitted
		}
		return nil, err
	}
	return result, nil
}

func (s *gradingService) gradeFor(score, totalMarks float64) *string {
	if totalMarks <= 0 {
		return nil
	}
	grade := s.calculateLetterGrade(score / totalMarks * 100)
	return &grade
}
