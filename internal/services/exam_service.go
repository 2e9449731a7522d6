package services

import (
	"context"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/validator"
)

type examService struct {
	repo      repositories.Repository
	db        *gorm.DB
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewExamService(repo repositories.Repository, db *gorm.DB, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) ExamService {
	return &examService{
		repo:      repo,
		db:        db,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *examService) Create(ctx context.Context, req *CreateExamRequest, creatorID string) (*models.Exam, error) {
	s.logger.Info("Creating exam", "creator_id", creatorID, "course_id", req.CourseID, "name", req.Name)

	if errors := s.validator.GetBusinessValidator().ValidateExamCreate(req); len(errors) > 0 {
		return nil, errors
	}

	exists, err := s.repo.Catalog().CourseExists(ctx, nil, req.CourseID)
	if err != nil {
		return nil, persistenceError("check course", err)
	}
	if !exists {
		return nil, ErrCourseNotFound
	}

	exam := &models.Exam{
		CourseID:    req.CourseID,
		Name:        strings.TrimSpace(req.Name),
		Type:        req.Type,
		Date:        req.Date,
		Description: req.Description,
		TotalMarks:  0,
		IsPublished: false,
		CreatedBy:   creatorID,
	}
	if err := s.repo.Exam().Create(ctx, nil, exam); err != nil {
		return nil, persistenceError("create exam", err)
	}

	s.logger.Info("Exam created successfully", "exam_id", exam.ID)
	return exam, nil
}

func (s *examService) UpdateDetails(ctx context.Context, id uint, req *UpdateExamRequest, userID string) (*models.Exam, error) {
	s.logger.Info("Updating exam", "exam_id", id, "user_id", userID)

	if errors := s.validator.GetBusinessValidator().ValidateExamUpdate(req); len(errors) > 0 {
		return nil, errors
	}

	var exam *models.Exam
	var justPublished bool
	err := withTx(ctx, s.db, "update exam", func(tx *gorm.DB) error {
		var err error
		exam, err = s.repo.Exam().GetByID(ctx, tx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrExamNotFound
			}
			return err
		}

		wasPublished := exam.IsPublished
		if !applyExamUpdates(exam, req) {
			return nil
		}
		justPublished = !wasPublished && exam.IsPublished

		return s.repo.Exam().UpdateDetails(ctx, tx, exam)
	})
	if err != nil {
		return nil, err
	}

	s.repo.Exam().InvalidateCache(ctx, id)

	if justPublished {
		s.logger.Info("Exam published", "exam_id", id, "user_id", userID)
		publishEvent(ctx, s.publisher, s.logger, events.TopicExamPublished, events.ExamPublishedEvent{
			ExamID:      exam.ID,
			CourseID:    exam.CourseID,
			Name:        exam.Name,
			Date:        exam.Date,
			TotalMarks:  exam.TotalMarks,
			PublishedBy: userID,
		})
	}

	return exam, nil
}

func (s *examService) Delete(ctx context.Context, id uint, userID string) error {
	s.logger.Info("Deleting exam", "exam_id", id, "user_id", userID)

	err := withTx(ctx, s.db, "delete exam", func(tx *gorm.DB) error {
		if _, err := s.repo.Exam().GetByID(ctx, tx, id); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrExamNotFound
			}
			return err
		}

		results, err := s.repo.Result().CountByExam(ctx, tx, id)
		if err != nil {
			return err
		}
		if results > 0 {
			return ErrExamHasResults
		}

		return s.repo.Exam().Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.repo.Exam().InvalidateCache(ctx, id)
	s.repo.Question().InvalidateCache(ctx, id)

	s.logger.Info("Exam deleted successfully", "exam_id", id)
	return nil
}

// ===== READ OPERATIONS =====

func (s *examService) GetByID(ctx context.Context, id uint) (*models.Exam, error) {
	exam, err := s.repo.Exam().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, persistenceError("get exam", err)
	}
	return exam, nil
}

// GetWithQuestions is the staff view, correctness flags included
func (s *examService) GetWithQuestions(ctx context.Context, id uint) (*models.Exam, error) {
	exam, err := s.repo.Exam().GetByIDWithQuestions(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, persistenceError("get exam with questions", err)
	}
	return exam, nil
}

func (s *examService) ListByCourse(ctx context.Context, courseID uint) ([]*models.Exam, error) {
	exists, err := s.repo.Catalog().CourseExists(ctx, nil, courseID)
	if err != nil {
		return nil, persistenceError("check course", err)
	}
	if !exists {
		return nil, ErrCourseNotFound
	}

	exams, err := s.repo.Exam().List(ctx, nil, repositories.ExamFilters{CourseID: &courseID})
	if err != nil {
		return nil, persistenceError("list course exams", err)
	}
	return exams, nil
}

// ===== HELPERS =====

// applyExamUpdates copies the requested fields and reports whether anything changed
func applyExamUpdates(exam *models.Exam, req *UpdateExamRequest) bool {
	changed := false

	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != exam.Name {
			exam.Name = name
			changed = true
		}
	}
	if req.Type != nil && *req.Type != exam.Type {
		exam.Type = *req.Type
		changed = true
	}
	if req.ClearDate && exam.Date != nil {
		exam.Date = nil
		changed = true
	}
	if req.Date != nil && (exam.Date == nil || !req.Date.Equal(*exam.Date)) {
		date := *req.Date
		exam.Date = &date
		changed = true
	}
	if req.Description != nil && (exam.Description == nil || *req.Description != *exam.Description) {
		desc := *req.Description
		exam.Description = &desc
		changed = true
	}
	if req.IsPublished != nil && *req.IsPublished != exam.IsPublished {
		exam.IsPublished = *req.IsPublished
		changed = true
	}

	return changed
}
