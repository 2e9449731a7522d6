package postgres

import (
	"context"
	"fmt"
	"math"

	"github.com/SAP-F-2025/exam-service/internal/cache"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type ExamPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewExamPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.ExamRepository {
	return &ExamPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cacheManager,
	}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (e *ExamPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return e.db
}

// Create inserts a new exam
func (e *ExamPostgreSQL) Create(ctx context.Context, tx *gorm.DB, exam *models.Exam) error {
	if err := e.getDB(tx).WithContext(ctx).Create(exam).Error; err != nil {
		return fmt.Errorf("failed to create exam: %w", err)
	}
	return nil
}

// GetByID retrieves an exam. Reads outside a transaction go through the cache.
func (e *ExamPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Exam, error) {
	fetch := func() (interface{}, error) {
		var exam models.Exam
		if err := e.getDB(tx).WithContext(ctx).First(&exam, id).Error; err != nil {
			return nil, fmt.Errorf("failed to get exam: %w", err)
		}
		return &exam, nil
	}

	if tx != nil {
		exam, err := fetch()
		if err != nil {
			return nil, err
		}
		return exam.(*models.Exam), nil
	}

	var exam models.Exam
	err := e.cacheManager.Exam.CacheOrExecute(ctx, cache.ExamKey(id), &exam, cache.ExamCacheConfig.TTL, fetch)
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

// GetByIDWithQuestions retrieves an exam with its questions in stored order
func (e *ExamPostgreSQL) GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id uint) (*models.Exam, error) {
	var exam models.Exam
	err := e.getDB(tx).WithContext(ctx).
		Preload("Course").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		First(&exam, id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get exam with questions: %w", err)
	}
	return &exam, nil
}

// UpdateDetails writes exam metadata. Total marks are never written here.
func (e *ExamPostgreSQL) UpdateDetails(ctx context.Context, tx *gorm.DB, exam *models.Exam) error {
	result := e.getDB(tx).WithContext(ctx).
		Model(exam).
		Select("name", "type", "exam_date", "description", "is_published", "updated_at").
		Updates(exam)
	if result.Error != nil {
		return fmt.Errorf("failed to update exam: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update exam %d: %w", exam.ID, repositories.ErrNotFound)
	}

	cache.InvalidateExamCache(ctx, e.cacheManager, exam.ID)
	return nil
}

// Delete removes an exam and its questions
func (e *ExamPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := e.getDB(tx).WithContext(ctx)

	if err := db.Where("exam_id = ?", id).Delete(&models.Question{}).Error; err != nil {
		return fmt.Errorf("failed to delete exam questions: %w", err)
	}

	result := db.Delete(&models.Exam{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete exam: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete exam %d: %w", id, repositories.ErrNotFound)
	}

	cache.InvalidateExamCache(ctx, e.cacheManager, id)
	cache.InvalidateQuestionCache(ctx, e.cacheManager, id)
	return nil
}

// List returns exams matching the filters, newest dated exam first by default
func (e *ExamPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ExamFilters) ([]*models.Exam, error) {
	var exams []*models.Exam

	query := e.getDB(tx).WithContext(ctx).Model(&models.Exam{})
	query = e.helpers.ApplyExamFilters(query, filters)
	query = e.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Find(&exams).Error; err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}
	return exams, nil
}

// ListPublishedByCourses returns published exams of the given courses ordered by
// date (undated last), course name, then exam name
func (e *ExamPostgreSQL) ListPublishedByCourses(ctx context.Context, tx *gorm.DB, courseIDs []uint) ([]*models.Exam, error) {
	if len(courseIDs) == 0 {
		return []*models.Exam{}, nil
	}

	var exams []*models.Exam
	err := e.getDB(tx).WithContext(ctx).
		Model(&models.Exam{}).
		Joins("JOIN courses ON courses.id = exams.course_id").
		Where("exams.course_id IN ? AND exams.is_published = ?", courseIDs, true).
		Order(ExamOrdering).
		Order("courses.name ASC").
		Order("exams.name ASC").
		Preload("Course").
		Find(&exams).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list published exams: %w", err)
	}
	return exams, nil
}

// SyncTotalMarks recomputes the exam total from its live questions and persists it
// only when it differs from the stored figure
func (e *ExamPostgreSQL) SyncTotalMarks(ctx context.Context, tx *gorm.DB, examID uint) (float64, bool, error) {
	db := e.getDB(tx).WithContext(ctx)

	var exam models.Exam
	if err := db.Select("id", "total_marks").First(&exam, examID).Error; err != nil {
		return 0, false, fmt.Errorf("failed to load exam total: %w", err)
	}

	var marks []float64
	if err := db.Model(&models.Question{}).Where("exam_id = ?", examID).Order("id ASC").Pluck("marks", &marks).Error; err != nil {
		return 0, false, fmt.Errorf("failed to load question marks: %w", err)
	}

	var sum float64
	for _, m := range marks {
		sum += m
	}
	total := models.RoundMarks(sum)
	if math.IsInf(total, 0) || math.IsNaN(total) {
		return 0, false, fmt.Errorf("total marks of exam %d is not finite", examID)
	}

	if total == exam.TotalMarks {
		return total, false, nil
	}

	if err := db.Model(&models.Exam{}).Where("id = ?", examID).Update("total_marks", total).Error; err != nil {
		return 0, false, fmt.Errorf("failed to update total marks: %w", err)
	}

	cache.InvalidateExamCache(ctx, e.cacheManager, examID)
	return total, true, nil
}

// InvalidateCache drops cached views of an exam
func (e *ExamPostgreSQL) InvalidateCache(ctx context.Context, examID uint) {
	cache.InvalidateExamCache(ctx, e.cacheManager, examID)
}
