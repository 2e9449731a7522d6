package repositories

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"gorm.io/gorm"
)

// ===== SHARED FILTER STRUCTS =====

type ExamFilters struct {
	CourseID    *uint   `json:"course_id"`
	IsPublished *bool   `json:"is_published"`
	CreatedBy   *string `json:"created_by"`
	Limit       int     `json:"limit"`
	Offset      int     `json:"offset"`
	SortBy      string  `json:"sort_by"`    // "date", "name", "created_at"
	SortOrder   string  `json:"sort_order"` // "asc", "desc"
}

// ExamRepository persists exam definitions. It is the only writer of Exam.TotalMarks.
type ExamRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, exam *models.Exam) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Exam, error)
	GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id uint) (*models.Exam, error)
	UpdateDetails(ctx context.Context, tx *gorm.DB, exam *models.Exam) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters ExamFilters) ([]*models.Exam, error)
	ListPublishedByCourses(ctx context.Context, tx *gorm.DB, courseIDs []uint) ([]*models.Exam, error)

	// Derived total marks, recomputed from the live question set
	SyncTotalMarks(ctx context.Context, tx *gorm.DB, examID uint) (total float64, changed bool, err error)

	// Cache maintenance
	InvalidateCache(ctx context.Context, examID uint)
}

// ResultRepository persists graded submissions and their answer trail
type ResultRepository interface {
	// Create inserts a result; a second result for the same (student, exam) fails with ErrDuplicateKey
	Create(ctx context.Context, tx *gorm.DB, result *models.Result) error
	GetByIDWithAnswers(ctx context.Context, tx *gorm.DB, id uint) (*models.Result, error)
	GetByStudentAndExam(ctx context.Context, tx *gorm.DB, studentID string, examID uint) (*models.Result, error)
	UpdateGrading(ctx context.Context, tx *gorm.DB, result *models.Result) error

	// Answer trail
	ReplaceAnswers(ctx context.Context, tx *gorm.DB, resultID uint, answers []*models.Answer) error
	GetAnswers(ctx context.Context, tx *gorm.DB, resultID uint) ([]*models.Answer, error)

	// Query operations
	ListByExam(ctx context.Context, tx *gorm.DB, examID uint) ([]*models.Result, error)
	ListByStudent(ctx context.Context, tx *gorm.DB, studentID string, examIDs []uint) ([]*models.Result, error)

	// Validation and checks
	ExistsForStudent(ctx context.Context, tx *gorm.DB, examID uint, studentID string) (bool, error)
	CountByExam(ctx context.Context, tx *gorm.DB, examID uint) (int64, error)
}

// CatalogRepository reads the course catalog and enrollments owned by the portal
type CatalogRepository interface {
	CourseExists(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
	IsActivelyEnrolled(ctx context.Context, tx *gorm.DB, studentID string, courseID uint) (bool, error)
	ActiveCourseIDs(ctx context.Context, tx *gorm.DB, studentID string) ([]uint, error)
}
