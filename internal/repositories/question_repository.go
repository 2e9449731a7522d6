package repositories

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"gorm.io/gorm"
)

// QuestionRepository stores the multiple-choice questions of an exam
type QuestionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, question *models.Question) error
	Update(ctx context.Context, tx *gorm.DB, question *models.Question) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, examID uint, ids []uint) error

	// Query operations, ordered by position then id
	ListByExam(ctx context.Context, tx *gorm.DB, examID uint) ([]*models.Question, error)

	// Attempt view with correctness stripped, served from cache when possible
	ListForAttempt(ctx context.Context, tx *gorm.DB, examID uint) ([]models.AttemptQuestion, error)

	// Cache maintenance
	InvalidateCache(ctx context.Context, examID uint)
}
