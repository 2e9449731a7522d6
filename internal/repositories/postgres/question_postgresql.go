package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/exam-service/internal/cache"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewQuestionPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.QuestionRepository {
	return &QuestionPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (q *QuestionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return q.db
}

func (q *QuestionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	if err := q.getDB(tx).WithContext(ctx).Create(question).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	cache.InvalidateQuestionCache(ctx, q.cacheManager, question.ExamID)
	return nil
}

// Update overwrites text, marks, position and options in place
func (q *QuestionPostgreSQL) Update(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	result := q.getDB(tx).WithContext(ctx).
		Model(question).
		Select("question_text", "marks", "position", "options", "updated_at").
		Updates(question)
	if result.Error != nil {
		return fmt.Errorf("failed to update question: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update question %d: %w", question.ID, repositories.ErrNotFound)
	}
	cache.InvalidateQuestionCache(ctx, q.cacheManager, question.ExamID)
	return nil
}

// DeleteByIDs removes the given questions, scoped to one exam
func (q *QuestionPostgreSQL) DeleteByIDs(ctx context.Context, tx *gorm.DB, examID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	err := q.getDB(tx).WithContext(ctx).
		Where("exam_id = ? AND id IN ?", examID, ids).
		Delete(&models.Question{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete questions: %w", err)
	}
	cache.InvalidateQuestionCache(ctx, q.cacheManager, examID)
	return nil
}

// ListByExam returns an exam's questions in stored order
func (q *QuestionPostgreSQL) ListByExam(ctx context.Context, tx *gorm.DB, examID uint) ([]*models.Question, error) {
	var questions []*models.Question
	err := q.getDB(tx).WithContext(ctx).
		Where("exam_id = ?", examID).
		Order("position ASC, id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

// ListForAttempt returns the sanitized question list. Reads outside a transaction go through the cache.
func (q *QuestionPostgreSQL) ListForAttempt(ctx context.Context, tx *gorm.DB, examID uint) ([]models.AttemptQuestion, error) {
	fetch := func() (interface{}, error) {
		questions, err := q.ListByExam(ctx, tx, examID)
		if err != nil {
			return nil, err
		}
		view := make([]models.AttemptQuestion, 0, len(questions))
		for _, question := range questions {
			view = append(view, question.ForAttempt())
		}
		return view, nil
	}

	if tx != nil {
		view, err := fetch()
		if err != nil {
			return nil, err
		}
		return view.([]models.AttemptQuestion), nil
	}

	var view []models.AttemptQuestion
	err := q.cacheManager.Question.CacheOrExecute(ctx, cache.AttemptQuestionsKey(examID), &view, cache.QuestionCacheConfig.TTL, fetch)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// InvalidateCache drops the cached attempt view of an exam
func (q *QuestionPostgreSQL) InvalidateCache(ctx context.Context, examID uint) {
	cache.InvalidateQuestionCache(ctx, q.cacheManager, examID)
}
