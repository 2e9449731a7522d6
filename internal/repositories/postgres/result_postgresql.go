package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type ResultPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewResultPostgreSQL(db *gorm.DB) repositories.ResultRepository {
	return &ResultPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (r *ResultPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Create inserts a result. The (student_id, exam_id) unique index turns a concurrent
// duplicate into ErrDuplicateKey.
func (r *ResultPostgreSQL) Create(ctx context.Context, tx *gorm.DB, result *models.Result) error {
	if err := r.getDB(tx).WithContext(ctx).Create(result).Error; err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return fmt.Errorf("result for student %s exam %d: %w", result.StudentID, result.ExamID, repositories.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create result: %w", err)
	}
	return nil
}

func (r *ResultPostgreSQL) GetByIDWithAnswers(ctx context.Context, tx *gorm.DB, id uint) (*models.Result, error) {
	var result models.Result
	err := r.getDB(tx).WithContext(ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&result, id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get result with answers: %w", err)
	}
	return &result, nil
}

func (r *ResultPostgreSQL) GetByStudentAndExam(ctx context.Context, tx *gorm.DB, studentID string, examID uint) (*models.Result, error) {
	var result models.Result
	err := r.getDB(tx).WithContext(ctx).
		Where("student_id = ? AND exam_id = ?", studentID, examID).
		First(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	return &result, nil
}

// UpdateGrading writes score, grade, submission time and graded flag
func (r *ResultPostgreSQL) UpdateGrading(ctx context.Context, tx *gorm.DB, result *models.Result) error {
	err := r.getDB(tx).WithContext(ctx).
		Model(result).
		Select("score", "grade", "submitted_at", "is_graded", "updated_at").
		Updates(result).Error
	if err != nil {
		return fmt.Errorf("failed to update result grading: %w", err)
	}
	return nil
}

// ReplaceAnswers deletes any prior answers of the result and inserts the given set
func (r *ResultPostgreSQL) ReplaceAnswers(ctx context.Context, tx *gorm.DB, resultID uint, answers []*models.Answer) error {
	db := r.getDB(tx).WithContext(ctx)

	if err := db.Where("result_id = ?", resultID).Delete(&models.Answer{}).Error; err != nil {
		return fmt.Errorf("failed to clear answers: %w", err)
	}

	if len(answers) == 0 {
		return nil
	}

	for _, answer := range answers {
		answer.ResultID = resultID
	}
	if err := db.Create(answers).Error; err != nil {
		return fmt.Errorf("failed to create answers: %w", err)
	}
	return nil
}

func (r *ResultPostgreSQL) GetAnswers(ctx context.Context, tx *gorm.DB, resultID uint) ([]*models.Answer, error) {
	var answers []*models.Answer
	err := r.getDB(tx).WithContext(ctx).
		Where("result_id = ?", resultID).
		Order("id ASC").
		Find(&answers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}
	return answers, nil
}

func (r *ResultPostgreSQL) ListByExam(ctx context.Context, tx *gorm.DB, examID uint) ([]*models.Result, error) {
	var results []*models.Result
	err := r.getDB(tx).WithContext(ctx).
		Where("exam_id = ?", examID).
		Order("id ASC").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list exam results: %w", err)
	}
	return results, nil
}

func (r *ResultPostgreSQL) ListByStudent(ctx context.Context, tx *gorm.DB, studentID string, examIDs []uint) ([]*models.Result, error) {
	if len(examIDs) == 0 {
		return []*models.Result{}, nil
	}
	var results []*models.Result
	err := r.getDB(tx).WithContext(ctx).
		Where("student_id = ? AND exam_id IN ?", studentID, examIDs).
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list student results: %w", err)
	}
	return results, nil
}

func (r *ResultPostgreSQL) ExistsForStudent(ctx context.Context, tx *gorm.DB, examID uint, studentID string) (bool, error) {
	var count int64
	err := r.getDB(tx).WithContext(ctx).
		Model(&models.Result{}).
		Where("exam_id = ? AND student_id = ?", examID, studentID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check result existence: %w", err)
	}
	return count > 0, nil
}

func (r *ResultPostgreSQL) CountByExam(ctx context.Context, tx *gorm.DB, examID uint) (int64, error) {
	count, err := r.helpers.CountResults(ctx, tx, examID)
	if err != nil {
		return 0, fmt.Errorf("failed to count results: %w", err)
	}
	return count, nil
}
