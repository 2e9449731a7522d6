package postgres

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/gorm"
)

// SharedHelpers contains common database operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (h *SharedHelpers) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return h.db
}

// CountResults counts results recorded for an exam
func (h *SharedHelpers) CountResults(ctx context.Context, tx *gorm.DB, examID uint) (int64, error) {
	var count int64
	err := h.getDB(tx).WithContext(ctx).
		Model(&models.Result{}).
		Where("exam_id = ?", examID).
		Count(&count).Error
	return count, err
}

// ExamOrdering puts dated exams first, newest first. Portable across postgres, mysql and sqlite.
const ExamOrdering = "CASE WHEN exams.exam_date IS NULL THEN 1 ELSE 0 END, exams.exam_date DESC"

// ApplyExamFilters applies common filters to exam queries
func (h *SharedHelpers) ApplyExamFilters(query *gorm.DB, filters repositories.ExamFilters) *gorm.DB {
	if filters.CourseID != nil {
		query = query.Where("exams.course_id = ?", *filters.CourseID)
	}
	if filters.IsPublished != nil {
		query = query.Where("exams.is_published = ?", *filters.IsPublished)
	}
	if filters.CreatedBy != nil {
		query = query.Where("exams.created_by = ?", *filters.CreatedBy)
	}
	return query
}

// ApplyPaginationAndSort applies pagination and sorting with SQL injection protection
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	// Whitelist allowed sort columns
	allowedSortColumns := map[string]string{
		"created_at": "exams.created_at",
		"name":       "exams.name",
		"id":         "exams.id",
	}

	if sortOrder != "asc" && sortOrder != "ASC" {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	if column, ok := allowedSortColumns[sortBy]; ok {
		query = query.Order(column + " " + sortOrder)
	} else {
		query = query.Order(ExamOrdering).Order("exams.name ASC")
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}
