package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/exam-service/internal/repositories"
)

const resultsSheet = "Results"

var resultsHeader = []interface{}{
	"Result ID", "Student ID", "Student Name", "Score", "Total Marks", "Grade", "Submitted At", "Graded",
}

type exportService struct {
	repo    repositories.Repository
	results ResultService
	logger  *slog.Logger
}

func NewExportService(repo repositories.Repository, results ResultService, logger *slog.Logger) ExportService {
	return &exportService{
		repo:    repo,
		results: results,
		logger:  logger,
	}
}

// ExportExamResults renders one header row and one row per result as XLSX.
// Returns the file bytes and a suggested file name.
func (s *exportService) ExportExamResults(ctx context.Context, examID uint) ([]byte, string, error) {
	exam, err := s.repo.Exam().GetByID(ctx, nil, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, "", ErrExamNotFound
		}
		return nil, "", persistenceError("get exam", err)
	}

	rows, err := s.results.ListExamResults(ctx, examID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return nil, "", fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(resultsSheet, "A1", &resultsHeader); err != nil {
		return nil, "", fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(resultsHeader))
	if err := f.SetCellStyle(resultsSheet, "A1", lastCol+"1", bold); err != nil {
		return nil, "", fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range rows {
		var score interface{} = ""
		if row.Score != nil {
			score = *row.Score
		}
		grade := ""
		if row.Grade != nil {
			grade = *row.Grade
		}
		submitted := ""
		if row.SubmittedAt != nil {
			submitted = row.SubmittedAt.UTC().Format(time.RFC3339)
		}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []interface{}{
			row.ResultID, row.StudentID, row.StudentName, score, exam.TotalMarks, grade, submitted, row.IsGraded,
		}
		if err := f.SetSheetRow(resultsSheet, cell, &values); err != nil {
			return nil, "", fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Info("Exam results exported", "exam_id", examID, "rows", len(rows))
	return buf.Bytes(), fmt.Sprintf("exam-%d-results.xlsx", examID), nil
}
