package services

import (
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

// normalizeQuestionEdit cleans a create/update record. A non-empty reason means the
// record must be skipped. Option ids found in previous are kept; others get a new UUID.
func normalizeQuestionEdit(edit QuestionEdit, previous []models.QuestionOption) (string, float64, datatypes.JSONSlice[models.QuestionOption], string) {
	text := strings.TrimSpace(edit.Text)
	if text == "" {
		return "", 0, nil, "empty question text"
	}

	marks := models.DefaultQuestionMarks
	if edit.Marks != nil && *edit.Marks > 0 && !math.IsInf(*edit.Marks, 0) && !math.IsNaN(*edit.Marks) {
		if *edit.Marks > models.MaxQuestionMarks {
			return "", 0, nil, "marks above limit"
		}
		marks = *edit.Marks
	}

	known := make(map[string]bool, len(previous))
	for _, opt := range previous {
		known[opt.ID] = true
	}
	used := make(map[string]bool, len(edit.Options))

	options := make(datatypes.JSONSlice[models.QuestionOption], 0, len(edit.Options))
	correct := 0
	for _, in := range edit.Options {
		optText := strings.TrimSpace(in.Text)
		if optText == "" {
			continue
		}

		id := in.ID
		if !known[id] || used[id] {
			id = uuid.NewString()
		}
		used[id] = true

		if in.IsCorrect {
			correct++
		}
		options = append(options, models.QuestionOption{ID: id, Text: optText, IsCorrect: in.IsCorrect})
	}

	if len(options) < models.MinQuestionOptions {
		return "", 0, nil, "fewer than 2 non-empty options"
	}
	if correct != 1 {
		return "", 0, nil, "exactly one option must be correct"
	}

	return text, marks, options, ""
}
