package models

import (
	"math"
	"time"

	"gorm.io/datatypes"
)

// DefaultQuestionMarks applies when a question arrives without a usable marks value
const DefaultQuestionMarks = 1.0

// MaxQuestionMarks is the largest marks value a single question may carry
const MaxQuestionMarks = 1000.0

// MinQuestionOptions is the smallest option list a stored question may carry
const MinQuestionOptions = 2

// RoundMarks rounds a marks figure to 2 decimals
func RoundMarks(v float64) float64 {
	return math.Round(v*100) / 100
}

// QuestionOption is one choice of a multiple-choice question. ID is stable across edits.
type QuestionOption struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type Question struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	ExamID   uint    `json:"exam_id" gorm:"not null;index"`
	Text     string  `json:"question_text" gorm:"column:question_text;type:text;not null"`
	Marks    float64 `json:"marks" gorm:"not null;default:1"`
	Position int     `json:"position" gorm:"not null;default:0"`

	// Ordered option list, serialized as a JSON array
	Options datatypes.JSONSlice[QuestionOption] `json:"options"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "mcq_questions"
}

// CorrectOption returns the option flagged correct. A question with zero or several
// flagged options has no correct option and can never score.
func (q *Question) CorrectOption() (QuestionOption, bool) {
	var found QuestionOption
	count := 0
	for _, opt := range q.Options {
		if opt.IsCorrect {
			found = opt
			count++
		}
	}
	if count != 1 {
		return QuestionOption{}, false
	}
	return found, true
}

// OptionByID looks up an option by its stable identifier
func (q *Question) OptionByID(id string) (QuestionOption, bool) {
	if id == "" {
		return QuestionOption{}, false
	}
	for _, opt := range q.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return QuestionOption{}, false
}

// OptionByText returns the first option whose text matches exactly
func (q *Question) OptionByText(text string) (QuestionOption, bool) {
	for _, opt := range q.Options {
		if opt.Text == text {
			return opt, true
		}
	}
	return QuestionOption{}, false
}
