package models

import (
	"time"
)

// Result is one student's graded submission for one exam.
// (student_id, exam_id) is unique at the storage level.
type Result struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	StudentID   string     `json:"student_id" gorm:"not null;size:255;uniqueIndex:idx_results_student_exam"`
	ExamID      uint       `json:"exam_id" gorm:"not null;uniqueIndex:idx_results_student_exam;index"`
	Score       *float64   `json:"score"`
	Grade       *string    `json:"grade" gorm:"size:5"`
	SubmittedAt *time.Time `json:"submitted_at"`
	IsGraded    bool       `json:"is_graded" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Exam    *Exam    `json:"exam,omitempty" gorm:"foreignKey:ExamID"`
	Answers []Answer `json:"answers,omitempty" gorm:"foreignKey:ResultID;constraint:OnDelete:CASCADE"`
}

func (Result) TableName() string {
	return "results"
}

func (r *Result) IsSubmitted() bool {
	return r.SubmittedAt != nil
}

// Answer is the audit record of one submitted choice
type Answer struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	ResultID   uint `json:"result_id" gorm:"not null;index"`
	QuestionID uint `json:"question_id" gorm:"not null;index"`

	// Option id is authoritative; text is a snapshot taken at submission
	SelectedOptionID   string `json:"selected_option_id" gorm:"size:36"`
	SelectedOptionText string `json:"selected_option_text" gorm:"type:text"`
	IsCorrect          bool   `json:"is_correct" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
}

func (Answer) TableName() string {
	return "mcq_answers"
}
