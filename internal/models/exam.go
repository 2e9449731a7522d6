package models

import (
	"time"
)

type ExamType string

const (
	ExamMidterm    ExamType = "Midterm"
	ExamFinal      ExamType = "Final"
	ExamQuiz       ExamType = "Quiz"
	ExamAssignment ExamType = "Assignment"
	ExamProject    ExamType = "Project"
)

// ExamTypes lists the accepted exam kinds in display order
var ExamTypes = []ExamType{ExamMidterm, ExamFinal, ExamQuiz, ExamAssignment, ExamProject}

func (t ExamType) IsValid() bool {
	for _, v := range ExamTypes {
		if v == t {
			return true
		}
	}
	return false
}

type Exam struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	CourseID    uint       `json:"course_id" gorm:"not null;index"`
	Name        string     `json:"name" gorm:"not null;size:150"`
	Type        ExamType   `json:"type" gorm:"not null;size:20"`
	Date        *time.Time `json:"date" gorm:"column:exam_date"`
	TotalMarks  float64    `json:"total_marks" gorm:"not null;default:0"`
	Description *string    `json:"description" gorm:"type:text"`
	IsPublished bool       `json:"is_published" gorm:"not null;default:false;index"`

	// Metadata
	CreatedBy string    `json:"created_by" gorm:"size:255;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Course    *Course    `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE"`
}

func (Exam) TableName() string {
	return "exams"
}
