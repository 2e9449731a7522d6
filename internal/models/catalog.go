package models

import "time"

// Course and Enrollment are owned by the portal's catalog module; this service only reads them.

type Course struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Code      string    `json:"code" gorm:"size:20;uniqueIndex"`
	Name      string    `json:"name" gorm:"not null;size:100"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Course) TableName() string {
	return "courses"
}

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentDropped   EnrollmentStatus = "dropped"
	EnrollmentCompleted EnrollmentStatus = "completed"
)

type Enrollment struct {
	ID         uint             `json:"id" gorm:"primaryKey"`
	StudentID  string           `json:"student_id" gorm:"not null;size:255;index:idx_enrollment_student_course"`
	CourseID   uint             `json:"course_id" gorm:"not null;index:idx_enrollment_student_course"`
	Status     EnrollmentStatus `json:"status" gorm:"not null;size:20;default:active"`
	EnrolledAt time.Time        `json:"enrolled_at"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`

	Course *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
