package models

import "time"

// ===== ATTEMPT VIEW DTOs =====

// AttemptOption carries no correctness information
type AttemptOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type AttemptQuestion struct {
	ID      uint            `json:"id"`
	Text    string          `json:"question_text"`
	Marks   float64         `json:"marks"`
	Options []AttemptOption `json:"options"`
}

// ForAttempt strips correctness flags, keeping the stored option order
func (q *Question) ForAttempt() AttemptQuestion {
	options := make([]AttemptOption, 0, len(q.Options))
	for _, opt := range q.Options {
		options = append(options, AttemptOption{ID: opt.ID, Text: opt.Text})
	}
	return AttemptQuestion{
		ID:      q.ID,
		Text:    q.Text,
		Marks:   q.Marks,
		Options: options,
	}
}

// StudentExamSummary is one row of a student's exam listing
type StudentExamSummary struct {
	ExamID      uint       `json:"exam_id"`
	CourseID    uint       `json:"course_id"`
	CourseName  string     `json:"course_name"`
	Name        string     `json:"name"`
	Type        ExamType   `json:"type"`
	Date        *time.Time `json:"date"`
	TotalMarks  float64    `json:"total_marks"`
	Description *string    `json:"description"`
	Result      *Result    `json:"result,omitempty"`
}

// ===== REVIEW DTOs =====

type ReviewOption struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	IsCorrect   bool   `json:"is_correct"`
	WasSelected bool   `json:"was_selected"`
}

type ReviewQuestion struct {
	QuestionID         uint           `json:"question_id"`
	Text               string         `json:"question_text"`
	Marks              float64        `json:"marks"`
	Options            []ReviewOption `json:"options"`
	SelectedOptionID   *string        `json:"selected_option_id"`
	SelectedOptionText *string        `json:"selected_option_text"`
	IsStudentCorrect   bool           `json:"is_student_correct"`
}

type ResultReview struct {
	Result    *Result          `json:"result"`
	Exam      *Exam            `json:"exam"`
	Questions []ReviewQuestion `json:"questions"`
}

// ===== STAFF RESULT DTOs =====

type ExamResultRow struct {
	ResultID    uint       `json:"result_id"`
	StudentID   string     `json:"student_id"`
	StudentName string     `json:"student_name"`
	Score       *float64   `json:"score"`
	Grade       *string    `json:"grade"`
	SubmittedAt *time.Time `json:"submitted_at"`
	IsGraded    bool       `json:"is_graded"`
}
