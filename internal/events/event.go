package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	EventSource  = "exam-service"
	EventVersion = "1.0"
)

// Topics published by the exam service
const (
	TopicExamPublished       = "exam.published"
	TopicQuestionsReconciled = "exam.questions_reconciled"
	TopicSubmissionGraded    = "exam.submission_graded"
)

// Topics lists every topic the service emits
var Topics = []string{TopicExamPublished, TopicQuestionsReconciled, TopicSubmissionGraded}

// Event is the envelope written to every topic
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Source    string          `json:"source"`
	Version   string          `json:"version"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// EventPublisher publishes domain events. Callers publish after commit.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
	Close() error
}

// NewEvent wraps data in a fresh envelope
func NewEvent(eventType string, data interface{}) (*Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      payload,
	}, nil
}

// ===== PAYLOADS =====

type ExamPublishedEvent struct {
	ExamID      uint       `json:"exam_id"`
	CourseID    uint       `json:"course_id"`
	Name        string     `json:"name"`
	Date        *time.Time `json:"date,omitempty"`
	TotalMarks  float64    `json:"total_marks"`
	PublishedBy string     `json:"published_by"`
}

type QuestionsReconciledEvent struct {
	ExamID     uint    `json:"exam_id"`
	SavedCount int     `json:"saved_count"`
	Deleted    int     `json:"deleted"`
	Skipped    int     `json:"skipped"`
	TotalMarks float64 `json:"total_marks"`
	EditedBy   string  `json:"edited_by"`
}

type SubmissionGradedEvent struct {
	ResultID   uint      `json:"result_id"`
	ExamID     uint      `json:"exam_id"`
	StudentID  string    `json:"student_id"`
	Score      float64   `json:"score"`
	TotalMarks float64   `json:"total_marks"`
	Grade      string    `json:"grade"`
	GradedAt   time.Time `json:"graded_at"`
}
