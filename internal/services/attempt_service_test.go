package services

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

func TestAttemptService_Gating(t *testing.T) {
	env := newTestEnv(t)
	s := env.scenario("alice")
	env.enroll("dropped", s.exam.CourseID, models.EnrollmentDropped)
	draft := env.exam(s.exam.CourseID, "Draft")

	tests := []struct {
		name      string
		examID    uint
		studentID string
		wantErr   error
	}{
		{"published and enrolled", s.exam.ID, "alice", nil},
		{"unpublished", draft.ID, "alice", ErrExamNotFound},
		{"not enrolled", s.exam.ID, "mallory", ErrExamNotFound},
		{"dropped", s.exam.ID, "dropped", ErrExamNotFound},
		{"missing exam", s.exam.ID + 100, "alice", ErrExamNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exam, err := env.services.Attempt().GetAttemptableExam(env.ctx, tt.examID, tt.studentID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if exam.ID != tt.examID {
				t.Errorf("exam id = %d, want %d", exam.ID, tt.examID)
			}
		})
	}
}

func TestAttemptService_QuestionsCarryNoCorrectness(t *testing.T) {
	env := newTestEnv(t)
	s := env.scenario("alice")

	questions, err := env.services.Attempt().GetQuestionsForAttempt(env.ctx, s.exam.ID)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(questions) != 2 || questions[0].ID != s.q1.ID || questions[1].ID != s.q2.ID {
		t.Fatalf("questions = %+v", questions)
	}
	for i, opt := range questions[0].Options {
		if opt.ID != s.q1.Options[i].ID || opt.Text != s.q1.Options[i].Text {
			t.Errorf("option %d = %+v, want stored order", i, opt)
		}
	}

	raw, err := json.Marshal(questions)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "is_correct") {
		t.Errorf("attempt payload leaks correctness: %s", raw)
	}

	// served from cache the second time
	again, err := env.services.Attempt().GetQuestionsForAttempt(env.ctx, s.exam.ID)
	if err != nil || len(again) != 2 {
		t.Fatalf("cached questions = %v, %v", again, err)
	}

	empty := env.exam(s.exam.CourseID, "Empty")
	none, err := env.services.Attempt().GetQuestionsForAttempt(env.ctx, empty.ID)
	if err != nil {
		t.Fatalf("empty exam: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("empty exam questions = %#v, want empty slice", none)
	}
}

func TestAttemptService_AttemptView(t *testing.T) {
	env := newTestEnv(t)
	s := env.scenario("alice")

	attempted, err := env.services.Attempt().HasExistingAttempt(env.ctx, s.exam.ID, "alice")
	if err != nil || attempted {
		t.Fatalf("before submission attempted = %v, %v", attempted, err)
	}

	view, err := env.services.Attempt().GetAttemptView(env.ctx, s.exam.ID, "alice")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.Exam.ID != s.exam.ID || len(view.Questions) != 2 {
		t.Errorf("view = %+v", view)
	}

	if _, err := env.services.Grading().RecordSubmission(env.ctx, s.exam.ID, "alice", map[uint]string{}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	attempted, err = env.services.Attempt().HasExistingAttempt(env.ctx, s.exam.ID, "alice")
	if err != nil || !attempted {
		t.Fatalf("after submission attempted = %v, %v", attempted, err)
	}
	if _, err := env.services.Attempt().GetAttemptView(env.ctx, s.exam.ID, "alice"); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("view after submission err = %v, want ErrAlreadySubmitted", err)
	}
	if _, err := env.services.Attempt().GetAttemptView(env.ctx, s.exam.ID, "mallory"); !errors.Is(err, ErrExamNotFound) {
		t.Errorf("view for outsider err = %v, want ErrExamNotFound", err)
	}
}

func TestAttemptService_ListStudentExams(t *testing.T) {
	env := newTestEnv(t)
	algebra := env.course("Algebra")
	biology := env.course("Biology")
	history := env.course("History")
	env.enroll("alice", algebra.ID, models.EnrollmentActive)
	env.enroll("alice", biology.ID, models.EnrollmentActive)
	env.enroll("alice", history.ID, models.EnrollmentDropped)

	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	create := func(courseID uint, name string, date *time.Time, publish bool) *models.Exam {
		exam, err := env.services.Exam().Create(env.ctx, &CreateExamRequest{
			CourseID: courseID, Name: name, Type: models.ExamQuiz, Date: date,
		}, "teacher-1")
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if publish {
			env.publish(exam.ID)
		}
		return exam
	}

	graded := create(biology.ID, "Bio quiz", &date, true)
	create(algebra.ID, "Algebra quiz", &date, true)
	create(algebra.ID, "Algebra undated", nil, true)
	create(algebra.ID, "Algebra draft", nil, false)
	create(history.ID, "History quiz", &date, true)

	if _, err := env.services.Grading().RecordSubmission(env.ctx, graded.ID, "alice", map[uint]string{}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	summaries, err := env.services.Attempt().ListStudentExams(env.ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []string{"Algebra quiz", "Bio quiz", "Algebra undated"}
	if len(summaries) != len(want) {
		t.Fatalf("summaries = %d, want %d", len(summaries), len(want))
	}
	for i, name := range want {
		if summaries[i].Name != name {
			t.Errorf("summary %d = %q, want %q", i, summaries[i].Name, name)
		}
	}
	for _, sum := range summaries {
		if sum.ExamID == graded.ID {
			if sum.Result == nil || sum.CourseName != "Biology" {
				t.Errorf("graded summary = %+v", sum)
			}
		} else if sum.Result != nil {
			t.Errorf("%s should have no result", sum.Name)
		}
	}

	none, err := env.services.Attempt().ListStudentExams(env.ctx, "nobody")
	if err != nil || len(none) != 0 {
		t.Errorf("unenrolled student = %v, %v", none, err)
	}
}
