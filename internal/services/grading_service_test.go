package services

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/models"
)

func TestRecordSubmission_Scoring(t *testing.T) {
	tests := []struct {
		name      string
		answers   func(t *testing.T, s *scenario) map[uint]string
		wantScore float64
		wantGrade string
		correct   map[string]bool
	}{
		{
			name: "all correct",
			answers: func(t *testing.T, s *scenario) map[uint]string {
				return map[uint]string{s.q1.ID: optionID(t, s.q1, "B"), s.q2.ID: optionID(t, s.q2, "X")}
			},
			wantScore: 3,
			wantGrade: "A+",
			correct:   map[string]bool{"Q1": true, "Q2": true},
		},
		{
			name: "first correct only",
			answers: func(t *testing.T, s *scenario) map[uint]string {
				return map[uint]string{s.q1.ID: optionID(t, s.q1, "B"), s.q2.ID: optionID(t, s.q2, "Y")}
			},
			wantScore: 2,
			wantGrade: "D",
			correct:   map[string]bool{"Q1": true, "Q2": false},
		},
		{
			name: "unknown option and missing question",
			answers: func(t *testing.T, s *scenario) map[uint]string {
				return map[uint]string{s.q1.ID: "not-an-option"}
			},
			wantScore: 0,
			wantGrade: "F",
			correct:   map[string]bool{"Q1": false},
		},
		{
			name: "unknown question ignored",
			answers: func(t *testing.T, s *scenario) map[uint]string {
				return map[uint]string{s.q2.ID: optionID(t, s.q2, "X"), 99999: "whatever"}
			},
			wantScore: 1,
			wantGrade: "F",
			correct:   map[string]bool{"Q2": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			s := env.scenario("alice")

			result, err := env.services.Grading().RecordSubmission(env.ctx, s.exam.ID, "alice", tt.answers(t, s))
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
			if result.Score == nil || *result.Score != tt.wantScore {
				t.Fatalf("score = %v, want %v", result.Score, tt.wantScore)
			}
			if result.Grade == nil || *result.Grade != tt.wantGrade {
				t.Errorf("grade = %v, want %s", result.Grade, tt.wantGrade)
			}
			if !result.IsGraded || result.SubmittedAt == nil {
				t.Errorf("result not marked graded: %+v", result)
			}

			stored, err := env.repo.Result().GetByIDWithAnswers(env.ctx, nil, result.ID)
			if err != nil {
				t.Fatalf("reload: %v", err)
			}
			if len(stored.Answers) != len(tt.correct) {
				t.Fatalf("answers = %d, want %d", len(stored.Answers), len(tt.correct))
			}
			texts := map[uint]string{s.q1.ID: "Q1", s.q2.ID: "Q2"}
			for _, a := range stored.Answers {
				want, ok := tt.correct[texts[a.QuestionID]]
				if !ok {
					t.Errorf("unexpected answer for question %d", a.QuestionID)
					continue
				}
				if a.IsCorrect != want {
					t.Errorf("question %d correct = %v, want %v", a.QuestionID, a.IsCorrect, want)
				}
			}
		})
	}
}

func TestRecordSubmission_SnapshotsOptionText(t *testing.T) {
	env := newTestEnv(t)
	s := env.scenario("alice")

	result, err := env.services.Grading().RecordSubmission(env.ctx, s.exam.ID, "alice", map[uint]string{
		s.q1.ID: optionID(t, s.q1, "C"),
		s.q2.ID: strings.Repeat("missing-", 10),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	byQuestion := map[uint]models.Answer{}
	for _, a := range result.Answers {
		byQuestion[a.QuestionID] = a
	}
	if got := byQuestion[s.q1.ID].SelectedOptionText; got != "C" {
		t.Errorf("snapshot = %q, want C", got)
	}
	if got := byQuestion[s.q2.ID]; got.SelectedOptionText != "" || got.SelectedOptionID != "" || got.IsCorrect {
		t.Errorf("unknown option answer = %+v", got)
	}

	stored, err := env.repo.Result().GetAnswers(env.ctx, nil, result.ID)
	if err != nil {
		t.Fatalf("answers: %v", err)
	}
	for _, a := range stored {
		if len(a.SelectedOptionID) > 36 {
			t.Errorf("stored option id %q exceeds the column size", a.SelectedOptionID)
		}
	}
}

func TestRecordSubmission_AtMostOnce(t *testing.T) {
	env := newTestEnv(t)
	s := env.scenario("alice")
	answers := map[uint]string{s.q1.ID: optionID(t, s.q1, "B")}

	first, err := env.services.Grading().RecordSubmission(env.ctx, s.exam.ID, "alice", answers)
	if err != nil {
		t.Fatalf("first submission: %v", err)
	}
	before, err := env.repo.Result().GetAnswers(env.ctx, nil, first.ID)
	if err != nil {
		t.Fatalf("answers: %v", err)
	}

	_, err = env.services.Grading().RecordSubmission(env.ctx, s.exam.ID, "alice", map[uint]string{
		s.q1.ID: optionID(t, s.q1, "A"),
		s.q2.ID: optionID(t, s.q2, "X"),
	})
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("second submission err = %v, want ErrAlreadySubmitted", err)
	}

	results, err := env.repo.Result().ListByExam(env.ctx, nil, s.exam.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(results) != 1 || *results[0].Score != *first.Score {
		t.Errorf("results = %+v, want the first submission only", results)
	}

	after, err := env.repo.Result().GetAnswers(env.ctx, nil, first.ID)
	if err != nil {
		t.Fatalf("answers: %v", err)
	}
	if len(after) != len(before) || len(after) != 1 {
		t.Fatalf("answers = %d after rejection, want %d", len(after), len(before))
	}
	for i := range after {
		b, a := before[i], after[i]
		if a.ID != b.ID || a.QuestionID != b.QuestionID || a.SelectedOptionID != b.SelectedOptionID ||
			a.SelectedOptionText != b.SelectedOptionText || a.IsCorrect != b.IsCorrect {
			t.Errorf("answer %d changed: %+v -> %+v", i, b, a)
		}
	}
	if after[0].SelectedOptionID != optionID(t, s.q1, "B") || !after[0].IsCorrect {
		t.Errorf("answer = %+v, want the original correct selection", after[0])
	}
}

func TestRecordSubmission_ReusesUnsubmittedResult(t *testing.T) {
	env := newTestEnv(t)
	s := env.scenario("alice")

	stale := &models.Result{StudentID: "alice", ExamID: s.exam.ID}
	if err := env.db.Create(stale).Error; err != nil {
		t.Fatalf("seed result: %v", err)
	}
	if err := env.db.Create(&models.Answer{ResultID: stale.ID, QuestionID: s.q2.ID, SelectedOptionID: "old"}).Error; err != nil {
		t.Fatalf("seed answer: %v", err)
	}

	result, err := env.services.Grading().RecordSubmission(env.ctx, s.exam.ID, "alice", map[uint]string{
		s.q1.ID: optionID(t, s.q1, "B"),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.ID != stale.ID {
		t.Errorf("result id = %d, want reused %d", result.ID, stale.ID)
	}

	answers, err := env.repo.Result().GetAnswers(env.ctx, nil, result.ID)
	if err != nil {
		t.Fatalf("answers: %v", err)
	}
	if len(answers) != 1 || answers[0].QuestionID != s.q1.ID {
		t.Errorf("answers = %+v, want only the new one", answers)
	}
}

func TestRecordSubmission_Preconditions(t *testing.T) {
	env := newTestEnv(t)
	s := env.scenario("alice")
	env.enroll("dropped", s.exam.CourseID, models.EnrollmentDropped)

	draft := env.exam(s.exam.CourseID, "Draft")
	env.reconcile(draft.ID, mcq("Q", 1, "A", "A", "B"))

	tests := []struct {
		name      string
		examID    uint
		studentID string
		wantErr   error
	}{
		{"missing exam", s.exam.ID + 100, "alice", ErrExamNotFound},
		{"unpublished exam", draft.ID, "alice", ErrExamNotPublished},
		{"not enrolled", s.exam.ID, "mallory", ErrExamNotFound},
		{"dropped enrollment", s.exam.ID, "dropped", ErrExamNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.services.Grading().RecordSubmission(env.ctx, tt.examID, tt.studentID, map[uint]string{})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	var count int64
	env.db.Model(&models.Result{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected submissions stored %d results", count)
	}
}

func TestRecordSubmission_ZeroTotalHasNoGrade(t *testing.T) {
	env := newTestEnv(t)
	course := env.course("Math")
	env.enroll("alice", course.ID, models.EnrollmentActive)
	exam := env.exam(course.ID, "Empty")
	env.publish(exam.ID)

	result, err := env.services.Grading().RecordSubmission(env.ctx, exam.ID, "alice", map[uint]string{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Grade != nil {
		t.Errorf("grade = %q, want none", *result.Grade)
	}
	if *result.Score != 0 {
		t.Errorf("score = %v, want 0", *result.Score)
	}
}

func TestRecordSubmission_EmitsEvent(t *testing.T) {
	env := newTestEnv(t)
	s := env.scenario("alice")
	fixed := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	env.services.Grading().(*gradingService).now = func() time.Time { return fixed }

	result, err := env.services.Grading().RecordSubmission(env.ctx, s.exam.ID, "alice", map[uint]string{
		s.q1.ID: optionID(t, s.q1, "B"),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !result.SubmittedAt.Equal(fixed) {
		t.Errorf("submitted_at = %v, want %v", result.SubmittedAt, fixed)
	}

	got := env.publisher.EventsOfType(events.TopicSubmissionGraded)
	if len(got) != 1 {
		t.Fatalf("events = %d, want 1", len(got))
	}
	var payload events.SubmissionGradedEvent
	if err := json.Unmarshal(got[0].Data, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.ResultID != result.ID || payload.Score != 2 || payload.TotalMarks != 3 || payload.Grade != "D" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestSubmitAnswers_ResolvesLegacyText(t *testing.T) {
	env := newTestEnv(t)
	s := env.scenario("alice")

	result, err := env.services.Grading().SubmitAnswers(env.ctx, s.exam.ID, "alice", &SubmitAnswersRequest{Answers: []AnswerInput{
		{QuestionID: s.q1.ID, SelectedOptionText: "A"},
		{QuestionID: s.q1.ID, SelectedOptionText: "B"},
		{QuestionID: s.q2.ID, SelectedOptionText: "x"},
	}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if *result.Score != 2 {
		t.Errorf("score = %v, want 2 (last answer wins, text match is exact)", *result.Score)
	}

	_, err = env.services.Grading().SubmitAnswers(env.ctx, s.exam.ID, "alice", &SubmitAnswersRequest{Answers: []AnswerInput{
		{QuestionID: s.q1.ID},
	}})
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("answer without selection err = %v, want validation failure", err)
	}
}

func TestResolveAnswerSelections(t *testing.T) {
	q := &models.Question{ID: 1, Options: []models.QuestionOption{
		{ID: "a", Text: "Paris", IsCorrect: true},
		{ID: "b", Text: "Rome"},
	}}

	got := resolveAnswerSelections([]AnswerInput{
		{QuestionID: 1, SelectedOptionText: "Rome"},
		{QuestionID: 2, SelectedOptionText: "Paris"},
		{QuestionID: 3, SelectedOptionID: "z"},
	}, []*models.Question{q})

	want := map[uint]string{1: "b", 2: "", 3: "z"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("question %d = %q, want %q", k, got[k], v)
		}
	}
}

func TestCalculateLetterGrade(t *testing.T) {
	s := &gradingService{}
	tests := []struct {
		percentage float64
		want       string
	}{
		{100, "A+"}, {97, "A+"}, {96.99, "A"}, {93, "A"}, {90, "A-"},
		{87, "B+"}, {83, "B"}, {80, "B-"}, {77, "C+"}, {73, "C"},
		{70, "C-"}, {67, "D+"}, {63, "D"}, {60, "D-"}, {59.99, "F"}, {0, "F"},
	}
	for _, tt := range tests {
		if got := s.calculateLetterGrade(tt.percentage); got != tt.want {
			t.Errorf("calculateLetterGrade(%v) = %s, want %s", tt.percentage, got, tt.want)
		}
	}
}
