package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/exam-service/internal/config"
	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/exam-service/internal/validator"
	"github.com/SAP-F-2025/exam-service/pkg"
)

type fakeUsers struct {
	names map[string]string
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	name, ok := f.names[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &models.User{ID: id, FullName: name, Role: models.RoleStudent}, nil
}

func (f *fakeUsers) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	var users []*models.User
	for _, id := range ids {
		if u, err := f.GetByID(ctx, id); err == nil {
			users = append(users, u)
		}
	}
	return users, nil
}

type testEnv struct {
	t         *testing.T
	ctx       context.Context
	db        *gorm.DB
	repo      repositories.Repository
	publisher *events.MockEventPublisher
	services  ServiceManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := pkg.OpenDatabase(config.DatabaseConfig{
		Driver:      config.DriverSQLite,
		URL:         ":memory:",
		AutoMigrate: true,
	}, logger)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { sqlDB.Close() })

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: client,
		UserRepository: &fakeUsers{names: map[string]string{
			"alice": "Alice Doe",
			"bob":   "Bob Roe",
		}},
	})

	publisher := events.NewMockEventPublisher(logger)
	sm := NewServiceManager(db, repo, publisher, logger, validator.New())
	if err := sm.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize services: %v", err)
	}

	return &testEnv{
		t:         t,
		ctx:       context.Background(),
		db:        db,
		repo:      repo,
		publisher: publisher,
		services:  sm,
	}
}

func (e *testEnv) course(name string) *models.Course {
	e.t.Helper()
	c := &models.Course{Code: name, Name: name}
	if err := e.db.Create(c).Error; err != nil {
		e.t.Fatalf("seed course: %v", err)
	}
	return c
}

func (e *testEnv) enroll(studentID string, courseID uint, status models.EnrollmentStatus) {
	e.t.Helper()
	err := e.db.Create(&models.Enrollment{StudentID: studentID, CourseID: courseID, Status: status}).Error
	if err != nil {
		e.t.Fatalf("seed enrollment: %v", err)
	}
}

func (e *testEnv) exam(courseID uint, name string) *models.Exam {
	e.t.Helper()
	exam, err := e.services.Exam().Create(e.ctx, &CreateExamRequest{
		CourseID: courseID,
		Name:     name,
		Type:     models.ExamQuiz,
	}, "teacher-1")
	if err != nil {
		e.t.Fatalf("create exam: %v", err)
	}
	return exam
}

func (e *testEnv) reconcile(examID uint, edits ...QuestionEdit) *ReconcileResult {
	e.t.Helper()
	if edits == nil {
		edits = []QuestionEdit{}
	}
	res, err := e.services.QuestionBank().Reconcile(e.ctx, examID, &ReconcileQuestionsRequest{Questions: edits}, "teacher-1")
	if err != nil {
		e.t.Fatalf("reconcile: %v", err)
	}
	return res
}

func (e *testEnv) publish(examID uint) {
	e.t.Helper()
	published := true
	if _, err := e.services.Exam().UpdateDetails(e.ctx, examID, &UpdateExamRequest{IsPublished: &published}, "teacher-1"); err != nil {
		e.t.Fatalf("publish: %v", err)
	}
}

func marks(v float64) *float64 { return &v }

// mcq builds a create record whose options are named by their text
func mcq(text string, m float64, correct string, options ...string) QuestionEdit {
	edit := QuestionEdit{Op: "create", Text: text, Marks: marks(m)}
	for _, o := range options {
		edit.Options = append(edit.Options, OptionInput{Text: o, IsCorrect: o == correct})
	}
	return edit
}

// optionID finds the generated id of an option by its text
func optionID(t *testing.T, q *models.Question, text string) string {
	t.Helper()
	opt, ok := q.OptionByText(text)
	if !ok {
		t.Fatalf("question %d has no option %q", q.ID, text)
	}
	return opt.ID
}

// scenario is the two-question exam used across grading tests:
// Q1 worth 2 with correct option B, Q2 worth 1 with correct option X.
type scenario struct {
	exam   *models.Exam
	q1, q2 *models.Question
}

func (e *testEnv) scenario(studentIDs ...string) *scenario {
	e.t.Helper()
	course := e.course("Physics")
	for _, id := range studentIDs {
		e.enroll(id, course.ID, models.EnrollmentActive)
	}

	exam := e.exam(course.ID, "Quiz 1")
	res := e.reconcile(exam.ID,
		mcq("Q1", 2, "B", "A", "B", "C"),
		mcq("Q2", 1, "X", "X", "Y"),
	)
	e.publish(exam.ID)

	if len(res.Questions) != 2 {
		e.t.Fatalf("scenario has %d questions, want 2", len(res.Questions))
	}
	return &scenario{exam: exam, q1: res.Questions[0], q2: res.Questions[1]}
}
