package services

import (
	"context"
	"log/slog"
	"slices"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/validator"
)

type questionBankService struct {
	repo      repositories.Repository
	db        *gorm.DB
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewQuestionBankService(repo repositories.Repository, db *gorm.DB, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) QuestionBankService {
	return &questionBankService{
		repo:      repo,
		db:        db,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// Reconcile makes the stored question set of an exam match the batch. Records that
// fail content checks are skipped and logged; storage failures abort everything.
func (s *questionBankService) Reconcile(ctx context.Context, examID uint, req *ReconcileQuestionsRequest, editorID string) (*ReconcileResult, error) {
	s.logger.Info("Reconciling questions", "exam_id", examID, "editor_id", editorID, "records", len(req.Questions))

	if errors := s.validator.GetBusinessValidator().ValidateQuestionBatch(req); len(errors) > 0 {
		return nil, errors
	}

	result := &ReconcileResult{}
	err := withTx(ctx, s.db, "reconcile questions", func(tx *gorm.DB) error {
		if _, err := s.repo.Exam().GetByID(ctx, tx, examID); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrExamNotFound
			}
			return err
		}

		// graded answers point at these questions
		count, err := s.repo.Result().CountByExam(ctx, tx, examID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrExamHasResults
		}

		current, err := s.repo.Question().ListByExam(ctx, tx, examID)
		if err != nil {
			return err
		}
		existing := make(map[uint]*models.Question, len(current))
		for _, q := range current {
			existing[q.ID] = q
		}

		referenced := make(map[uint]bool, len(current))
		var toDelete []uint
		position := 0

		for i, edit := range req.Questions {
			switch edit.Op {
			case validator.OpDelete:
				if _, ok := existing[edit.ID]; !ok {
					s.logSkip(ctx, examID, i, edit, "unknown question id")
					result.Skipped++
					continue
				}
				if referenced[edit.ID] {
					s.logSkip(ctx, examID, i, edit, "question already edited in this batch")
					result.Skipped++
					continue
				}
				referenced[edit.ID] = true
				toDelete = append(toDelete, edit.ID)

			case validator.OpUpdate:
				stored, ok := existing[edit.ID]
				if !ok {
					s.logSkip(ctx, examID, i, edit, "unknown question id")
					result.Skipped++
					continue
				}
				if referenced[edit.ID] {
					s.logSkip(ctx, examID, i, edit, "question already edited in this batch")
					result.Skipped++
					continue
				}
				referenced[edit.ID] = true

				// an invalid update keeps the stored content but still takes its place in the order
				text, marks, options, reason := normalizeQuestionEdit(edit, stored.Options)
				if reason != "" {
					s.logSkip(ctx, examID, i, edit, reason)
					result.Skipped++
					if stored.Position != position {
						stored.Position = position
						if err := s.repo.Question().Update(ctx, tx, stored); err != nil {
							return err
						}
					}
					position++
					continue
				}

				stored.Text = text
				stored.Marks = marks
				stored.Options = options
				stored.Position = position
				if err := s.repo.Question().Update(ctx, tx, stored); err != nil {
					return err
				}
				position++
				result.SavedCount++

			case validator.OpCreate:
				text, marks, options, reason := normalizeQuestionEdit(edit, nil)
				if reason != "" {
					s.logSkip(ctx, examID, i, edit, reason)
					result.Skipped++
					continue
				}

				question := &models.Question{
					ExamID:   examID,
					Text:     text,
					Marks:    marks,
					Position: position,
					Options:  options,
				}
				if err := s.repo.Question().Create(ctx, tx, question); err != nil {
					return err
				}
				position++
				result.SavedCount++
			}
		}

		for _, q := range current {
			if !referenced[q.ID] {
				toDelete = append(toDelete, q.ID)
			}
		}
		if len(toDelete) > 0 {
			slices.Sort(toDelete)
			if err := s.repo.Question().DeleteByIDs(ctx, tx, examID, toDelete); err != nil {
				return err
			}
		}
		result.Deleted = len(toDelete)

		total, changed, err := s.repo.Exam().SyncTotalMarks(ctx, tx, examID)
		if err != nil {
			return err
		}
		if changed {
			s.logger.Info("Exam total marks updated", "exam_id", examID, "total_marks", total)
		}
		result.TotalMarks = total

		result.Questions, err = s.repo.Question().ListByExam(ctx, tx, examID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.repo.Exam().InvalidateCache(ctx, examID)
	s.repo.Question().InvalidateCache(ctx, examID)

	s.logger.Info("Questions reconciled",
		"exam_id", examID,
		"saved", result.SavedCount,
		"deleted", result.Deleted,
		"skipped", result.Skipped,
		"total_marks", result.TotalMarks)

	publishEvent(ctx, s.publisher, s.logger, events.TopicQuestionsReconciled, events.QuestionsReconciledEvent{
		ExamID:     examID,
		SavedCount: result.SavedCount,
		Deleted:    result.Deleted,
		Skipped:    result.Skipped,
		TotalMarks: result.TotalMarks,
		EditedBy:   editorID,
	})

	return result, nil
}

func (s *questionBankService) logSkip(ctx context.Context, examID uint, index int, edit QuestionEdit, reason string) {
	s.logger.WarnContext(ctx, "Skipping question record",
		"exam_id", examID,
		"index", index,
		"op", edit.Op,
		"question_id", edit.ID,
		"reason", reason)
}
