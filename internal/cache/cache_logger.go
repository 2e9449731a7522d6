package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// ExamKey is the cache key of an exam's details
func ExamKey(examID uint) string {
	return fmt.Sprintf("id:%d", examID)
}

// AttemptQuestionsKey is the cache key of an exam's sanitized question list
func AttemptQuestionsKey(examID uint) string {
	return fmt.Sprintf("attempt:%d", examID)
}

// InvalidateExamCache drops the cached exam details
func InvalidateExamCache(ctx context.Context, cm *CacheManager, examID uint) {
	SafeDelete(ctx, cm.Exam, ExamKey(examID))
}

// InvalidateQuestionCache drops the sanitized attempt view of an exam
func InvalidateQuestionCache(ctx context.Context, cm *CacheManager, examID uint) {
	SafeDelete(ctx, cm.Question, AttemptQuestionsKey(examID))
}
