package repositories

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

// UserRepository resolves accounts from the identity provider (read-only for exam service)
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByIDs skips ids that cannot be resolved
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)
}
