package repositories

import "context"

// Repository aggregates the repositories of the exam domain
type Repository interface {
	// Exam domain
	Exam() ExamRepository
	Question() QuestionRepository

	// Grading domain
	Result() ResultRepository

	// Catalog and identity (read-only for exam service)
	Catalog() CatalogRepository
	User() UserRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
