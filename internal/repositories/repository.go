package repositories

import "context"

// Repository aggregates the per-entity repositories and owns transaction
// scoping. Implementations must make the Repository passed to the
// WithTransaction callback run every operation on the same transaction.
type Repository interface {
	Course() CourseRepository
	User() UserRepository
	Lecture() LectureRepository
	Solution() SolutionRepository

	WithTransaction(ctx context.Context, fn func(repo Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager handles lifecycle of the repository layer.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
