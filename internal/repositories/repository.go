package repositories

import "context"

// Repository aggregates the five identity collections. Each sub-repository
// operates on its own table independently: there is no cross-collection
// transaction support, by design — multi-step lifecycle operations run as a
// saga of individually idempotent steps.
type Repository interface {
	User() UserRepository
	Role() RoleRepository
	StudentProfile() StudentProfileRepository
	TeacherProfile() TeacherProfileRepository
	ParentProfile() ParentProfileRepository

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
