package repositories

import "context"

// Repository aggregates every repository of the social service
type Repository interface {
	// Profile domain
	Profile() ProfileRepository
	Onboarding() OnboardingRepository
	Enrollment() EnrollmentRepository

	// Social graph
	Connection() ConnectionRepository

	// Engagement
	Post() PostRepository
	Reaction() ReactionRepository
	Comment() CommentRepository

	// Identity directory (read-only, owned by the identity provider)
	User() UserRepository

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
