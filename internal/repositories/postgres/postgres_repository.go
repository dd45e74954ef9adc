package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/social-service/internal/cache"
	"github.com/SAP-F-2025/social-service/internal/repositories"
	"github.com/SAP-F-2025/social-service/internal/repositories/casdoor"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	// Repository instances
	profile    repositories.ProfileRepository
	onboarding repositories.OnboardingRepository
	enrollment repositories.EnrollmentRepository
	connection repositories.ConnectionRepository
	post       repositories.PostRepository
	reaction   repositories.ReactionRepository
	comment    repositories.CommentRepository
	user       repositories.UserRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB            *gorm.DB
	RedisClient   *redis.Client
	CasdoorConfig casdoor.CasdoorConfig

	// UserRepository overrides the Casdoor-backed identity directory
	UserRepository repositories.UserRepository
}

// NewPostgreSQLRepository creates a new repository with all sub-repositories
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	user := config.UserRepository
	if user == nil {
		user = casdoor.NewUserCasdoor(config.CasdoorConfig, config.RedisClient)
	}

	return newRepository(config.DB, config.RedisClient, cacheManager, user)
}

func newRepository(db *gorm.DB, redisClient *redis.Client, cacheManager *cache.CacheManager, user repositories.UserRepository) *PostgreSQLRepository {
	return &PostgreSQLRepository{
		db:           db,
		redisClient:  redisClient,
		cacheManager: cacheManager,
		profile:      NewProfilePostgreSQL(db, cacheManager),
		onboarding:   NewOnboardingPostgreSQL(db),
		enrollment:   NewEnrollmentPostgreSQL(db),
		connection:   NewConnectionPostgreSQL(db, cacheManager),
		post:         NewPostPostgreSQL(db),
		reaction:     NewReactionPostgreSQL(db, cacheManager),
		comment:      NewCommentPostgreSQL(db),
		// The identity directory is external and never joins a transaction
		user: user,
	}
}

func (r *PostgreSQLRepository) Profile() repositories.ProfileRepository {
	return r.profile
}

func (r *PostgreSQLRepository) Onboarding() repositories.OnboardingRepository {
	return r.onboarding
}

func (r *PostgreSQLRepository) Enrollment() repositories.EnrollmentRepository {
	return r.enrollment
}

func (r *PostgreSQLRepository) Connection() repositories.ConnectionRepository {
	return r.connection
}

func (r *PostgreSQLRepository) Post() repositories.PostRepository {
	return r.post
}

func (r *PostgreSQLRepository) Reaction() repositories.ReactionRepository {
	return r.reaction
}

func (r *PostgreSQLRepository) Comment() repositories.CommentRepository {
	return r.comment
}

func (r *PostgreSQLRepository) User() repositories.UserRepository {
	return r.user
}

// Ping checks the health of database and cache connections
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes the database pool. The Redis client is owned by the caller.
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// RepositoryManager implements the RepositoryManager interface
type RepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a new repository manager
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &RepositoryManager{
		config: config,
	}
}

// Initialize verifies connections and builds the repository
func (rm *RepositoryManager) Initialize() error {
	if rm.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	sqlDB, err := rm.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	if rm.config.RedisClient != nil {
		if err := rm.config.RedisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
	}

	rm.repo = NewPostgreSQLRepository(rm.config)

	return nil
}

// GetRepository returns the repository instance
func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

// HealthCheck checks the health of all repository connections
func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}

	return rm.repo.Ping(ctx)
}

// Shutdown gracefully shuts down all repository connections
func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}

	return rm.repo.Close()
}
