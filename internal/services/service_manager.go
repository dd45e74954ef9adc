package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SAP-F-2025/social-service/internal/events"
	"github.com/SAP-F-2025/social-service/internal/realtime"
	"github.com/SAP-F-2025/social-service/internal/repositories"
	"github.com/SAP-F-2025/social-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	PlatformOwnerEmail string
	DefaultCourseImage string
}

// ServiceDependencies are the outbound ports shared by every service
type ServiceDependencies struct {
	// RepositoryManager, when set, backs HealthCheck and Shutdown
	RepositoryManager repositories.RepositoryManager
	Events            events.EventPublisher
	Realtime          realtime.Publisher
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	deps      ServiceDependencies
	config    ServiceManagerConfig

	// Service instances
	connectionService    ConnectionService
	postService          PostService
	reactionService      ReactionService
	commentService       CommentService
	profileService       ProfileService
	certificationService CertificationService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

func NewServiceManager(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, deps ServiceDependencies, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		repo:      repo,
		logger:    logger,
		validator: validator,
		deps:      deps,
		config:    config,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	if err := sm.config.Validate(); err != nil {
		return fmt.Errorf("invalid service configuration: %w", err)
	}

	notifier := newChangeNotifier(sm.deps.Events, sm.deps.Realtime, sm.logger)

	sm.connectionService = NewConnectionService(sm.repo, sm.logger, sm.validator, notifier)
	sm.reactionService = NewReactionService(sm.repo, sm.logger, notifier)
	sm.commentService = NewCommentService(sm.repo, sm.logger, sm.validator, notifier)
	sm.postService = NewPostService(sm.repo, sm.logger, sm.reactionService, sm.commentService)
	sm.profileService = NewProfileService(sm.repo, sm.logger, sm.validator, notifier, ProfileSettings{
		PlatformOwnerEmail: sm.config.PlatformOwnerEmail,
		DefaultCourseImage: sm.config.DefaultCourseImage,
	})
	sm.certificationService = NewCertificationService(sm.repo, sm.logger, sm.config.DefaultCourseImage)

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) Connection() ConnectionService {
	sm.mustBeInitialized()
	return sm.connectionService
}

func (sm *serviceManager) Post() PostService {
	sm.mustBeInitialized()
	return sm.postService
}

func (sm *serviceManager) Reaction() ReactionService {
	sm.mustBeInitialized()
	return sm.reactionService
}

func (sm *serviceManager) Comment() CommentService {
	sm.mustBeInitialized()
	return sm.commentService
}

func (sm *serviceManager) Profile() ProfileService {
	sm.mustBeInitialized()
	return sm.profileService
}

func (sm *serviceManager) Certification() CertificationService {
	sm.mustBeInitialized()
	return sm.certificationService
}

func (sm *serviceManager) mustBeInitialized() {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if sm.deps.RepositoryManager != nil {
		if err := sm.deps.RepositoryManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("repository health check failed: %w", err)
		}
		return nil
	}
	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}
	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.deps.Events != nil {
		if err := sm.deps.Events.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	if sm.deps.RepositoryManager != nil {
		if err := sm.deps.RepositoryManager.Shutdown(ctx); err != nil {
			sm.logger.Error("Failed to shutdown repository manager", "error", err)
		}
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}

// Validate validates the service manager configuration
func (config *ServiceManagerConfig) Validate() error {
	if config.DefaultCourseImage == "" {
		return fmt.Errorf("default course image is required")
	}
	return nil
}
