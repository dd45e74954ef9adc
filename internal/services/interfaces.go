package services

import (
	"context"

	"github.com/SAP-F-2025/social-service/internal/models"
)

// ===== SERVICE INTERFACES =====

// ConnectionService reads and mutates the social graph
type ConnectionService interface {
	// Stats never fails; a failed fetch yields zero counts
	Stats(ctx context.Context, profileID string) models.ConnectionStats
	Relation(ctx context.Context, viewerID, targetID string) models.ConnectionRelation
	Connect(ctx context.Context, viewerID, targetID string) (*models.Connection, error)
	Approve(ctx context.Context, recipientID, requesterID string) (*models.Connection, error)
	List(ctx context.Context, profileID string, direction models.ConnectionDirection, page, size int) (*models.ConnectionListResponse, error)
}

type PostService interface {
	// Resolve maps a slug to its post
	Resolve(ctx context.Context, slug string) (*models.Post, error)
	// Get assembles the post page: post, reaction summary and first comment page
	Get(ctx context.Context, slug, viewerID string) (*models.PostView, error)
}

type ReactionService interface {
	Summary(ctx context.Context, postID uint, viewerID string) (*models.ReactionSummary, error)
	React(ctx context.Context, postID uint, viewerID string, reactionType models.ReactionType) (*models.ReactionSummary, error)
	Clear(ctx context.Context, postID uint, viewerID string) (*models.ReactionSummary, error)
}

type CommentService interface {
	List(ctx context.Context, postID uint, cursor string, limit int) (*models.CommentPage, error)

	// Add is a no-op returning the first page with added=false when the
	// viewer is anonymous or the trimmed content is empty.
	Add(ctx context.Context, postID uint, viewerID, content string) (page *models.CommentPage, added bool, err error)
}

type ProfileService interface {
	Aggregate(ctx context.Context, viewerID, targetID string) (*models.ProfileView, error)
	UpdateOwnProfile(ctx context.Context, viewerID string, req *models.UpdateProfileRequest) (*models.Profile, error)
	EnsureProfile(ctx context.Context, identity *models.User) (*models.Profile, error)
}

type CertificationService interface {
	List(ctx context.Context, profileID string) ([]models.EnrollmentRecord, error)
	Export(ctx context.Context, profileID string) ([]byte, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Connection() ConnectionService
	Post() PostService
	Reaction() ReactionService
	Comment() CommentService
	Profile() ProfileService
	Certification() CertificationService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
