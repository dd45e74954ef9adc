package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/social-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type ConnectionFilters struct {
	Direction models.ConnectionDirection `json:"direction"`
	Limit     int                        `json:"limit"`
	Offset    int                        `json:"offset"`
}

// CommentCursor points at the last comment of the previous page
type CommentCursor struct {
	CreatedAt time.Time `json:"t"`
	ID        uint      `json:"i"`
}

// ===== REPOSITORY INTERFACES =====

type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Profile, error)
	ExistsByID(ctx context.Context, id string) (bool, error)

	// FirstOrCreate inserts profile unless a row with the same id exists and
	// returns the stored row. created reports whether an insert happened.
	FirstOrCreate(ctx context.Context, profile *models.Profile) (stored *models.Profile, created bool, err error)
	Update(ctx context.Context, profile *models.Profile) error
}

type ConnectionRepository interface {
	// ListByProfile returns every edge where profileID is requester or recipient
	ListByProfile(ctx context.Context, profileID string) ([]models.Connection, error)
	List(ctx context.Context, profileID string, filters ConnectionFilters) ([]models.Connection, int64, error)

	// GetBetween returns the edge between a and b in either direction
	GetBetween(ctx context.Context, a, b string) (*models.Connection, error)

	// CreateIfAbsent inserts connection unless an edge for the same pair
	// exists, then returns whichever edge is stored.
	CreateIfAbsent(ctx context.Context, connection *models.Connection) (stored *models.Connection, created bool, err error)
	UpdateStatus(ctx context.Context, connection *models.Connection, status models.ConnectionStatus) error
}

type EnrollmentRepository interface {
	ListByProfile(ctx context.Context, profileID string) ([]models.Enrollment, error)
}

type OnboardingRepository interface {
	Languages(ctx context.Context, profileID string) ([]models.ProfileLanguage, error)
	Interests(ctx context.Context, profileID string) ([]models.ProfileInterest, error)
	Skills(ctx context.Context, profileID string) ([]models.ProfileSkill, error)

	// Goals returns nil without error when the profile never completed onboarding
	Goals(ctx context.Context, profileID string) (*models.OnboardingGoals, error)
}

type PostRepository interface {
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	GetByID(ctx context.Context, id uint) (*models.Post, error)
}

type ReactionRepository interface {
	// Upsert stores the reaction, replacing the type of an existing
	// reaction by the same user on the same post.
	Upsert(ctx context.Context, reaction *models.Reaction) error
	Delete(ctx context.Context, postID uint, userID string) (bool, error)
	GetByUser(ctx context.Context, postID uint, userID string) (*models.Reaction, error)

	// CountByType tallies reactions of a single post
	CountByType(ctx context.Context, postID uint) (map[models.ReactionType]int64, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error

	// ListByPost returns up to limit comments newest-first, strictly older
	// than cursor when one is given. Authors are preloaded.
	ListByPost(ctx context.Context, postID uint, cursor *CommentCursor, limit int) ([]models.Comment, error)
}
