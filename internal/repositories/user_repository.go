package repositories

import (
	"context"

	"github.com/SAP-F-2025/social-service/internal/models"
)

// UserFilters defines filters for user queries
type UserFilters struct {
	Query  string // Display name, or email when it contains "@"
	Limit  int    // Page size
	Offset int    // Offset for pagination
}

// UserRepository reads identities from the identity provider. The social
// service never writes them.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)

	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	Search(ctx context.Context, query string, filters UserFilters) ([]*models.User, int64, error)

	// Invalidate drops cached identity data for id
	Invalidate(ctx context.Context, id string) error
}
