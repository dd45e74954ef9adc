package casdoor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/social-service/internal/cache"
	"github.com/SAP-F-2025/social-service/internal/models"
	"github.com/SAP-F-2025/social-service/internal/repositories"
)

// CasdoorConfig holds the configuration for Casdoor connection
type CasdoorConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
}

// directoryClient is the part of the Casdoor SDK client the identity directory uses
type directoryClient interface {
	GetUserByUserId(userId string) (*casdoorsdk.User, error)
	GetPaginationUsers(p int, pageSize int, queryMap map[string]string) ([]*casdoorsdk.User, int, error)
}

type UserCasdoor struct {
	client directoryClient
	cache  *cache.CacheHelper
	ttl    time.Duration
}

func NewClient(config CasdoorConfig) *casdoorsdk.Client {
	return casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.OrganizationName,
		config.ApplicationName,
	)
}

func NewUserCasdoor(config CasdoorConfig, redisClient *redis.Client) repositories.UserRepository {
	return newUserCasdoor(NewClient(config), redisClient)
}

func newUserCasdoor(client directoryClient, redisClient *redis.Client) *UserCasdoor {
	return &UserCasdoor{
		client: client,
		cache:  cache.NewCacheHelper(redisClient, cache.UserCacheConfig.Prefix),
		ttl:    cache.UserCacheConfig.TTL,
	}
}

// ===== CACHE METHODS =====

func (u *UserCasdoor) cached(ctx context.Context, key string) *models.User {
	var user models.User
	if err := u.cache.Get(ctx, key, &user); err != nil {
		return nil
	}
	return &user
}

func (u *UserCasdoor) remember(ctx context.Context, user *models.User) {
	cache.SafeSet(ctx, u.cache, "id:"+user.ID, user, u.ttl)
}

// ===== CONVERSION METHODS =====

func convertCasdoorUser(casdoorUser *casdoorsdk.User) *models.User {
	if casdoorUser == nil {
		return nil
	}

	var createdAt, updatedAt time.Time
	if casdoorUser.CreatedTime != "" {
		createdAt, _ = time.Parse(time.RFC3339, casdoorUser.CreatedTime)
	}
	if casdoorUser.UpdatedTime != "" {
		updatedAt, _ = time.Parse(time.RFC3339, casdoorUser.UpdatedTime)
	}

	var avatar *string
	if casdoorUser.Avatar != "" {
		a := casdoorUser.Avatar
		avatar = &a
	}

	return &models.User{
		ID:            casdoorUser.Id,
		Name:          casdoorUser.Name,
		DisplayName:   casdoorUser.DisplayName,
		Email:         casdoorUser.Email,
		AvatarURL:     avatar,
		EmailVerified: casdoorUser.EmailVerified,
		IsAdmin:       casdoorUser.IsAdmin,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
}

// ===== BASIC READ OPERATIONS =====

// GetByID retrieves a user by ID
func (u *UserCasdoor) GetByID(ctx context.Context, id string) (*models.User, error) {
	if user := u.cached(ctx, "id:"+id); user != nil {
		return user, nil
	}

	casdoorUser, err := u.client.GetUserByUserId(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user from Casdoor: %w", err)
	}
	if casdoorUser == nil {
		return nil, fmt.Errorf("user %s: %w", id, repositories.ErrNotFound)
	}

	user := convertCasdoorUser(casdoorUser)
	u.remember(ctx, user)
	return user, nil
}

// GetByIDs retrieves multiple users, skipping the ones that cannot be resolved
func (u *UserCasdoor) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		user, err := u.GetByID(ctx, id)
		if err != nil {
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

// Invalidate drops the cached identity of id
func (u *UserCasdoor) Invalidate(ctx context.Context, id string) error {
	return u.cache.Delete(ctx, "id:"+id)
}

// ===== LIST AND SEARCH OPERATIONS =====

// List retrieves a paginated list of users
func (u *UserCasdoor) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	if filters.Limit <= 0 {
		filters.Limit = 10
	}
	if filters.Limit > 100 {
		filters.Limit = 100
	}

	// Casdoor pages are 1-indexed
	page := (filters.Offset / filters.Limit) + 1

	queryMap := make(map[string]string)
	if filters.Query != "" {
		queryMap["field"] = searchField(filters.Query)
		queryMap["value"] = filters.Query
	}

	casdoorUsers, count, err := u.client.GetPaginationUsers(page, filters.Limit, queryMap)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get users from Casdoor: %w", err)
	}

	users := make([]*models.User, 0, len(casdoorUsers))
	for _, casdoorUser := range casdoorUsers {
		if user := convertCasdoorUser(casdoorUser); user != nil {
			users = append(users, user)
			u.remember(ctx, user)
		}
	}

	return users, int64(count), nil
}

// searchField picks the directory column a query is matched against.
// Casdoor filters on a single field per request.
func searchField(query string) string {
	if strings.Contains(query, "@") {
		return "email"
	}
	return "display_name"
}

// Search searches users by display name, or by email when the query looks like one
func (u *UserCasdoor) Search(ctx context.Context, query string, filters repositories.UserFilters) ([]*models.User, int64, error) {
	filters.Query = query
	return u.List(ctx, filters)
}
