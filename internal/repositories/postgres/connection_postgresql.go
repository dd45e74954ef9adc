package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/social-service/internal/cache"
	"github.com/SAP-F-2025/social-service/internal/models"
	"github.com/SAP-F-2025/social-service/internal/repositories"
)

type ConnectionPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewConnectionPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.ConnectionRepository {
	return &ConnectionPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

// ListByProfile returns every edge touching profileID, cached until the next mutation
func (c *ConnectionPostgreSQL) ListByProfile(ctx context.Context, profileID string) ([]models.Connection, error) {
	var edges []models.Connection
	err := c.cacheManager.Stats.CacheOrExecute(ctx, cache.ConnectionsKey(profileID), &edges, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		var rows []models.Connection
		err := c.db.WithContext(ctx).
			Where("requester_id = ? OR recipient_id = ?", profileID, profileID).
			Order("id ASC").
			Find(&rows).Error
		if err != nil {
			return nil, translateError(err, "failed to list connections")
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return edges, nil
}

func (c *ConnectionPostgreSQL) List(ctx context.Context, profileID string, filters repositories.ConnectionFilters) ([]models.Connection, int64, error) {
	query := c.db.WithContext(ctx).Model(&models.Connection{})

	switch filters.Direction {
	case models.DirectionFollowing:
		query = query.Where("requester_id = ?", profileID)
	case models.DirectionFollowers:
		query = query.Where("recipient_id = ?", profileID)
	default:
		query = query.Where("(requester_id = ? OR recipient_id = ?) AND status = ?", profileID, profileID, models.ConnectionApproved)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "failed to count connections")
	}

	var rows []models.Connection
	if err := applyPagination(query.Order("created_at DESC, id DESC"), filters.Limit, filters.Offset).Find(&rows).Error; err != nil {
		return nil, 0, translateError(err, "failed to list connections")
	}
	return rows, total, nil
}

func (c *ConnectionPostgreSQL) GetBetween(ctx context.Context, a, b string) (*models.Connection, error) {
	var conn models.Connection
	if err := c.db.WithContext(ctx).Where("pair_key = ?", models.PairKey(a, b)).First(&conn).Error; err != nil {
		return nil, translateError(err, "failed to get connection")
	}
	return &conn, nil
}

// CreateIfAbsent relies on the unique pair_key index, so concurrent requests
// for the same pair converge on a single row.
func (c *ConnectionPostgreSQL) CreateIfAbsent(ctx context.Context, connection *models.Connection) (*models.Connection, bool, error) {
	connection.PairKey = models.PairKey(connection.RequesterID, connection.RecipientID)

	result := c.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "pair_key"}}, DoNothing: true}).
		Create(connection)
	if result.Error != nil {
		return nil, false, translateError(result.Error, "failed to create connection")
	}
	created := result.RowsAffected > 0
	if created {
		cache.InvalidateConnectionCache(ctx, c.cacheManager, connection.RequesterID, connection.RecipientID)
	}

	stored, err := c.GetBetween(ctx, connection.RequesterID, connection.RecipientID)
	if err != nil {
		return nil, false, err
	}
	return stored, created, nil
}

func (c *ConnectionPostgreSQL) UpdateStatus(ctx context.Context, connection *models.Connection, status models.ConnectionStatus) error {
	result := c.db.WithContext(ctx).
		Model(&models.Connection{}).
		Where("id = ?", connection.ID).
		Update("status", status)
	if result.Error != nil {
		return translateError(result.Error, "failed to update connection")
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update connection: %w", repositories.ErrNotFound)
	}

	connection.Status = status
	cache.InvalidateConnectionCache(ctx, c.cacheManager, connection.RequesterID, connection.RecipientID)
	return nil
}
