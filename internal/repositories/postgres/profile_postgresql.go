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

type ProfilePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewProfilePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.ProfileRepository {
	return &ProfilePostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

// GetByID retrieves a profile by ID with caching
func (p *ProfilePostgreSQL) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	err := p.cacheManager.Profile.CacheOrExecute(ctx, cache.ProfileKey(id), &profile, cache.ProfileCacheConfig.TTL, func() (interface{}, error) {
		var row models.Profile
		if err := p.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
			return nil, translateError(err, "failed to get profile")
		}
		return &row, nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (p *ProfilePostgreSQL) GetByIDs(ctx context.Context, ids []string) ([]*models.Profile, error) {
	if len(ids) == 0 {
		return []*models.Profile{}, nil
	}
	var profiles []*models.Profile
	if err := p.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, translateError(err, "failed to list profiles")
	}
	return profiles, nil
}

func (p *ProfilePostgreSQL) ExistsByID(ctx context.Context, id string) (bool, error) {
	cacheKey := fmt.Sprintf("profile:%s", id)
	var exists bool
	if err := p.cacheManager.Exists.Get(ctx, cacheKey, &exists); err == nil && exists {
		return true, nil
	}

	var count int64
	if err := p.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, translateError(err, "failed to check profile existence")
	}

	// Only positive answers are cached; a missing profile may be provisioned at any time
	if count > 0 {
		cache.SafeSet(ctx, p.cacheManager.Exists, cacheKey, true, cache.ExistsCacheConfig.TTL)
	}
	return count > 0, nil
}

func (p *ProfilePostgreSQL) FirstOrCreate(ctx context.Context, profile *models.Profile) (*models.Profile, bool, error) {
	result := p.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(profile)
	if result.Error != nil {
		return nil, false, translateError(result.Error, "failed to create profile")
	}
	created := result.RowsAffected > 0

	var stored models.Profile
	if err := p.db.WithContext(ctx).Where("id = ?", profile.ID).First(&stored).Error; err != nil {
		return nil, false, translateError(err, "failed to load profile")
	}
	return &stored, created, nil
}

func (p *ProfilePostgreSQL) Update(ctx context.Context, profile *models.Profile) error {
	result := p.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", profile.ID).
		Updates(map[string]interface{}{
			"display_name": profile.DisplayName,
			"photo_url":    profile.PhotoURL,
			"bio":          profile.Bio,
		})
	if result.Error != nil {
		return translateError(result.Error, "failed to update profile")
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update profile: %w", repositories.ErrNotFound)
	}

	cache.InvalidateProfileCache(ctx, p.cacheManager, profile.ID)
	return nil
}
