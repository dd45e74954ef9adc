package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/social-service/internal/cache"
	"github.com/SAP-F-2025/social-service/internal/models"
	"github.com/SAP-F-2025/social-service/internal/repositories"
)

// ===== POSTS =====

type PostPostgreSQL struct {
	db *gorm.DB
}

func NewPostPostgreSQL(db *gorm.DB) repositories.PostRepository {
	return &PostPostgreSQL{db: db}
}

func (p *PostPostgreSQL) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := p.db.WithContext(ctx).Where("slug = ?", slug).First(&post).Error; err != nil {
		return nil, translateError(err, "failed to get post")
	}
	return &post, nil
}

func (p *PostPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := p.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translateError(err, "failed to get post")
	}
	return &post, nil
}

// ===== REACTIONS =====

type ReactionPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewReactionPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.ReactionRepository {
	return &ReactionPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

// Upsert is a single statement keyed by the (post_id, user_id) unique index
func (r *ReactionPostgreSQL) Upsert(ctx context.Context, reaction *models.Reaction) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"type", "updated_at"}),
		}).
		Create(reaction).Error
	if err != nil {
		return translateError(err, "failed to upsert reaction")
	}

	cache.InvalidateReactionCache(ctx, r.cacheManager, reaction.PostID)
	return nil
}

func (r *ReactionPostgreSQL) Delete(ctx context.Context, postID uint, userID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Reaction{})
	if result.Error != nil {
		return false, translateError(result.Error, "failed to delete reaction")
	}

	if result.RowsAffected > 0 {
		cache.InvalidateReactionCache(ctx, r.cacheManager, postID)
	}
	return result.RowsAffected > 0, nil
}

func (r *ReactionPostgreSQL) GetByUser(ctx context.Context, postID uint, userID string) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&reaction).Error
	if err != nil {
		return nil, translateError(err, "failed to get reaction")
	}
	return &reaction, nil
}

type reactionCount struct {
	Type  models.ReactionType
	Count int64
}

// CountByType groups the reactions of one post by type
func (r *ReactionPostgreSQL) CountByType(ctx context.Context, postID uint) (map[models.ReactionType]int64, error) {
	counts := make(map[models.ReactionType]int64)
	err := r.cacheManager.Stats.CacheOrExecute(ctx, cache.ReactionCountsKey(postID), &counts, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		var rows []reactionCount
		err := r.db.WithContext(ctx).
			Model(&models.Reaction{}).
			Select("type, COUNT(*) AS count").
			Where("post_id = ?", postID).
			Group("type").
			Scan(&rows).Error
		if err != nil {
			return nil, translateError(err, "failed to count reactions")
		}

		tally := make(map[models.ReactionType]int64, len(rows))
		for _, row := range rows {
			tally[row.Type] = row.Count
		}
		return tally, nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// ===== COMMENTS =====

type CommentPostgreSQL struct {
	db *gorm.DB
}

func NewCommentPostgreSQL(db *gorm.DB) repositories.CommentRepository {
	return &CommentPostgreSQL{db: db}
}

func (c *CommentPostgreSQL) Create(ctx context.Context, comment *models.Comment) error {
	if err := c.db.WithContext(ctx).Omit("Author").Create(comment).Error; err != nil {
		return translateError(err, "failed to create comment")
	}
	return nil
}

// ListByPost pages with a (created_at, id) keyset so concurrent inserts
// never shift or duplicate rows across pages.
func (c *CommentPostgreSQL) ListByPost(ctx context.Context, postID uint, cursor *repositories.CommentCursor, limit int) ([]models.Comment, error) {
	query := c.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID)

	if cursor != nil {
		query = query.Where("(created_at < ? OR (created_at = ? AND id < ?))", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Comment
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err, "failed to list comments")
	}
	return rows, nil
}
