package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SafeDelete deletes cache keys, logging instead of failing
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

func ConnectionsKey(profileID string) string {
	return fmt.Sprintf("connections:%s", profileID)
}

func ReactionCountsKey(postID uint) string {
	return fmt.Sprintf("reactions:post:%d", postID)
}

func ProfileKey(profileID string) string {
	return fmt.Sprintf("id:%s", profileID)
}

// InvalidateConnectionCache drops the cached edge lists of both ends of an edge
func InvalidateConnectionCache(ctx context.Context, cm *CacheManager, requesterID, recipientID string) {
	SafeDelete(ctx, cm.Stats, ConnectionsKey(requesterID), ConnectionsKey(recipientID))
}

// InvalidateReactionCache drops the cached tally of a post
func InvalidateReactionCache(ctx context.Context, cm *CacheManager, postID uint) {
	SafeDelete(ctx, cm.Stats, ReactionCountsKey(postID))
}

// InvalidateProfileCache drops the cached profile row and its existence flag
func InvalidateProfileCache(ctx context.Context, cm *CacheManager, profileID string) {
	SafeDelete(ctx, cm.Profile, ProfileKey(profileID))
	SafeDelete(ctx, cm.Exists, fmt.Sprintf("profile:%s", profileID))
}

// SafeSet stores a value, logging instead of failing
func SafeSet(ctx context.Context, helper *CacheHelper, key string, value interface{}, ttl time.Duration) {
	if err := helper.Set(ctx, key, value, ttl); err != nil {
		slog.ErrorContext(ctx, "Failed to set cache key",
			"error", err,
			"key", key)
	}
}
