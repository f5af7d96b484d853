package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SafeInvalidatePattern invalidates a cache pattern, logging instead of
// failing the caller's write path.
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete deletes cache keys, logging instead of failing the caller's
// write path.
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// SafeSet stores a value, logging instead of failing the caller.
func SafeSet(ctx context.Context, helper *CacheHelper, key string, value interface{}, ttl time.Duration) {
	if err := helper.Set(ctx, key, value, ttl); err != nil {
		slog.ErrorContext(ctx, "Failed to set cache key",
			"error", err,
			"key", key)
	}
}

// InvalidateUserCache drops every cached view of a user after a mutation:
// the user record, the three profile views, the existence markers, and any
// cached listings.
func InvalidateUserCache(ctx context.Context, cm *CacheManager, userID string) {
	profileKeys := []string{
		fmt.Sprintf("student:%s", userID),
		fmt.Sprintf("teacher:%s", userID),
		fmt.Sprintf("parent:%s", userID),
	}
	SafeDelete(ctx, cm.User, fmt.Sprintf("id:%s", userID))
	SafeDelete(ctx, cm.Profile, profileKeys...)
	SafeDelete(ctx, cm.Exists, profileKeys...)
	SafeInvalidatePattern(ctx, cm.User, "list:*")
}
