package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/identity-service/internal/cache"
	"github.com/SAP-F-2025/identity-service/internal/models"
	"github.com/SAP-F-2025/identity-service/internal/repositories"
)

type ParentProfilePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewParentProfilePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.ParentProfileRepository {
	return &ParentProfilePostgreSQL{db: db, cacheManager: cacheManager}
}

func parentProfileCacheKey(userID string) string {
	return fmt.Sprintf("parent:%s", userID)
}

func (r *ParentProfilePostgreSQL) Create(ctx context.Context, profile *models.ParentProfile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("parent profile for user %s: %w", profile.UserID, repositories.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create parent profile: %w", err)
	}
	return nil
}

// GetByUserID retrieves the profile by user id with caching.
func (r *ParentProfilePostgreSQL) GetByUserID(ctx context.Context, userID string) (*models.ParentProfile, error) {
	var profile models.ParentProfile

	err := r.cacheManager.Profile.CacheOrExecute(ctx, parentProfileCacheKey(userID), &profile, cache.ProfileCacheConfig.TTL, func() (interface{}, error) {
		var dbProfile models.ParentProfile
		if err := r.db.WithContext(ctx).First(&dbProfile, "user_id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("parent profile for user %s: %w", userID, repositories.ErrNotFound)
			}
			return nil, fmt.Errorf("failed to get parent profile: %w", err)
		}
		return &dbProfile, nil
	})
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *ParentProfilePostgreSQL) Update(ctx context.Context, profile *models.ParentProfile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return fmt.Errorf("failed to update parent profile: %w", err)
	}

	cache.SafeDelete(ctx, r.cacheManager.Profile, parentProfileCacheKey(profile.UserID))
	return nil
}

// ExistsByUserID answers from cache when possible; only positive results
// are cached.
func (r *ParentProfilePostgreSQL) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	key := parentProfileCacheKey(userID)
	if ok, err := r.cacheManager.Profile.Exists(ctx, key); err == nil && ok {
		return true, nil
	}
	var cached bool
	if err := r.cacheManager.Exists.Get(ctx, key, &cached); err == nil && cached {
		return true, nil
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&models.ParentProfile{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check parent profile existence: %w", err)
	}

	if count > 0 {
		cache.SafeSet(ctx, r.cacheManager.Exists, key, true, cache.ExistsCacheConfig.TTL)
	}
	return count > 0, nil
}

func (r *ParentProfilePostgreSQL) DeleteByUserID(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Delete(&models.ParentProfile{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to delete parent profile: %w", err)
	}

	key := parentProfileCacheKey(userID)
	cache.SafeDelete(ctx, r.cacheManager.Profile, key)
	cache.SafeDelete(ctx, r.cacheManager.Exists, key)
	return nil
}
