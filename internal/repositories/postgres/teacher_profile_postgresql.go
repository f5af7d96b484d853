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

type TeacherProfilePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewTeacherProfilePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.TeacherProfileRepository {
	return &TeacherProfilePostgreSQL{db: db, cacheManager: cacheManager}
}

func teacherProfileCacheKey(userID string) string {
	return fmt.Sprintf("teacher:%s", userID)
}

func (r *TeacherProfilePostgreSQL) Create(ctx context.Context, profile *models.TeacherProfile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("teacher profile for user %s: %w", profile.UserID, repositories.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create teacher profile: %w", err)
	}
	return nil
}

// GetByUserID retrieves the profile by user id with caching.
func (r *TeacherProfilePostgreSQL) GetByUserID(ctx context.Context, userID string) (*models.TeacherProfile, error) {
	var profile models.TeacherProfile

	err := r.cacheManager.Profile.CacheOrExecute(ctx, teacherProfileCacheKey(userID), &profile, cache.ProfileCacheConfig.TTL, func() (interface{}, error) {
		var dbProfile models.TeacherProfile
		if err := r.db.WithContext(ctx).First(&dbProfile, "user_id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("teacher profile for user %s: %w", userID, repositories.ErrNotFound)
			}
			return nil, fmt.Errorf("failed to get teacher profile: %w", err)
		}
		return &dbProfile, nil
	})
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *TeacherProfilePostgreSQL) Update(ctx context.Context, profile *models.TeacherProfile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return fmt.Errorf("failed to update teacher profile: %w", err)
	}

	cache.SafeDelete(ctx, r.cacheManager.Profile, teacherProfileCacheKey(profile.UserID))
	return nil
}

// ExistsByUserID answers from cache when possible; only positive results
// are cached.
func (r *TeacherProfilePostgreSQL) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	key := teacherProfileCacheKey(userID)
	if ok, err := r.cacheManager.Profile.Exists(ctx, key); err == nil && ok {
		return true, nil
	}
	var cached bool
	if err := r.cacheManager.Exists.Get(ctx, key, &cached); err == nil && cached {
		return true, nil
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&models.TeacherProfile{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check teacher profile existence: %w", err)
	}

	if count > 0 {
		cache.SafeSet(ctx, r.cacheManager.Exists, key, true, cache.ExistsCacheConfig.TTL)
	}
	return count > 0, nil
}

func (r *TeacherProfilePostgreSQL) DeleteByUserID(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Delete(&models.TeacherProfile{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to delete teacher profile: %w", err)
	}

	key := teacherProfileCacheKey(userID)
	cache.SafeDelete(ctx, r.cacheManager.Profile, key)
	cache.SafeDelete(ctx, r.cacheManager.Exists, key)
	return nil
}
