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

type StudentProfilePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewStudentProfilePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.StudentProfileRepository {
	return &StudentProfilePostgreSQL{db: db, cacheManager: cacheManager}
}

func studentProfileCacheKey(userID string) string {
	return fmt.Sprintf("student:%s", userID)
}

func (r *StudentProfilePostgreSQL) Create(ctx context.Context, profile *models.StudentProfile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("student profile for user %s: %w", profile.UserID, repositories.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create student profile: %w", err)
	}
	return nil
}

// GetByUserID retrieves the profile by user id with caching.
func (r *StudentProfilePostgreSQL) GetByUserID(ctx context.Context, userID string) (*models.StudentProfile, error) {
	var profile models.StudentProfile

	err := r.cacheManager.Profile.CacheOrExecute(ctx, studentProfileCacheKey(userID), &profile, cache.ProfileCacheConfig.TTL, func() (interface{}, error) {
		var dbProfile models.StudentProfile
		if err := r.db.WithContext(ctx).First(&dbProfile, "user_id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("student profile for user %s: %w", userID, repositories.ErrNotFound)
			}
			return nil, fmt.Errorf("failed to get student profile: %w", err)
		}
		return &dbProfile, nil
	})
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *StudentProfilePostgreSQL) GetByEnrolledCourse(ctx context.Context, courseID string) ([]*models.StudentProfile, error) {
	var profiles []*models.StudentProfile
	err := r.db.WithContext(ctx).
		Where("enrolled_courses::jsonb @> ?", fmt.Sprintf(`["%s"]`, courseID)).
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get student profiles by course: %w", err)
	}
	return profiles, nil
}

func (r *StudentProfilePostgreSQL) List(ctx context.Context) ([]*models.StudentProfile, error) {
	var profiles []*models.StudentProfile
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to list student profiles: %w", err)
	}
	return profiles, nil
}

func (r *StudentProfilePostgreSQL) Update(ctx context.Context, profile *models.StudentProfile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return fmt.Errorf("failed to update student profile: %w", err)
	}

	cache.SafeDelete(ctx, r.cacheManager.Profile, studentProfileCacheKey(profile.UserID))
	return nil
}

// ExistsByUserID answers from cache when possible. Only positive results
// are cached: a stale "absent" would mask a profile that was just created.
func (r *StudentProfilePostgreSQL) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	key := studentProfileCacheKey(userID)
	if ok, err := r.cacheManager.Profile.Exists(ctx, key); err == nil && ok {
		return true, nil
	}
	var cached bool
	if err := r.cacheManager.Exists.Get(ctx, key, &cached); err == nil && cached {
		return true, nil
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&models.StudentProfile{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check student profile existence: %w", err)
	}

	if count > 0 {
		cache.SafeSet(ctx, r.cacheManager.Exists, key, true, cache.ExistsCacheConfig.TTL)
	}
	return count > 0, nil
}

// DeleteByUserID deletes the profile if present; deleting an absent profile
// is a no-op so the cascade in user deletion stays idempotent.
func (r *StudentProfilePostgreSQL) DeleteByUserID(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Delete(&models.StudentProfile{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to delete student profile: %w", err)
	}

	key := studentProfileCacheKey(userID)
	cache.SafeDelete(ctx, r.cacheManager.Profile, key)
	cache.SafeDelete(ctx, r.cacheManager.Exists, key)
	return nil
}
