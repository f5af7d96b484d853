package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/identity-service/internal/cache"
	"github.com/SAP-F-2025/identity-service/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface.
type PostgreSQLRepository struct {
	db          *gorm.DB
	redisClient *redis.Client

	user           repositories.UserRepository
	role           repositories.RoleRepository
	studentProfile repositories.StudentProfileRepository
	teacherProfile repositories.TeacherProfileRepository
	parentProfile  repositories.ParentProfileRepository
}

// RepositoryConfig holds configuration for repository initialization.
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository creates a repository manager with all
// sub-repositories. They share one cache manager so a write through any of
// them invalidates the same keyspace.
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)
	return &PostgreSQLRepository{
		db:             config.DB,
		redisClient:    config.RedisClient,
		user:           NewUserPostgreSQL(config.DB, cacheManager),
		role:           NewRolePostgreSQL(config.DB),
		studentProfile: NewStudentProfilePostgreSQL(config.DB, cacheManager),
		teacherProfile: NewTeacherProfilePostgreSQL(config.DB, cacheManager),
		parentProfile:  NewParentProfilePostgreSQL(config.DB, cacheManager),
	}
}

func (r *PostgreSQLRepository) User() repositories.UserRepository {
	return r.user
}

func (r *PostgreSQLRepository) Role() repositories.RoleRepository {
	return r.role
}

func (r *PostgreSQLRepository) StudentProfile() repositories.StudentProfileRepository {
	return r.studentProfile
}

func (r *PostgreSQLRepository) TeacherProfile() repositories.TeacherProfileRepository {
	return r.teacherProfile
}

func (r *PostgreSQLRepository) ParentProfile() repositories.ParentProfileRepository {
	return r.parentProfile
}

func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// RepositoryManagerImpl manages the repository lifecycle.
type RepositoryManagerImpl struct {
	config RepositoryConfig
	repo   repositories.Repository
}

func NewRepositoryManager(config RepositoryConfig) *RepositoryManagerImpl {
	return &RepositoryManagerImpl{config: config}
}

func (m *RepositoryManagerImpl) Initialize() error {
	if m.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}
	m.repo = NewPostgreSQLRepository(m.config)
	return nil
}

func (m *RepositoryManagerImpl) GetRepository() repositories.Repository {
	return m.repo
}

func (m *RepositoryManagerImpl) HealthCheck(ctx context.Context) error {
	if m.repo == nil {
		return fmt.Errorf("repository not initialized")
	}
	return m.repo.Ping(ctx)
}

func (m *RepositoryManagerImpl) Shutdown(ctx context.Context) error {
	if m.repo == nil {
		return nil
	}
	return m.repo.Close()
}
