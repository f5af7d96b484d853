package repositories

import (
	"context"

	"github.com/SAP-F-2025/identity-service/internal/models"
)

// UserFilters defines filters for user list queries.
type UserFilters struct {
	Query  string // Search query for username or email
	Role   string // Filter by role name
	Limit  int    // Page size
	Offset int    // Offset for pagination
}

// UserRepository persists the users collection. Create surfaces a storage
// uniqueness violation as a duplicate-key error even when the caller's own
// existence checks passed — the unique index is the enforcement boundary.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByRole(ctx context.Context, role models.UserRole) ([]*models.User, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error

	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RoleRepository reads and seeds the fixed role catalog.
type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	GetByName(ctx context.Context, name models.UserRole) (*models.Role, error)
	Count(ctx context.Context) (int64, error)
}

// StudentProfileRepository persists student_profiles, keyed 1:1 to a user.
type StudentProfileRepository interface {
	Create(ctx context.Context, profile *models.StudentProfile) error
	GetByUserID(ctx context.Context, userID string) (*models.StudentProfile, error)
	GetByEnrolledCourse(ctx context.Context, courseID string) ([]*models.StudentProfile, error)
	List(ctx context.Context) ([]*models.StudentProfile, error)
	Update(ctx context.Context, profile *models.StudentProfile) error
	ExistsByUserID(ctx context.Context, userID string) (bool, error)

	// DeleteByUserID is a no-op when no profile exists.
	DeleteByUserID(ctx context.Context, userID string) error
}

// TeacherProfileRepository persists teacher_profiles, keyed 1:1 to a user.
type TeacherProfileRepository interface {
	Create(ctx context.Context, profile *models.TeacherProfile) error
	GetByUserID(ctx context.Context, userID string) (*models.TeacherProfile, error)
	Update(ctx context.Context, profile *models.TeacherProfile) error
	ExistsByUserID(ctx context.Context, userID string) (bool, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

// ParentProfileRepository persists parent_profiles, keyed 1:1 to a user.
type ParentProfileRepository interface {
	Create(ctx context.Context, profile *models.ParentProfile) error
	GetByUserID(ctx context.Context, userID string) (*models.ParentProfile, error)
	Update(ctx context.Context, profile *models.ParentProfile) error
	ExistsByUserID(ctx context.Context, userID string) (bool, error)
	DeleteByUserID(ctx context.Context, userID string) error
}
