package services

import (
	"context"

	"github.com/SAP-F-2025/identity-service/internal/models"
	"github.com/SAP-F-2025/identity-service/internal/repositories"
	"github.com/SAP-F-2025/identity-service/internal/validator"
)

// AuthService handles registration, signin, and token validation.
type AuthService interface {
	SignUp(ctx context.Context, req *validator.SignupRequest) error
	SignIn(ctx context.Context, req *validator.LoginRequest) (*models.SignInResponse, error)
	ValidateToken(ctx context.Context, token string) (*models.Principal, error)
}

// UserService handles user reads, partial updates, and deletion. Every
// method takes the acting principal explicitly; there is no ambient
// security context.
type UserService interface {
	GetByID(ctx context.Context, actor *models.Principal, userID string) (*models.UserResponse, error)
	GetByUsername(ctx context.Context, actor *models.Principal, username string) (*models.UserResponse, error)
	List(ctx context.Context, actor *models.Principal, filters repositories.UserFilters) ([]*models.UserResponse, int64, error)
	GetByRole(ctx context.Context, actor *models.Principal, role models.UserRole) ([]*models.UserResponse, error)
	Update(ctx context.Context, actor *models.Principal, userID string, req *validator.UserUpdateRequest) (*models.UserResponse, error)
	Delete(ctx context.Context, actor *models.Principal, userID string) error
}

// StudentService covers the student-scoped profile operations. Enrollment
// always acts on the actor's own profile.
type StudentService interface {
	GetProfile(ctx context.Context, actor *models.Principal, userID string) (*models.StudentProfile, error)
	ListProfiles(ctx context.Context, actor *models.Principal) ([]*models.StudentProfile, error)
	EnrollInCourse(ctx context.Context, actor *models.Principal, courseID string) (*models.StudentProfile, error)
	UnenrollFromCourse(ctx context.Context, actor *models.Principal, courseID string) (*models.StudentProfile, error)
	UpdateProgress(ctx context.Context, actor *models.Principal, userID string, req *validator.ProgressUpdateRequest) (*models.StudentProfile, error)
}

// TeacherService covers the teacher-scoped profile operations.
type TeacherService interface {
	GetProfile(ctx context.Context, actor *models.Principal, userID string) (*models.TeacherProfile, error)
	AssignCourse(ctx context.Context, actor *models.Principal, courseID string) (*models.TeacherProfile, error)
	RemoveCourse(ctx context.Context, actor *models.Principal, courseID string) (*models.TeacherProfile, error)
	GetStudentsByCourse(ctx context.Context, actor *models.Principal, courseID string) ([]*models.UserResponse, error)
}

// ParentService covers the parent-scoped profile operations. Child links
// always act on the actor's own profile.
type ParentService interface {
	GetProfile(ctx context.Context, actor *models.Principal, userID string) (*models.ParentProfile, error)
	AddChild(ctx context.Context, actor *models.Principal, req *validator.ChildRequest) (*models.ParentProfile, error)
	RemoveChild(ctx context.Context, actor *models.Principal, childStudentID string) (*models.ParentProfile, error)
	GetChildren(ctx context.Context, actor *models.Principal) ([]*models.UserResponse, error)
}

// ExportService produces downloadable roster spreadsheets.
type ExportService interface {
	ExportUserRoster(ctx context.Context, actor *models.Principal, role string) ([]byte, string, error)
}

// ServiceManager provides access to all identity services.
type ServiceManager interface {
	Auth() AuthService
	User() UserService
	Student() StudentService
	Teacher() TeacherService
	Parent() ParentService
	Export() ExportService
}
