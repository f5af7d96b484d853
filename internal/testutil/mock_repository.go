// Package testutil holds the in-memory test doubles shared by the service
// and handler tests. Nothing here is imported by production code.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/SAP-F-2025/identity-service/internal/models"
	"github.com/SAP-F-2025/identity-service/internal/repositories"
)

// Store is the shared in-memory state behind the mock repositories. It
// emulates the unique indexes the real storage enforces: username, email,
// role name, and one profile per user per collection.
type Store struct {
	mu sync.Mutex

	users           map[string]*models.User
	roles           map[models.UserRole]*models.Role
	studentProfiles map[string]*models.StudentProfile
	teacherProfiles map[string]*models.TeacherProfile
	parentProfiles  map[string]*models.ParentProfile

	// ReportExistsFalse makes the existence pre-checks lie, so tests can
	// drive the unique-index conflict path that pre-checks normally hide.
	ReportExistsFalse bool
}

// MockRepository is an in-memory Repository for service and handler tests.
type MockRepository struct {
	store *Store

	user           *MockUserRepository
	role           *MockRoleRepository
	studentProfile *MockStudentProfileRepository
	teacherProfile *MockTeacherProfileRepository
	parentProfile  *MockParentProfileRepository
}

func NewMockRepository() *MockRepository {
	store := &Store{
		users:           make(map[string]*models.User),
		roles:           make(map[models.UserRole]*models.Role),
		studentProfiles: make(map[string]*models.StudentProfile),
		teacherProfiles: make(map[string]*models.TeacherProfile),
		parentProfiles:  make(map[string]*models.ParentProfile),
	}
	return &MockRepository{
		store:          store,
		user:           &MockUserRepository{store: store},
		role:           &MockRoleRepository{store: store},
		studentProfile: &MockStudentProfileRepository{store: store},
		teacherProfile: &MockTeacherProfileRepository{store: store},
		parentProfile:  &MockParentProfileRepository{store: store},
	}
}

func (m *MockRepository) User() repositories.UserRepository                     { return m.user }
func (m *MockRepository) Role() repositories.RoleRepository                     { return m.role }
func (m *MockRepository) StudentProfile() repositories.StudentProfileRepository { return m.studentProfile }
func (m *MockRepository) TeacherProfile() repositories.TeacherProfileRepository { return m.teacherProfile }
func (m *MockRepository) ParentProfile() repositories.ParentProfileRepository   { return m.parentProfile }
func (m *MockRepository) Ping(ctx context.Context) error                        { return nil }
func (m *MockRepository) Close() error                                          { return nil }

// Store exposes the underlying state for test assertions.
func (m *MockRepository) Store() *Store { return m.store }

type MockUserRepository struct {
	store *Store
}

func (r *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return fmt.Errorf("users unique index: %w", repositories.ErrDuplicateKey)
		}
	}
	copied := *user
	r.store.users[user.ID] = &copied
	return nil
}

func (r *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, repositories.ErrNotFound)
	}
	copied := *user
	return &copied, nil
}

func (r *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", username, repositories.ErrNotFound)
}

func (r *MockUserRepository) GetByRole(ctx context.Context, role models.UserRole) ([]*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*models.User
	for _, user := range r.store.users {
		if user.HasRole(role) {
			copied := *user
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *MockUserRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*models.User
	for _, user := range r.store.users {
		if filters.Role != "" && !user.HasRole(models.UserRole(filters.Role)) {
			continue
		}
		copied := *user
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[user.ID]; !ok {
		return fmt.Errorf("user %s: %w", user.ID, repositories.ErrNotFound)
	}
	for id, existing := range r.store.users {
		if id != user.ID && (existing.Username == user.Username || existing.Email == user.Email) {
			return fmt.Errorf("users unique index: %w", repositories.ErrDuplicateKey)
		}
	}
	copied := *user
	r.store.users[user.ID] = &copied
	return nil
}

func (r *MockUserRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[id]; !ok {
		return fmt.Errorf("user %s: %w", id, repositories.ErrNotFound)
	}
	delete(r.store.users, id)
	return nil
}

func (r *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.ReportExistsFalse {
		return false, nil
	}
	for _, user := range r.store.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.ReportExistsFalse {
		return false, nil
	}
	for _, user := range r.store.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type MockRoleRepository struct {
	store *Store
}

func (r *MockRoleRepository) Create(ctx context.Context, role *models.Role) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.roles[role.Name]; ok {
		return fmt.Errorf("roles unique index: %w", repositories.ErrDuplicateKey)
	}
	copied := *role
	r.store.roles[role.Name] = &copied
	return nil
}

func (r *MockRoleRepository) GetByName(ctx context.Context, name models.UserRole) (*models.Role, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	role, ok := r.store.roles[name]
	if !ok {
		return nil, fmt.Errorf("role %s: %w", name, repositories.ErrNotFound)
	}
	copied := *role
	return &copied, nil
}

func (r *MockRoleRepository) Count(ctx context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.roles)), nil
}

type MockStudentProfileRepository struct {
	store *Store
}

func (r *MockStudentProfileRepository) Create(ctx context.Context, profile *models.StudentProfile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.studentProfiles[profile.UserID]; ok {
		return fmt.Errorf("student_profiles unique index: %w", repositories.ErrDuplicateKey)
	}
	copied := *profile
	r.store.studentProfiles[profile.UserID] = &copied
	return nil
}

func (r *MockStudentProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.StudentProfile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	profile, ok := r.store.studentProfiles[userID]
	if !ok {
		return nil, fmt.Errorf("student profile for user %s: %w", userID, repositories.ErrNotFound)
	}
	copied := *profile
	return &copied, nil
}

func (r *MockStudentProfileRepository) GetByEnrolledCourse(ctx context.Context, courseID string) ([]*models.StudentProfile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*models.StudentProfile
	for _, profile := range r.store.studentProfiles {
		for _, c := range profile.EnrolledCourses {
			if c == courseID {
				copied := *profile
				out = append(out, &copied)
				break
			}
		}
	}
	return out, nil
}

func (r *MockStudentProfileRepository) List(ctx context.Context) ([]*models.StudentProfile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*models.StudentProfile
	for _, profile := range r.store.studentProfiles {
		copied := *profile
		out = append(out, &copied)
	}
	return out, nil
}

func (r *MockStudentProfileRepository) Update(ctx context.Context, profile *models.StudentProfile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.studentProfiles[profile.UserID]; !ok {
		return fmt.Errorf("student profile for user %s: %w", profile.UserID, repositories.ErrNotFound)
	}
	copied := *profile
	r.store.studentProfiles[profile.UserID] = &copied
	return nil
}

func (r *MockStudentProfileRepository) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.ReportExistsFalse {
		return false, nil
	}
	_, ok := r.store.studentProfiles[userID]
	return ok, nil
}

func (r *MockStudentProfileRepository) DeleteByUserID(ctx context.Context, userID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.studentProfiles, userID)
	return nil
}

type MockTeacherProfileRepository struct {
	store *Store
}

func (r *MockTeacherProfileRepository) Create(ctx context.Context, profile *models.TeacherProfile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.teacherProfiles[profile.UserID]; ok {
		return fmt.Errorf("teacher_profiles unique index: %w", repositories.ErrDuplicateKey)
	}
	copied := *profile
	r.store.teacherProfiles[profile.UserID] = &copied
	return nil
}

func (r *MockTeacherProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.TeacherProfile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	profile, ok := r.store.teacherProfiles[userID]
	if !ok {
		return nil, fmt.Errorf("teacher profile for user %s: %w", userID, repositories.ErrNotFound)
	}
	copied := *profile
	return &copied, nil
}

func (r *MockTeacherProfileRepository) Update(ctx context.Context, profile *models.TeacherProfile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.teacherProfiles[profile.UserID]; !ok {
		return fmt.Errorf("teacher profile for user %s: %w", profile.UserID, repositories.ErrNotFound)
	}
	copied := *profile
	r.store.teacherProfiles[profile.UserID] = &copied
	return nil
}

func (r *MockTeacherProfileRepository) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.ReportExistsFalse {
		return false, nil
	}
	_, ok := r.store.teacherProfiles[userID]
	return ok, nil
}

func (r *MockTeacherProfileRepository) DeleteByUserID(ctx context.Context, userID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.teacherProfiles, userID)
	return nil
}

type MockParentProfileRepository struct {
	store *Store
}

func (r *MockParentProfileRepository) Create(ctx context.Context, profile *models.ParentProfile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.parentProfiles[profile.UserID]; ok {
		return fmt.Errorf("parent_profiles unique index: %w", repositories.ErrDuplicateKey)
	}
	copied := *profile
	r.store.parentProfiles[profile.UserID] = &copied
	return nil
}

func (r *MockParentProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.ParentProfile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	profile, ok := r.store.parentProfiles[userID]
	if !ok {
		return nil, fmt.Errorf("parent profile for user %s: %w", userID, repositories.ErrNotFound)
	}
	copied := *profile
	return &copied, nil
}

func (r *MockParentProfileRepository) Update(ctx context.Context, profile *models.ParentProfile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.parentProfiles[profile.UserID]; !ok {
		return fmt.Errorf("parent profile for user %s: %w", profile.UserID, repositories.ErrNotFound)
	}
	copied := *profile
	r.store.parentProfiles[profile.UserID] = &copied
	return nil
}

func (r *MockParentProfileRepository) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.ReportExistsFalse {
		return false, nil
	}
	_, ok := r.store.parentProfiles[userID]
	return ok, nil
}

func (r *MockParentProfileRepository) DeleteByUserID(ctx context.Context, userID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.parentProfiles, userID)
	return nil
}
