package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/identity-service/internal/models"
	"github.com/SAP-F-2025/identity-service/internal/repositories"
)

// ensureProfileForRole guarantees that the profile collection mapped to the
// role holds exactly one record for the user. The operation is idempotent:
// an existing profile, including one created concurrently between the
// existence check and the insert, is success, not an error. Profile
// selection goes through the capability table so adding a role never adds a
// conditional here.
func ensureProfileForRole(ctx context.Context, repo repositories.Repository, userID string, role models.UserRole) error {
	kind, ok := models.ProfileKindForRole[role]
	if !ok {
		return fmt.Errorf("no profile kind mapped for role %s", role)
	}

	switch kind {
	case models.ProfileKindStudent:
		exists, err := repo.StudentProfile().ExistsByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to check student profile: %w", err)
		}
		if exists {
			return nil
		}
		err = repo.StudentProfile().Create(ctx, &models.StudentProfile{
			ID:              uuid.New().String(),
			UserID:          userID,
			EnrolledCourses: []string{},
		})
		if repositories.IsDuplicateError(err) {
			return nil
		}
		return err

	case models.ProfileKindTeacher:
		exists, err := repo.TeacherProfile().ExistsByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to check teacher profile: %w", err)
		}
		if exists {
			return nil
		}
		err = repo.TeacherProfile().Create(ctx, &models.TeacherProfile{
			ID:            uuid.New().String(),
			UserID:        userID,
			TaughtCourses: []string{},
		})
		if repositories.IsDuplicateError(err) {
			return nil
		}
		return err

	case models.ProfileKindParent:
		exists, err := repo.ParentProfile().ExistsByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to check parent profile: %w", err)
		}
		if exists {
			return nil
		}
		err = repo.ParentProfile().Create(ctx, &models.ParentProfile{
			ID:              uuid.New().String(),
			UserID:          userID,
			ChildStudentIDs: []string{},
		})
		if repositories.IsDuplicateError(err) {
			return nil
		}
		return err
	}

	return fmt.Errorf("unknown profile kind %s", kind)
}

// ensureProfilesForUser runs ensureProfileForRole for every role the user
// holds. Each step is independently idempotent, so a retry after a partial
// failure converges without creating duplicates.
func ensureProfilesForUser(ctx context.Context, repo repositories.Repository, user *models.User) error {
	for _, name := range user.RoleNames {
		if err := ensureProfileForRole(ctx, repo, user.ID, models.UserRole(name)); err != nil {
			return fmt.Errorf("failed to ensure %s profile for user %s: %w", name, user.ID, err)
		}
	}
	return nil
}

// studentResponse joins a user record with its student profile into the
// shared read model. Used by listings that already hold the profile and
// should not re-query the other profile collections.
func studentResponse(user *models.User, profile *models.StudentProfile) *models.UserResponse {
	return &models.UserResponse{
		ID:              user.ID,
		Username:        user.Username,
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Phone:           user.Phone,
		Enabled:         user.Enabled,
		Roles:           user.RoleNames,
		CreatedAt:       user.CreatedAt,
		GradeLevel:      profile.GradeLevel,
		EnrolledCourses: profile.EnrolledCourses,
		OverallProgress: profile.OverallProgress,
		TotalPoints:     profile.TotalPoints,
		TaughtCourses:   []string{},
		ChildStudentIDs: []string{},
	}
}

// containsString reports membership in an unordered string set.
func containsString(set []string, value string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

// removeString returns the set without value, preserving order.
func removeString(set []string, value string) []string {
	out := make([]string, 0, len(set))
	for _, v := range set {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}
