package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/identity-service/internal/events"
	"github.com/SAP-F-2025/identity-service/internal/models"
	"github.com/SAP-F-2025/identity-service/internal/repositories"
	"github.com/SAP-F-2025/identity-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	validator *validator.Validator
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewUserService(
	repo repositories.Repository,
	v *validator.Validator,
	publisher events.EventPublisher,
	logger *slog.Logger,
) UserService {
	return &userService{
		repo:      repo,
		validator: v,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *userService) GetByID(ctx context.Context, actor *models.Principal, userID string) (*models.UserResponse, error) {
	if err := requireSelfOrElevated(actor, userID, "user", "read"); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return s.buildUserResponse(ctx, user), nil
}

// GetByUsername resolves the username before it can authorize, so a caller
// who may not read the record gets the same not-found answer as for an
// absent username. Anything else would leak which usernames exist.
func (s *userService) GetByUsername(ctx context.Context, actor *models.Principal, username string) (*models.UserResponse, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.repo.User().GetByUsername(ctx, username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := requireSelfOrElevated(actor, user.ID, "user", "read"); err != nil {
		return nil, ErrUserNotFound
	}

	return s.buildUserResponse(ctx, user), nil
}

func (s *userService) List(ctx context.Context, actor *models.Principal, filters repositories.UserFilters) ([]*models.UserResponse, int64, error) {
	if err := requireElevated(actor, "user", "list"); err != nil {
		return nil, 0, err
	}

	users, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]*models.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, s.buildUserResponse(ctx, user))
	}
	return responses, total, nil
}

func (s *userService) GetByRole(ctx context.Context, actor *models.Principal, role models.UserRole) ([]*models.UserResponse, error) {
	if err := requireElevated(actor, "user", "list"); err != nil {
		return nil, err
	}

	users, err := s.repo.User().GetByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by role: %w", err)
	}

	responses := make([]*models.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, s.buildUserResponse(ctx, user))
	}
	return responses, nil
}

// Update applies a partial patch. Nil fields are untouched; role-specific
// fields only land on profiles of roles the user actually holds, the rest
// are silently ignored. A profile missing for a held role is created on
// first write.
func (s *userService) Update(ctx context.Context, actor *models.Principal, userID string, req *validator.UserUpdateRequest) (*models.UserResponse, error) {
	if err := requireSelfOrElevated(actor, userID, "user", "update"); err != nil {
		return nil, err
	}

	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.Email != nil {
		newEmail := strings.TrimSpace(*req.Email)
		if newEmail != user.Email {
			taken, err := s.repo.User().ExistsByEmail(ctx, newEmail)
			if err != nil {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			if taken {
				return nil, NewEmailConflict()
			}
		}
	}

	if changed := s.applyUserPatch(user, req); changed {
		if err := s.repo.User().Update(ctx, user); err != nil {
			if repositories.IsDuplicateError(err) {
				return nil, NewEmailConflict()
			}
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	if err := s.applyProfilePatches(ctx, user, req); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NewEvent(events.TypeUserUpdated, user.ID, nil))

	return s.buildUserResponse(ctx, user), nil
}

// Delete removes the user and every profile tied to it. Profiles go first:
// a crash in between leaves dangling profiles for a retry to clean up, never
// a user without its profiles. Every profile kind is deleted regardless of
// the roles the user record lists, so a profile orphaned by a drifted role
// set cannot outlive its user; deleting an absent profile is a no-op.
func (s *userService) Delete(ctx context.Context, actor *models.Principal, userID string) error {
	if err := requireElevated(actor, "user", "delete"); err != nil {
		return err
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	for _, role := range models.AllRoles {
		if err := s.deleteProfileForRole(ctx, userID, role); err != nil {
			return err
		}
	}

	if err := s.repo.User().Delete(ctx, userID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.publishEvent(ctx, events.NewEvent(events.TypeUserDeleted, userID, map[string]interface{}{
		"username": user.Username,
	}))

	s.logger.Info("user deleted", "user_id", userID, "deleted_by", actor.ID)
	return nil
}

func (s *userService) deleteProfileForRole(ctx context.Context, userID string, role models.UserRole) error {
	kind, ok := models.ProfileKindForRole[role]
	if !ok {
		return nil
	}

	var err error
	switch kind {
	case models.ProfileKindStudent:
		err = s.repo.StudentProfile().DeleteByUserID(ctx, userID)
	case models.ProfileKindTeacher:
		err = s.repo.TeacherProfile().DeleteByUserID(ctx, userID)
	case models.ProfileKindParent:
		err = s.repo.ParentProfile().DeleteByUserID(ctx, userID)
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s for user %s: %w", kind, userID, err)
	}
	return nil
}

// applyUserPatch copies non-nil base fields onto the user and reports
// whether anything changed.
func (s *userService) applyUserPatch(user *models.User, req *validator.UserUpdateRequest) bool {
	changed := false
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
		changed = true
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
		changed = true
	}
	if req.Email != nil {
		user.Email = strings.TrimSpace(*req.Email)
		changed = true
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
		changed = true
	}
	return changed
}

func (s *userService) applyProfilePatches(ctx context.Context, user *models.User, req *validator.UserUpdateRequest) error {
	if user.HasRole(models.RoleStudent) && req.GradeLevel != nil {
		if err := ensureProfileForRole(ctx, s.repo, user.ID, models.RoleStudent); err != nil {
			return err
		}
		profile, err := s.repo.StudentProfile().GetByUserID(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to get student profile: %w", err)
		}
		profile.GradeLevel = *req.GradeLevel
		if err := s.repo.StudentProfile().Update(ctx, profile); err != nil {
			return fmt.Errorf("failed to update student profile: %w", err)
		}
	}

	if user.HasRole(models.RoleTeacher) && (req.Subject != nil || req.Qualification != nil || req.Bio != nil) {
		if err := ensureProfileForRole(ctx, s.repo, user.ID, models.RoleTeacher); err != nil {
			return err
		}
		profile, err := s.repo.TeacherProfile().GetByUserID(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to get teacher profile: %w", err)
		}
		if req.Subject != nil {
			profile.Subject = *req.Subject
		}
		if req.Qualification != nil {
			profile.Qualification = *req.Qualification
		}
		if req.Bio != nil {
			profile.Bio = *req.Bio
		}
		if err := s.repo.TeacherProfile().Update(ctx, profile); err != nil {
			return fmt.Errorf("failed to update teacher profile: %w", err)
		}
	}

	if user.HasRole(models.RoleParent) && req.Relationship != nil {
		if err := ensureProfileForRole(ctx, s.repo, user.ID, models.RoleParent); err != nil {
			return err
		}
		profile, err := s.repo.ParentProfile().GetByUserID(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to get parent profile: %w", err)
		}
		profile.Relationship = *req.Relationship
		if err := s.repo.ParentProfile().Update(ctx, profile); err != nil {
			return fmt.Errorf("failed to update parent profile: %w", err)
		}
	}

	return nil
}

// buildUserResponse joins the user with the profiles of every role it
// holds. A profile missing for a held role leaves its fields at zero values
// rather than failing the read.
func (s *userService) buildUserResponse(ctx context.Context, user *models.User) *models.UserResponse {
	resp := &models.UserResponse{
		ID:              user.ID,
		Username:        user.Username,
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Phone:           user.Phone,
		Enabled:         user.Enabled,
		Roles:           user.RoleNames,
		CreatedAt:       user.CreatedAt,
		EnrolledCourses: []string{},
		TaughtCourses:   []string{},
		ChildStudentIDs: []string{},
	}

	if user.HasRole(models.RoleStudent) {
		if profile, err := s.repo.StudentProfile().GetByUserID(ctx, user.ID); err == nil {
			resp.GradeLevel = profile.GradeLevel
			resp.EnrolledCourses = profile.EnrolledCourses
			resp.OverallProgress = profile.OverallProgress
			resp.TotalPoints = profile.TotalPoints
		} else if !repositories.IsNotFoundError(err) {
			s.logger.Warn("failed to load student profile", "user_id", user.ID, "error", err)
		}
	}

	if user.HasRole(models.RoleTeacher) {
		if profile, err := s.repo.TeacherProfile().GetByUserID(ctx, user.ID); err == nil {
			resp.Subject = profile.Subject
			resp.Qualification = profile.Qualification
			resp.Bio = profile.Bio
			resp.TaughtCourses = profile.TaughtCourses
		} else if !repositories.IsNotFoundError(err) {
			s.logger.Warn("failed to load teacher profile", "user_id", user.ID, "error", err)
		}
	}

	if user.HasRole(models.RoleParent) {
		if profile, err := s.repo.ParentProfile().GetByUserID(ctx, user.ID); err == nil {
			resp.Relationship = profile.Relationship
			resp.ChildStudentIDs = profile.ChildStudentIDs
		} else if !repositories.IsNotFoundError(err) {
			s.logger.Warn("failed to load parent profile", "user_id", user.ID, "error", err)
		}
	}

	return resp
}

func (s *userService) publishEvent(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "type", event.Type, "error", err)
	}
}
