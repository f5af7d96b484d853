package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/identity-service/internal/events"
	"github.com/SAP-F-2025/identity-service/internal/models"
	"github.com/SAP-F-2025/identity-service/internal/repositories"
	"github.com/SAP-F-2025/identity-service/internal/validator"
)

type parentService struct {
	repo      repositories.Repository
	validator *validator.Validator
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewParentService(
	repo repositories.Repository,
	v *validator.Validator,
	publisher events.EventPublisher,
	logger *slog.Logger,
) ParentService {
	return &parentService{
		repo:      repo,
		validator: v,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *parentService) GetProfile(ctx context.Context, actor *models.Principal, userID string) (*models.ParentProfile, error) {
	if err := requireSelfOrElevated(actor, userID, "parent_profile", "read"); err != nil {
		return nil, err
	}
	return s.getProfile(ctx, userID)
}

// AddChild links an existing user to the actor's child set. The target must
// exist as a user; its role set is not checked. Linking an already linked
// child is a no-op.
func (s *parentService) AddChild(ctx context.Context, actor *models.Principal, req *validator.ChildRequest) (*models.ParentProfile, error) {
	if err := requireRole(actor, models.RoleParent, "parent_profile", "add_child"); err != nil {
		return nil, err
	}
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}

	if _, err := s.repo.User().GetByID(ctx, req.ChildStudentID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up child user: %w", err)
	}

	profile, err := s.getProfile(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if !containsString(profile.ChildStudentIDs, req.ChildStudentID) {
		profile.ChildStudentIDs = append(profile.ChildStudentIDs, req.ChildStudentID)
		if err := s.repo.ParentProfile().Update(ctx, profile); err != nil {
			return nil, fmt.Errorf("failed to update child links: %w", err)
		}
		s.publishEvent(ctx, events.NewEvent(events.TypeChildLinked, actor.ID, map[string]interface{}{
			"child_student_id": req.ChildStudentID,
		}))
	}

	return profile, nil
}

// RemoveChild unlinks a child from the actor's child set. Unlinking an
// absent id is a no-op.
func (s *parentService) RemoveChild(ctx context.Context, actor *models.Principal, childStudentID string) (*models.ParentProfile, error) {
	if err := requireRole(actor, models.RoleParent, "parent_profile", "remove_child"); err != nil {
		return nil, err
	}

	profile, err := s.getProfile(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if containsString(profile.ChildStudentIDs, childStudentID) {
		profile.ChildStudentIDs = removeString(profile.ChildStudentIDs, childStudentID)
		if err := s.repo.ParentProfile().Update(ctx, profile); err != nil {
			return nil, fmt.Errorf("failed to update child links: %w", err)
		}
		s.publishEvent(ctx, events.NewEvent(events.TypeChildUnlinked, actor.ID, map[string]interface{}{
			"child_student_id": childStudentID,
		}))
	}

	return profile, nil
}

// GetChildren resolves the actor's child links into user read models. Links
// are not cleaned up when a child user is deleted, so dangling ids are
// skipped rather than failing the listing.
func (s *parentService) GetChildren(ctx context.Context, actor *models.Principal) ([]*models.UserResponse, error) {
	if err := requireRole(actor, models.RoleParent, "parent_profile", "list_children"); err != nil {
		return nil, err
	}

	profile, err := s.getProfile(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	children := make([]*models.UserResponse, 0, len(profile.ChildStudentIDs))
	for _, childID := range profile.ChildStudentIDs {
		user, err := s.repo.User().GetByID(ctx, childID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				s.logger.Warn("child link references missing user",
					"parent_id", actor.ID, "child_id", childID)
				continue
			}
			return nil, fmt.Errorf("failed to get child %s: %w", childID, err)
		}

		studentProfile, err := s.repo.StudentProfile().GetByUserID(ctx, childID)
		if err != nil {
			if !repositories.IsNotFoundError(err) {
				return nil, fmt.Errorf("failed to get student profile for child %s: %w", childID, err)
			}
			// The child may not hold the student role; report the bare user.
			studentProfile = &models.StudentProfile{EnrolledCourses: []string{}}
		}

		children = append(children, studentResponse(user, studentProfile))
	}

	return children, nil
}

func (s *parentService) getProfile(ctx context.Context, userID string) (*models.ParentProfile, error) {
	profile, err := s.repo.ParentProfile().GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrParentProfileNotFound
		}
		return nil, fmt.Errorf("failed to get parent profile: %w", err)
	}
	return profile, nil
}

func (s *parentService) publishEvent(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "type", event.Type, "error", err)
	}
}
