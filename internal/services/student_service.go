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

type studentService struct {
	repo      repositories.Repository
	validator *validator.Validator
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewStudentService(
	repo repositories.Repository,
	v *validator.Validator,
	publisher events.EventPublisher,
	logger *slog.Logger,
) StudentService {
	return &studentService{
		repo:      repo,
		validator: v,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *studentService) GetProfile(ctx context.Context, actor *models.Principal, userID string) (*models.StudentProfile, error) {
	if err := requireSelfOrElevated(actor, userID, "student_profile", "read"); err != nil {
		return nil, err
	}
	return s.getProfile(ctx, userID)
}

func (s *studentService) ListProfiles(ctx context.Context, actor *models.Principal) ([]*models.StudentProfile, error) {
	if err := requireElevated(actor, "student_profile", "list"); err != nil {
		return nil, err
	}

	profiles, err := s.repo.StudentProfile().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list student profiles: %w", err)
	}
	return profiles, nil
}

// EnrollInCourse adds the course to the actor's enrollment set. Enrolling
// in a course already present is a no-op, not an error.
func (s *studentService) EnrollInCourse(ctx context.Context, actor *models.Principal, courseID string) (*models.StudentProfile, error) {
	if err := requireRole(actor, models.RoleStudent, "student_profile", "enroll"); err != nil {
		return nil, err
	}
	if errs := s.validateCourse(courseID); errs != nil {
		return nil, errs
	}

	profile, err := s.getProfile(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if !containsString(profile.EnrolledCourses, courseID) {
		profile.EnrolledCourses = append(profile.EnrolledCourses, courseID)
		if err := s.repo.StudentProfile().Update(ctx, profile); err != nil {
			return nil, fmt.Errorf("failed to update enrollment: %w", err)
		}
		s.publishEvent(ctx, events.NewEvent(events.TypeCourseEnrolled, actor.ID, map[string]interface{}{
			"course_id": courseID,
		}))
	}

	return profile, nil
}

// UnenrollFromCourse removes the course from the actor's enrollment set.
// Removing an absent course is a no-op.
func (s *studentService) UnenrollFromCourse(ctx context.Context, actor *models.Principal, courseID string) (*models.StudentProfile, error) {
	if err := requireRole(actor, models.RoleStudent, "student_profile", "unenroll"); err != nil {
		return nil, err
	}
	if errs := s.validateCourse(courseID); errs != nil {
		return nil, errs
	}

	profile, err := s.getProfile(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if containsString(profile.EnrolledCourses, courseID) {
		profile.EnrolledCourses = removeString(profile.EnrolledCourses, courseID)
		if err := s.repo.StudentProfile().Update(ctx, profile); err != nil {
			return nil, fmt.Errorf("failed to update enrollment: %w", err)
		}
		s.publishEvent(ctx, events.NewEvent(events.TypeCourseDropped, actor.ID, map[string]interface{}{
			"course_id": courseID,
		}))
	}

	return profile, nil
}

// UpdateProgress replaces a student's progress and points. Reserved for
// teachers: progress is graded, not self-reported.
func (s *studentService) UpdateProgress(ctx context.Context, actor *models.Principal, userID string, req *validator.ProgressUpdateRequest) (*models.StudentProfile, error) {
	if err := requireRole(actor, models.RoleTeacher, "student_profile", "update_progress"); err != nil {
		return nil, err
	}
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}

	profile, err := s.getProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.OverallProgress = req.OverallProgress
	profile.TotalPoints = req.TotalPoints
	if err := s.repo.StudentProfile().Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}

	s.logger.Info("student progress updated",
		"user_id", userID, "updated_by", actor.ID, "progress", req.OverallProgress)
	return profile, nil
}

func (s *studentService) getProfile(ctx context.Context, userID string) (*models.StudentProfile, error) {
	profile, err := s.repo.StudentProfile().GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentProfileNotFound
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}
	return profile, nil
}

func (s *studentService) validateCourse(courseID string) error {
	if errs := s.validator.GetBusinessValidator().Validate(&validator.CourseRequest{CourseID: courseID}); len(errs) > 0 {
		return errs
	}
	return nil
}

func (s *studentService) publishEvent(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "type", event.Type, "error", err)
	}
}
