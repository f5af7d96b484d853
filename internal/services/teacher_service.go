package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/identity-service/internal/models"
	"github.com/SAP-F-2025/identity-service/internal/repositories"
	"github.com/SAP-F-2025/identity-service/internal/validator"
)

type teacherService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    *slog.Logger
}

func NewTeacherService(
	repo repositories.Repository,
	v *validator.Validator,
	logger *slog.Logger,
) TeacherService {
	return &teacherService{
		repo:      repo,
		validator: v,
		logger:    logger,
	}
}

func (s *teacherService) GetProfile(ctx context.Context, actor *models.Principal, userID string) (*models.TeacherProfile, error) {
	if err := requireSelfOrElevated(actor, userID, "teacher_profile", "read"); err != nil {
		return nil, err
	}
	return s.getProfile(ctx, userID)
}

// AssignCourse adds the course to the actor's taught set. Assigning a
// course already present is a no-op.
func (s *teacherService) AssignCourse(ctx context.Context, actor *models.Principal, courseID string) (*models.TeacherProfile, error) {
	if err := requireRole(actor, models.RoleTeacher, "teacher_profile", "assign_course"); err != nil {
		return nil, err
	}
	if errs := s.validateCourse(courseID); errs != nil {
		return nil, errs
	}

	profile, err := s.getProfile(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if !containsString(profile.TaughtCourses, courseID) {
		profile.TaughtCourses = append(profile.TaughtCourses, courseID)
		if err := s.repo.TeacherProfile().Update(ctx, profile); err != nil {
			return nil, fmt.Errorf("failed to update taught courses: %w", err)
		}
	}

	return profile, nil
}

// RemoveCourse removes the course from the actor's taught set. Removing an
// absent course is a no-op.
func (s *teacherService) RemoveCourse(ctx context.Context, actor *models.Principal, courseID string) (*models.TeacherProfile, error) {
	if err := requireRole(actor, models.RoleTeacher, "teacher_profile", "remove_course"); err != nil {
		return nil, err
	}
	if errs := s.validateCourse(courseID); errs != nil {
		return nil, errs
	}

	profile, err := s.getProfile(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if containsString(profile.TaughtCourses, courseID) {
		profile.TaughtCourses = removeString(profile.TaughtCourses, courseID)
		if err := s.repo.TeacherProfile().Update(ctx, profile); err != nil {
			return nil, fmt.Errorf("failed to update taught courses: %w", err)
		}
	}

	return profile, nil
}

// GetStudentsByCourse lists every student enrolled in the course, joined
// with their user record. A profile whose user record is missing is skipped
// rather than failing the listing.
func (s *teacherService) GetStudentsByCourse(ctx context.Context, actor *models.Principal, courseID string) ([]*models.UserResponse, error) {
	if err := requireRole(actor, models.RoleTeacher, "student_profile", "list_by_course"); err != nil {
		return nil, err
	}
	if errs := s.validateCourse(courseID); errs != nil {
		return nil, errs
	}

	profiles, err := s.repo.StudentProfile().GetByEnrolledCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}

	responses := make([]*models.UserResponse, 0, len(profiles))
	for _, profile := range profiles {
		user, err := s.repo.User().GetByID(ctx, profile.UserID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				s.logger.Warn("enrollment references missing user",
					"user_id", profile.UserID, "course_id", courseID)
				continue
			}
			return nil, fmt.Errorf("failed to get user %s: %w", profile.UserID, err)
		}
		responses = append(responses, studentResponse(user, profile))
	}

	return responses, nil
}

func (s *teacherService) getProfile(ctx context.Context, userID string) (*models.TeacherProfile, error) {
	profile, err := s.repo.TeacherProfile().GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTeacherProfileNotFound
		}
		return nil, fmt.Errorf("failed to get teacher profile: %w", err)
	}
	return profile, nil
}

func (s *teacherService) validateCourse(courseID string) error {
	if errs := s.validator.GetBusinessValidator().Validate(&validator.CourseRequest{CourseID: courseID}); len(errs) > 0 {
		return errs
	}
	return nil
}
