package services

import (
	"context"
	"errors"
	"testing"
)

func TestAssignRemoveCourseRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	teacher := env.signUp(t, "teach", "teach@example.com", "teacher")
	actor := principalFor(teacher)

	profile, err := env.teachers.AssignCourse(ctx, actor, "course-1")
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if len(profile.TaughtCourses) != 1 || profile.TaughtCourses[0] != "course-1" {
		t.Errorf("courses = %v, want [course-1]", profile.TaughtCourses)
	}

	profile, err = env.teachers.AssignCourse(ctx, actor, "course-1")
	if err != nil {
		t.Fatalf("second assign failed: %v", err)
	}
	if len(profile.TaughtCourses) != 1 {
		t.Errorf("courses after re-assign = %v, want single membership", profile.TaughtCourses)
	}

	profile, err = env.teachers.RemoveCourse(ctx, actor, "course-1")
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(profile.TaughtCourses) != 0 {
		t.Errorf("courses after remove = %v, want empty", profile.TaughtCourses)
	}

	if _, err := env.teachers.RemoveCourse(ctx, actor, "course-1"); err != nil {
		t.Errorf("remove of absent course failed: %v", err)
	}
}

func TestAssignCourseRequiresTeacherRole(t *testing.T) {
	env := newTestEnv(t)
	student := env.signUp(t, "alice", "alice@example.com")

	_, err := env.teachers.AssignCourse(context.Background(), principalFor(student), "course-1")

	var perr *PermissionError
	if !errors.As(err, &perr) {
		t.Errorf("expected PermissionError, got %v", err)
	}
}

func TestGetStudentsByCourse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	teacher := env.signUp(t, "teach", "teach@example.com", "teacher")
	alice := env.signUp(t, "alice", "alice@example.com")
	bob := env.signUp(t, "bob", "bob@example.com")
	env.signUp(t, "carol", "carol@example.com")

	if _, err := env.students.EnrollInCourse(ctx, principalFor(alice), "course-1"); err != nil {
		t.Fatalf("enroll alice failed: %v", err)
	}
	if _, err := env.students.EnrollInCourse(ctx, principalFor(bob), "course-1"); err != nil {
		t.Fatalf("enroll bob failed: %v", err)
	}

	students, err := env.teachers.GetStudentsByCourse(ctx, principalFor(teacher), "course-1")
	if err != nil {
		t.Fatalf("GetStudentsByCourse failed: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("got %d students, want 2", len(students))
	}
	for _, s := range students {
		if len(s.EnrolledCourses) == 0 || s.EnrolledCourses[0] != "course-1" {
			t.Errorf("student %s missing enrollment: %+v", s.Username, s)
		}
	}
}

// An enrollment whose user record has vanished is skipped rather than
// failing the listing.
func TestGetStudentsByCourseSkipsMissingUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	teacher := env.signUp(t, "teach", "teach@example.com", "teacher")
	alice := env.signUp(t, "alice", "alice@example.com")

	if _, err := env.students.EnrollInCourse(ctx, principalFor(alice), "course-1"); err != nil {
		t.Fatalf("enroll failed: %v", err)
	}
	if err := env.repo.User().Delete(ctx, alice.ID); err != nil {
		t.Fatalf("setup delete failed: %v", err)
	}

	students, err := env.teachers.GetStudentsByCourse(ctx, principalFor(teacher), "course-1")
	if err != nil {
		t.Fatalf("GetStudentsByCourse failed: %v", err)
	}
	if len(students) != 0 {
		t.Errorf("got %d students, want 0", len(students))
	}
}

func TestGetTeacherProfileMissing(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.signUp(t, "teach", "teach@example.com", "teacher")

	if err := env.repo.TeacherProfile().DeleteByUserID(context.Background(), teacher.ID); err != nil {
		t.Fatalf("setup delete failed: %v", err)
	}

	_, err := env.teachers.GetProfile(context.Background(), principalFor(teacher), teacher.ID)
	if !errors.Is(err, ErrTeacherProfileNotFound) {
		t.Errorf("expected ErrTeacherProfileNotFound, got %v", err)
	}
}
